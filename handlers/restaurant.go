package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MenaTadrous/Lieferspatz/models"
)

// openRestaurantsAt returns restaurants serving the given postcode whose
// opening interval contains the probe time. Both sides are zero-padded
// "HH:MM" strings, so BETWEEN compares correctly as text.
func openRestaurantsAt(postcode, probe string) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := DB.
		Joins("JOIN service_postcodes ON service_postcodes.restaurant_id = restaurants.account_id").
		Where("service_postcodes.postcode = ?", postcode).
		Where("? BETWEEN restaurants.opening_time AND restaurants.closing_time", probe).
		Find(&restaurants).Error
	if restaurants == nil {
		restaurants = []models.Restaurant{}
	}
	return restaurants, err
}

// ListRestaurantsHandler returns the restaurants a customer can currently
// order from: serving their postcode and open right now. Closed or
// out-of-area restaurants are simply excluded.
func ListRestaurantsHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var account models.Account
	if err := DB.First(&account, claims.UserID).Error; err != nil {
		log.Printf("Failed to load account %d: %v", claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	restaurants, err := openRestaurantsAt(account.Postcode, time.Now().Format("15:04"))
	if err != nil {
		log.Printf("Failed to list restaurants for postcode %s: %v", account.Postcode, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list restaurants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"postcode": account.Postcode, "restaurants": restaurants})
}

// RestaurantProfileHandler returns the logged-in restaurant's own record,
// the dashboard data.
func RestaurantProfileHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := DB.Where("account_id = ?", claims.UserID).First(&restaurant).Error; err != nil {
		log.Printf("Failed to load restaurant %d: %v", claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurant"})
		return
	}

	var postcodes []models.ServicePostcode
	if err := DB.Where("restaurant_id = ?", claims.UserID).Find(&postcodes).Error; err != nil {
		log.Printf("Failed to load service postcodes for %d: %v", claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load service area"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant, "service_postcodes": postcodes})
}

// CustomerProfileHandler returns the logged-in customer's account and name.
func CustomerProfileHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var customer models.Customer
	err := DB.Preload("Account").Where("account_id = ?", claims.UserID).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		log.Printf("Failed to load customer %d: %v", claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_id": customer.AccountID,
		"first_name": customer.FirstName,
		"last_name":  customer.LastName,
		"email":      customer.Account.Email,
		"postcode":   customer.Account.Postcode,
		"address":    customer.Account.Address,
	})
}
