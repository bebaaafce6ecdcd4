package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MenaTadrous/Lieferspatz/models"
	"github.com/MenaTadrous/Lieferspatz/utils"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterCustomerRequest binds the customer registration payload.
type RegisterCustomerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Postcode  string `json:"postcode" binding:"required"`
	Address   string `json:"address" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// RegisterRestaurantRequest binds the restaurant registration form. This one
// is multipart because of the optional picture upload, hence form tags.
type RegisterRestaurantRequest struct {
	Email       string `form:"email" binding:"required,email"`
	Password    string `form:"password" binding:"required,min=8"`
	Postcode    string `form:"postcode" binding:"required"`
	Address     string `form:"address" binding:"required"`
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	OpeningTime string `form:"opening_time" binding:"required"`
	ClosingTime string `form:"closing_time" binding:"required"`
	// Comma-separated list of postcodes the restaurant delivers to.
	Postcodes string `form:"postcodes" binding:"required"`
}

// emailTaken reports whether an account with this email already exists.
// The match is exact and case-sensitive.
func emailTaken(tx *gorm.DB, email string) (bool, error) {
	var existing models.Account
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func RegisterCustomerHandler(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := models.Account{
		Email:    req.Email,
		Postcode: req.Postcode,
		Address:  req.Address,
	}
	if err := account.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// Account and Customer rows are created as one unit.
	err := DB.Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, req.Email)
		if err != nil {
			return err
		}
		if taken {
			return errEmailTaken
		}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		customer := models.Customer{
			AccountID: account.ID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}
		return tx.Create(&customer).Error
	})
	if errors.Is(err, errEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		log.Printf("Failed to register customer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Customer registered successfully", "account_id": account.ID})
}

var errEmailTaken = errors.New("email already registered")

// parsePostcodes splits a comma-separated postcode list, rejecting empty or
// non-numeric entries.
func parsePostcodes(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	postcodes := make([]string, 0, len(parts))
	for _, part := range parts {
		code := strings.TrimSpace(part)
		if code == "" {
			return nil, errors.New("empty postcode in list")
		}
		if _, err := strconv.Atoi(code); err != nil {
			return nil, errors.New("postcode must be numeric: " + code)
		}
		postcodes = append(postcodes, code)
	}
	return postcodes, nil
}

func RegisterRestaurantHandler(c *gin.Context) {
	var req RegisterRestaurantRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	postcodes, err := parsePostcodes(req.Postcodes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	picture, err := utils.SavePicture(c, "picture", req.Name, UploadFolder, utils.DefaultRestaurantPicture)
	if err != nil {
		log.Printf("Failed to store restaurant picture: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store picture"})
		return
	}

	account := models.Account{
		Email:    req.Email,
		Postcode: req.Postcode,
		Address:  req.Address,
	}
	if err := account.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// Account, Restaurant and the service-area rows commit or roll back together.
	err = DB.Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, req.Email)
		if err != nil {
			return err
		}
		if taken {
			return errEmailTaken
		}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		restaurant := models.Restaurant{
			AccountID:   account.ID,
			Name:        req.Name,
			Description: req.Description,
			OpeningTime: req.OpeningTime,
			ClosingTime: req.ClosingTime,
			Picture:     picture,
		}
		if err := tx.Create(&restaurant).Error; err != nil {
			return err
		}
		for _, code := range postcodes {
			sp := models.ServicePostcode{RestaurantID: account.ID, Postcode: code}
			if err := tx.Create(&sp).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		log.Printf("Failed to register restaurant: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant registered successfully", "account_id": account.ID})
}

// classifyAccount resolves whether an account is a customer or a restaurant
// by looking for its role row. Exactly one must exist.
func classifyAccount(accountID uint) (string, error) {
	var customer models.Customer
	err := DB.Where("account_id = ?", accountID).First(&customer).Error
	if err == nil {
		return models.UserTypeCustomer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var restaurant models.Restaurant
	err = DB.Where("account_id = ?", accountID).First(&restaurant).Error
	if err == nil {
		return models.UserTypeRestaurant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return "", errors.New("account has no role row")
}

func LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Unknown email and wrong password are indistinguishable on purpose.
	var account models.Account
	if err := DB.Where("email = ?", req.Email).First(&account).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err := account.CheckPassword(req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	userType, err := classifyAccount(account.ID)
	if err != nil {
		log.Printf("Failed to classify account %d: %v", account.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve account role"})
		return
	}

	token, err := utils.GenerateToken(account.ID, userType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_type": userType, "account_id": account.ID})
}

// LogoutHandler acknowledges the logout. Tokens are stateless; the client
// discards its copy.
func LogoutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserClaimsKey, claims)
		c.Next()
	}
}

// RequireRole gates a route group to one user type.
func RequireRole(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			return
		}
		if claims.UserType != userType {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access forbidden for this role"})
			return
		}
		c.Next()
	}
}
