package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MenaTadrous/Lieferspatz/models"
	"github.com/MenaTadrous/Lieferspatz/utils"
)

// AddItemRequest binds the add-item form. Multipart because of the optional
// picture upload.
type AddItemRequest struct {
	Name        string `form:"name" binding:"required"`
	CategoryID  uint   `form:"category_id" binding:"required"`
	PriceCents  int64  `form:"price_cents" binding:"required,gt=0"`
	Description string `form:"description"`
}

// EditItemRequest binds the edit-item payload. Pointers so partial updates
// only touch supplied fields; picture and the deleted flag are never
// editable here.
type EditItemRequest struct {
	Name        *string `json:"name"`
	CategoryID  *uint   `json:"category_id"`
	PriceCents  *int64  `json:"price_cents" binding:"omitempty,gt=0"`
	Description *string `json:"description"`
}

// ensureMenu fetches the restaurant's menu, creating it on first use. The
// unique index on restaurant_id makes the upsert race-safe.
func ensureMenu(tx *gorm.DB, restaurantID uint) (*models.Menu, error) {
	var menu models.Menu
	err := tx.Where(models.Menu{RestaurantID: restaurantID}).FirstOrCreate(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// menuItems lists the non-deleted items of a menu with their category names.
func menuItems(menuID uint) ([]models.Item, error) {
	var items []models.Item
	err := DB.Preload("Category").
		Where("menu_id = ? AND is_deleted = ?", menuID, false).
		Find(&items).Error
	if items == nil {
		items = []models.Item{}
	}
	return items, err
}

// GetOwnMenuHandler lists the logged-in restaurant's menu.
func GetOwnMenuHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	menu, err := ensureMenu(DB, claims.UserID)
	if err != nil {
		log.Printf("Failed to resolve menu for restaurant %d: %v", claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}

	items, err := menuItems(menu.ID)
	if err != nil {
		log.Printf("Failed to list menu items for menu %d: %v", menu.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"menu_id": menu.ID, "items": items})
}

// AddItemHandler adds an item to the logged-in restaurant's menu, lazily
// creating the menu on first add. A missing or disallowed picture upload
// falls back to the category's stock image.
func AddItemHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category
	if err := DB.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		log.Printf("Failed to load category %d: %v", req.CategoryID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
		return
	}

	picture, err := utils.SavePicture(c, "picture", req.Name, UploadFolder, category.Picture)
	if err != nil {
		log.Printf("Failed to store item picture: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store picture"})
		return
	}

	var item models.Item
	err = DB.Transaction(func(tx *gorm.DB) error {
		menu, err := ensureMenu(tx, claims.UserID)
		if err != nil {
			return err
		}
		item = models.Item{
			MenuID:      menu.ID,
			Name:        req.Name,
			Picture:     picture,
			CategoryID:  req.CategoryID,
			PriceCents:  req.PriceCents,
			Description: req.Description,
			IsDeleted:   false,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		log.Printf("Failed to add item for restaurant %d: %v", claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ownItem loads an item by ID and verifies it sits on the caller's menu.
// Deleted items still resolve so historic data stays reachable.
func ownItem(c *gin.Context, restaurantID uint, itemID string) (*models.Item, bool) {
	var item models.Item
	err := DB.
		Joins("JOIN menus ON menus.id = items.menu_id AND menus.restaurant_id = ?", restaurantID).
		Where("items.id = ?", itemID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return nil, false
		}
		log.Printf("Failed to load item %s: %v", itemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return nil, false
	}
	return &item, true
}

// EditItemHandler updates an item's mutable fields in place.
func EditItemHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	item, ok := ownItem(c, claims.UserID, c.Param("item_id"))
	if !ok {
		return
	}

	var req EditItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := DB.First(&category, *req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.PriceCents != nil {
		updates["price_cents"] = *req.PriceCents
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	if err := DB.Model(item).Updates(updates).Error; err != nil {
		log.Printf("Failed to update item %d: %v", item.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItemHandler soft-deletes an item: it disappears from menu listings
// but keeps its row for orders that reference it.
func DeleteItemHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	item, ok := ownItem(c, claims.UserID, c.Param("item_id"))
	if !ok {
		return
	}

	if err := DB.Model(item).Update("is_deleted", true).Error; err != nil {
		log.Printf("Failed to soft-delete item %d: %v", item.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from menu"})
}

// GetRestaurantMenuHandler lets a customer view a restaurant's menu. Viewing
// a menu binds the caller's cart to that restaurant, mirroring the browsing
// flow where the cart belongs to the page you're on.
func GetRestaurantMenuHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	restaurantID := c.Param("restaurant_id")
	var restaurant models.Restaurant
	if err := DB.Where("account_id = ?", restaurantID).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
		log.Printf("Failed to load restaurant %s: %v", restaurantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurant"})
		return
	}

	var menu models.Menu
	items := []models.Item{}
	err := DB.Where("restaurant_id = ?", restaurant.AccountID).First(&menu).Error
	if err == nil {
		items, err = menuItems(menu.ID)
		if err != nil {
			log.Printf("Failed to list items for menu %d: %v", menu.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu items"})
			return
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to load menu for restaurant %d: %v", restaurant.AccountID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}

	Carts.BindRestaurant(claims.UserID, restaurant.AccountID)

	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant, "items": items})
}
