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

// UpdateOrderStatusRequest binds a restaurant's status change.
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// PlaceOrderHandler commits the caller's cart to a persisted order. Prices
// and the total are recomputed from the current catalog inside one
// transaction; the client-submitted cart total is display-only.
func PlaceOrderHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	cart := Carts.Get(claims.UserID)
	if len(cart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	if cart.RestaurantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No restaurant selected"})
		return
	}

	var order models.Order
	err := DB.Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.Where("account_id = ?", cart.RestaurantID).First(&restaurant).Error; err != nil {
			return err
		}

		var menu models.Menu
		if err := tx.Where("restaurant_id = ?", restaurant.AccountID).First(&menu).Error; err != nil {
			return err
		}

		itemIDs := make([]uint, 0, len(cart.Items))
		for _, line := range cart.Items {
			itemIDs = append(itemIDs, line.ItemID)
		}

		var catalogItems []models.Item
		if err := tx.Where("id IN ? AND menu_id = ? AND is_deleted = ?", itemIDs, menu.ID, false).
			Find(&catalogItems).Error; err != nil {
			return err
		}
		itemByID := make(map[uint]models.Item, len(catalogItems))
		for _, item := range catalogItems {
			itemByID[item.ID] = item
		}

		var orderItems []models.OrderItem
		var totalCents int64
		for _, line := range cart.Items {
			item, found := itemByID[line.ItemID]
			if !found {
				return errItemNotOnMenu
			}
			orderItems = append(orderItems, models.OrderItem{
				ItemID:            item.ID,
				Quantity:          line.Quantity,
				PriceCentsAtOrder: item.PriceCents,
			})
			totalCents += item.PriceCents * line.Quantity
		}

		order = models.Order{
			CustomerID:     claims.UserID,
			RestaurantID:   restaurant.AccountID,
			Status:         models.OrderStatusProcessing,
			AdditionalText: cart.AdditionalText,
			TotalCents:     totalCents,
			OrderTime:      time.Now(),
			OrderItems:     orderItems,
		}
		return tx.Create(&order).Error
	})
	if errors.Is(err, errItemNotOnMenu) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart contains items not on this restaurant's menu"})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if err != nil {
		log.Printf("Failed to place order for customer %d: %v", claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	Carts.Clear(claims.UserID)

	var created models.Order
	if err := DB.Preload("OrderItems.Item").First(&created, order.ID).Error; err != nil {
		c.JSON(http.StatusCreated, order)
		return
	}
	c.JSON(http.StatusCreated, created)
}

var errItemNotOnMenu = errors.New("item not on menu")

// ordersPartitioned loads a principal's orders bucketed by the four
// statuses, each bucket newest-first.
func ordersPartitioned(column string, id uint) (gin.H, error) {
	buckets := map[string]models.OrderStatus{
		"processing": models.OrderStatusProcessing,
		"preparing":  models.OrderStatusPreparing,
		"complete":   models.OrderStatusComplete,
		"canceled":   models.OrderStatusCanceled,
	}

	result := gin.H{}
	for key, status := range buckets {
		var orders []models.Order
		err := DB.Where(column+" = ? AND status = ?", id, status).
			Order("order_time DESC").
			Find(&orders).Error
		if err != nil {
			return nil, err
		}
		if orders == nil {
			orders = []models.Order{}
		}
		result[key] = orders
	}
	return result, nil
}

// ListCustomerOrdersHandler shows the caller's own orders by status.
func ListCustomerOrdersHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	result, err := ordersPartitioned("customer_id", claims.UserID)
	if err != nil {
		log.Printf("Failed to list orders for customer %d: %v", claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListRestaurantOrdersHandler shows the incoming orders of the caller's
// restaurant by status.
func ListRestaurantOrdersHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	result, err := ordersPartitioned("restaurant_id", claims.UserID)
	if err != nil {
		log.Printf("Failed to list orders for restaurant %d: %v", claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCustomerOrderHandler returns one of the caller's orders with its lines
// and the restaurant's name. Orders of other customers read as not found.
func GetCustomerOrderHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var order models.Order
	err := DB.Preload("OrderItems.Item").
		Where("id = ? AND customer_id = ?", c.Param("order_id"), claims.UserID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Printf("Failed to load order %s: %v", c.Param("order_id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	var restaurant models.Restaurant
	if err := DB.Where("account_id = ?", order.RestaurantID).First(&restaurant).Error; err != nil {
		log.Printf("Failed to load restaurant %d: %v", order.RestaurantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "restaurant_name": restaurant.Name})
}

// GetRestaurantOrderHandler returns one incoming order with its lines and
// the customer's delivery address.
func GetRestaurantOrderHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var order models.Order
	err := DB.Preload("OrderItems.Item").
		Where("id = ? AND restaurant_id = ?", c.Param("order_id"), claims.UserID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Printf("Failed to load order %s: %v", c.Param("order_id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	var customer models.Account
	if err := DB.First(&customer, order.CustomerID).Error; err != nil {
		log.Printf("Failed to load customer account %d: %v", order.CustomerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "customer_address": customer.Address})
}

// UpdateOrderStatusHandler applies one step of the order workflow. Only the
// owning restaurant may move an order, and only along a legal transition.
func UpdateOrderStatusHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	var order models.Order
	err := DB.Where("id = ? AND restaurant_id = ?", c.Param("order_id"), claims.UserID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Printf("Failed to load order %s: %v", c.Param("order_id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	if !order.Status.CanTransitionTo(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Illegal status transition from " + string(order.Status) + " to " + string(req.Status),
		})
		return
	}

	if err := DB.Model(&order).Update("status", req.Status).Error; err != nil {
		log.Printf("Failed to update order %d status: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	c.JSON(http.StatusOK, order)
}
