package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// CartLine is one pending cart entry.
type CartLine struct {
	ItemID   uint  `json:"item_id" binding:"required"`
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// Cart is the per-session pending order: items, a display total, an optional
// note, and the restaurant the customer is currently browsing. It lives
// entirely in memory; cart reads and writes never touch the database.
type Cart struct {
	Items          []CartLine `json:"items"`
	TotalCents     int64      `json:"total_cents"`
	AdditionalText string     `json:"additional_text"`
	RestaurantID   uint       `json:"restaurant_id"`
}

// CartStore keeps one cart per authenticated customer.
type CartStore struct {
	mu    sync.RWMutex
	carts map[uint]*Cart
}

// Carts is the process-wide cart store, the JWT-world stand-in for the
// original server-side browsing session.
var Carts = NewCartStore()

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[uint]*Cart)}
}

// Get returns a copy of the user's cart, empty if none exists yet.
func (s *CartStore) Get(userID uint) Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[userID]
	if !ok {
		return Cart{Items: []CartLine{}}
	}
	copied := *cart
	copied.Items = append([]CartLine{}, cart.Items...)
	return copied
}

// Replace swaps the whole cart snapshot atomically, keeping the restaurant
// binding. An empty items slice clears the cart.
func (s *CartStore) Replace(userID uint, items []CartLine, totalCents int64, additionalText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartLocked(userID)
	if len(items) == 0 {
		cart.Items = []CartLine{}
		cart.TotalCents = 0
		cart.AdditionalText = ""
		return
	}
	cart.Items = append([]CartLine{}, items...)
	cart.TotalCents = totalCents
	cart.AdditionalText = additionalText
}

// BindRestaurant records which restaurant the customer is browsing. Ordering
// is only possible against the bound restaurant.
func (s *CartStore) BindRestaurant(userID, restaurantID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartLocked(userID).RestaurantID = restaurantID
}

// Clear drops the user's cart entirely, binding included.
func (s *CartStore) Clear(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

func (s *CartStore) cartLocked(userID uint) *Cart {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &Cart{Items: []CartLine{}}
		s.carts[userID] = cart
	}
	return cart
}

// ReplaceCartRequest binds the client-submitted cart snapshot. The total is
// display-only; order placement recomputes it from the catalog.
type ReplaceCartRequest struct {
	Items          []CartLine `json:"items" binding:"omitempty,dive"`
	TotalCents     int64      `json:"total_cents"`
	AdditionalText string     `json:"additional_text"`
}

func GetCartHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Carts.Get(claims.UserID))
}

func ReplaceCartHandler(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	Carts.Replace(claims.UserID, req.Items, req.TotalCents, req.AdditionalText)
	c.JSON(http.StatusOK, Carts.Get(claims.UserID))
}
