package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MenaTadrous/Lieferspatz/models"
	"github.com/MenaTadrous/Lieferspatz/utils"
)

// setupTest wires a fresh in-memory database and cart store into the
// package globals. Each test gets its own named memory DB so state never
// leaks between tests.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Customer{},
		&models.Restaurant{},
		&models.ServicePostcode{},
		&models.Category{},
		&models.Menu{},
		&models.Item{},
		&models.Order{},
		&models.OrderItem{},
	))
	for _, category := range models.DefaultCategories {
		category := category
		require.NoError(t, db.Where(models.Category{ID: category.ID}).FirstOrCreate(&category).Error)
	}

	DB = db
	Carts = NewCartStore()
}

// newTestRouter mirrors the route wiring of main.go.
func newTestRouter() *gin.Engine {
	router := gin.New()

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", LoginHandler)
		authGroup.POST("/logout", AuthMiddleware(), LogoutHandler)
		authGroup.POST("/register/customer", RegisterCustomerHandler)
		authGroup.POST("/register/restaurant", RegisterRestaurantHandler)
	}

	customerRoutes := router.Group("/customer",
		AuthMiddleware(), RequireRole(models.UserTypeCustomer))
	{
		customerRoutes.GET("/me", CustomerProfileHandler)
		customerRoutes.GET("/restaurants", ListRestaurantsHandler)
		customerRoutes.GET("/restaurants/:restaurant_id/menu", GetRestaurantMenuHandler)
		customerRoutes.GET("/cart", GetCartHandler)
		customerRoutes.PUT("/cart", ReplaceCartHandler)
		customerRoutes.POST("/orders", PlaceOrderHandler)
		customerRoutes.GET("/orders", ListCustomerOrdersHandler)
		customerRoutes.GET("/orders/:order_id", GetCustomerOrderHandler)
	}

	restaurantRoutes := router.Group("/restaurant",
		AuthMiddleware(), RequireRole(models.UserTypeRestaurant))
	{
		restaurantRoutes.GET("/me", RestaurantProfileHandler)
		restaurantRoutes.GET("/menu", GetOwnMenuHandler)
		restaurantRoutes.POST("/menu", AddItemHandler)
		restaurantRoutes.PUT("/menu/:item_id", EditItemHandler)
		restaurantRoutes.DELETE("/menu/:item_id", DeleteItemHandler)
		restaurantRoutes.GET("/orders", ListRestaurantOrdersHandler)
		restaurantRoutes.GET("/orders/:order_id", GetRestaurantOrderHandler)
		restaurantRoutes.PUT("/orders/:order_id/status", UpdateOrderStatusHandler)
	}

	return router
}

// createCustomer inserts a customer fixture and returns its ID and a token.
func createCustomer(t *testing.T, email, postcode string) (uint, string) {
	t.Helper()
	account := models.Account{Email: email, Postcode: postcode, Address: "Musterstr. 1"}
	require.NoError(t, account.SetPassword("secret-password"))
	require.NoError(t, DB.Create(&account).Error)
	customer := models.Customer{AccountID: account.ID, FirstName: "Max", LastName: "Muster"}
	require.NoError(t, DB.Create(&customer).Error)

	token, err := utils.GenerateToken(account.ID, models.UserTypeCustomer)
	require.NoError(t, err)
	return account.ID, token
}

// createRestaurant inserts a restaurant fixture serving the given postcodes
// and returns its ID and a token.
func createRestaurant(t *testing.T, email, opening, closing string, served ...string) (uint, string) {
	t.Helper()
	account := models.Account{Email: email, Postcode: "47051", Address: "Restaurantweg 2"}
	require.NoError(t, account.SetPassword("secret-password"))
	require.NoError(t, DB.Create(&account).Error)
	restaurant := models.Restaurant{
		AccountID:   account.ID,
		Name:        "Testaurant " + email,
		Description: "Test kitchen",
		OpeningTime: opening,
		ClosingTime: closing,
		Picture:     utils.DefaultRestaurantPicture,
	}
	require.NoError(t, DB.Create(&restaurant).Error)
	for _, code := range served {
		sp := models.ServicePostcode{RestaurantID: account.ID, Postcode: code}
		require.NoError(t, DB.Create(&sp).Error)
	}

	token, err := utils.GenerateToken(account.ID, models.UserTypeRestaurant)
	require.NoError(t, err)
	return account.ID, token
}

// addItem inserts an item on the restaurant's menu, creating the menu if
// needed, and returns the item.
func addItem(t *testing.T, restaurantID uint, name string, priceCents int64) models.Item {
	t.Helper()
	menu, err := ensureMenu(DB, restaurantID)
	require.NoError(t, err)
	item := models.Item{
		MenuID:      menu.ID,
		Name:        name,
		Picture:     "main.jpg",
		CategoryID:  2,
		PriceCents:  priceCents,
		Description: "tasty",
	}
	require.NoError(t, DB.Create(&item).Error)
	return item
}

// performJSON issues a JSON request against the router.
func performJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

// performForm issues a form-encoded request against the router.
func performForm(t *testing.T, router *gin.Engine, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}
