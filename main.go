package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MenaTadrous/Lieferspatz/config"
	"github.com/MenaTadrous/Lieferspatz/handlers"
	"github.com/MenaTadrous/Lieferspatz/models"
	"github.com/MenaTadrous/Lieferspatz/utils"
)

func main() {

	/* CONFIG */

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	utils.SetJWTSecret(cfg.JWTSecret)
	handlers.UploadFolder = cfg.UploadFolder

	/* DATABASE */

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURI), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	handlers.DB = db

	if err := db.AutoMigrate(
		&models.Account{},
		&models.Customer{},
		&models.Restaurant{},
		&models.ServicePostcode{},
		&models.Category{},
		&models.Menu{},
		&models.Item{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := seedCategories(db); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	/* ROUTING */

	router := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AppEnv == "production" {
		corsConfig.AllowOrigins = []string{"https://lieferspatz.example.com"}
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	// Uploaded pictures are served by relative path under a fixed prefix.
	router.Static("/static", "./static")

	// Landing route: points an unauthenticated client at the two
	// registration flows and login.
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"login":               "/auth/login",
			"register_customer":   "/auth/register/customer",
			"register_restaurant": "/auth/register/restaurant",
		})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", handlers.LoginHandler)
		authGroup.POST("/logout", handlers.AuthMiddleware(), handlers.LogoutHandler)
		authGroup.POST("/register/customer", handlers.RegisterCustomerHandler)
		authGroup.POST("/register/restaurant", handlers.RegisterRestaurantHandler)
	}

	customerRoutes := router.Group("/customer",
		handlers.AuthMiddleware(), handlers.RequireRole(models.UserTypeCustomer))
	{
		customerRoutes.GET("/me", handlers.CustomerProfileHandler)
		customerRoutes.GET("/restaurants", handlers.ListRestaurantsHandler)
		customerRoutes.GET("/restaurants/:restaurant_id/menu", handlers.GetRestaurantMenuHandler)
		customerRoutes.GET("/cart", handlers.GetCartHandler)
		customerRoutes.PUT("/cart", handlers.ReplaceCartHandler)
		orderRoutes := customerRoutes.Group("/orders")
		{
			orderRoutes.POST("", handlers.PlaceOrderHandler)
			orderRoutes.GET("", handlers.ListCustomerOrdersHandler)
			orderRoutes.GET("/:order_id", handlers.GetCustomerOrderHandler)
		}
	}

	restaurantRoutes := router.Group("/restaurant",
		handlers.AuthMiddleware(), handlers.RequireRole(models.UserTypeRestaurant))
	{
		restaurantRoutes.GET("/me", handlers.RestaurantProfileHandler)
		menuRoutes := restaurantRoutes.Group("/menu")
		{
			menuRoutes.GET("", handlers.GetOwnMenuHandler)
			menuRoutes.POST("", handlers.AddItemHandler)
			menuRoutes.PUT("/:item_id", handlers.EditItemHandler)
			menuRoutes.DELETE("/:item_id", handlers.DeleteItemHandler)
		}
		orderRoutes := restaurantRoutes.Group("/orders")
		{
			orderRoutes.GET("", handlers.ListRestaurantOrdersHandler)
			orderRoutes.GET("/:order_id", handlers.GetRestaurantOrderHandler)
			orderRoutes.PUT("/:order_id/status", handlers.UpdateOrderStatusHandler)
		}
	}

	addr := ":" + cfg.Port
	log.Printf("Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// seedCategories inserts the fixed category lookup if missing.
func seedCategories(db *gorm.DB) error {
	for _, category := range models.DefaultCategories {
		if err := db.Where(models.Category{ID: category.ID}).
			FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
