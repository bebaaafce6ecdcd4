package models

// Category is a fixed lookup seeded at migration time.
type Category struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"uniqueIndex;not null"`
	Picture string `json:"picture" gorm:"not null"`
}

// DefaultCategories seeds the four fixed item categories. Picture is the
// stock image used when an item is added without its own upload.
var DefaultCategories = []Category{
	{ID: 1, Name: "Appetizer", Picture: "appetizer.jpg"},
	{ID: 2, Name: "Main", Picture: "main.jpg"},
	{ID: 3, Name: "Dessert", Picture: "dessert.jpg"},
	{ID: 4, Name: "Drink", Picture: "drink.jpg"},
}

// Menu links a restaurant to its items. Exactly one per restaurant: the
// unique index on RestaurantID makes the lazy create-on-first-add safe.
type Menu struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	RestaurantID uint `json:"restaurant_id" gorm:"uniqueIndex;not null"`
}

// Item is a menu entry. Items are never hard-deleted; IsDeleted hides them
// from menu listings while keeping them resolvable for historic orders.
type Item struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	MenuID      uint     `json:"-" gorm:"not null;index"`
	Name        string   `json:"name" gorm:"not null"`
	Picture     string   `json:"picture"`
	CategoryID  uint     `json:"category_id" gorm:"not null"`
	Category    Category `json:"category" gorm:"foreignKey:CategoryID"`
	PriceCents  int64    `json:"price_cents" gorm:"not null"`
	Description string   `json:"description"`
	IsDeleted   bool     `json:"-" gorm:"not null;default:false;index"`
}
