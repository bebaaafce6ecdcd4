package models

// Restaurant extends an Account with restaurant-only fields.
// OpeningTime and ClosingTime are zero-padded "HH:MM" strings, so the
// open-now check can compare them lexicographically against the clock.
type Restaurant struct {
	AccountID   uint    `json:"account_id" gorm:"primaryKey"`
	Account     Account `json:"-" gorm:"foreignKey:AccountID"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	OpeningTime string  `json:"opening_time" gorm:"not null"`
	ClosingTime string  `json:"closing_time" gorm:"not null"`
	Picture     string  `json:"picture"`
}

// ServicePostcode maps a restaurant to one postal code it delivers to.
// The composite unique index keeps the service-area set duplicate-free.
type ServicePostcode struct {
	ID           uint   `json:"-" gorm:"primaryKey"`
	RestaurantID uint   `json:"restaurant_id" gorm:"not null;uniqueIndex:idx_restaurant_postcode"`
	Postcode     string `json:"postcode" gorm:"not null;uniqueIndex:idx_restaurant_postcode"`
}
