package models

// Customer extends an Account with customer-only fields. One-to-one with
// Account; an account is exactly one of Customer or Restaurant.
type Customer struct {
	AccountID uint    `json:"account_id" gorm:"primaryKey"`
	Account   Account `json:"-" gorm:"foreignKey:AccountID"`
	FirstName string  `json:"first_name" gorm:"not null"`
	LastName  string  `json:"last_name" gorm:"not null"`
}
