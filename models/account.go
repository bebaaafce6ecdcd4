package models

import "golang.org/x/crypto/bcrypt"

// UserType values carried in JWT claims to classify a principal.
const (
	UserTypeCustomer   = "customer"
	UserTypeRestaurant = "restaurant"
)

// Account is the base identity record shared by customers and restaurants.
// Accounts are never deleted.
type Account struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Postcode     string `json:"postcode" gorm:"not null"`
	Address      string `json:"address"`
}

// SetPassword hashes and stores the given plaintext password.
func (a *Account) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashed)
	return nil
}

// CheckPassword verifies a candidate password against the stored hash.
func (a *Account) CheckPassword(candidate string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(candidate))
}
