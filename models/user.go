package models

// User is an account allowed to sign in; only the seeded administrator passes the auth gate
type User struct {
	Base
	Email        string `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string `json:"-" db:"password_hash" gorm:"type:text;not null"`
	Role         string `json:"role" db:"role" gorm:"type:text;not null;default:admin"`
}
