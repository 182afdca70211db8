package models

// Subscriber is a newsletter address. Unsubscribing clears Subscribed instead of deleting the row.
type Subscriber struct {
	Base
	Email         string `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	Subscribed    bool   `json:"subscribed" db:"subscribed" gorm:"not null"`
	AddedManually bool   `json:"addedManually" db:"added_manually" gorm:"not null;default:false"`
}
