package models

// BlogCategory is a shared label referenced (never embedded) by blogs
type BlogCategory struct {
	Base
	Name        string `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Description string `json:"description,omitempty" db:"description" gorm:"type:text"`
}
