package models

// Resume is an uploaded CV; at most one row has IsActive set
type Resume struct {
	Base
	Name     string `json:"name" db:"name" gorm:"type:text;not null"`
	URL      string `json:"url" db:"url" gorm:"type:text;not null"`
	PublicID string `json:"publicId" db:"public_id" gorm:"type:text;not null"`
	IsActive bool   `json:"isActive" db:"is_active" gorm:"not null;default:false;index"`
}
