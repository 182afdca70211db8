package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogTag represents one tag of a blog post; Position keeps the submitted order
type BlogTag struct {
	ID       uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	BlogID   uuid.UUID `json:"blogId" db:"blog_id" gorm:"type:uuid;not null;index:idx_blog_tag_blog_id"`
	Position int       `json:"position" db:"position" gorm:"not null;default:0"`
	Value    string    `json:"value" db:"value" gorm:"type:text;not null;index:idx_blog_tag_value"`
}

func (t *BlogTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
