package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identifier and timestamps shared by every stored entity
type Base struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"not null"`
}

// BeforeCreate assigns a random UUID when the caller did not pick one
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// All returns one zero value of every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&BlogCategory{},
		&Blog{},
		&BlogTag{},
		&Project{},
		&ProjectTag{},
		&SkillCategory{},
		&Skill{},
		&Experience{},
		&FooterContent{},
		&Resume{},
		&Subscriber{},
	}
}

// AutoMigrate creates or updates every table the backend needs
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
