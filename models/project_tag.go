package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectTag represents a tag associated with a project
type ProjectTag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index:idx_project_tag_project_id"`
	Position  int       `json:"position" db:"position" gorm:"not null;default:0"`
	Value     string    `json:"value" db:"value" gorm:"type:text;not null"`
}

func (t *ProjectTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
