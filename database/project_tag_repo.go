package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
)

type ProjectTagRepo struct {
	db *gorm.DB
}

func NewProjectTagRepo(db *gorm.DB) *ProjectTagRepo {
	return &ProjectTagRepo{db}
}

// Values returns every distinct project tag, alphabetically
func (r *ProjectTagRepo) Values(ctx context.Context) ([]string, error) {
	values := []string{}
	err := r.db.WithContext(ctx).Model(&models.ProjectTag{}).Distinct("value").Order("value").Pluck("value", &values).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "ProjectTag", err)
	}
	return values, nil
}

func (r *ProjectTagRepo) replace(tx *gorm.DB, projectID uuid.UUID, tags []string) error {
	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	rows := make([]models.ProjectTag, 0, len(tags))
	for i, value := range tags {
		rows = append(rows, models.ProjectTag{ProjectID: projectID, Position: i, Value: value})
	}
	return tx.Create(&rows).Error
}
