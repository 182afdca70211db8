package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
)

type FooterContentRepo struct {
	db *gorm.DB
}

func NewFooterContentRepo(db *gorm.DB) *FooterContentRepo {
	return &FooterContentRepo{db}
}

// FindAll returns every footer block; an empty table is reported as errs.ErrNoResults
func (r *FooterContentRepo) FindAll(ctx context.Context) ([]models.FooterContent, error) {
	footers := []models.FooterContent{}
	if err := r.db.WithContext(ctx).Order("created_at").Find(&footers).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "FooterContent", err)
	}
	if len(footers) == 0 {
		return footers, errs.NewNoResultsError("footer content")
	}
	return footers, nil
}

func (r *FooterContentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FooterContent, error) {
	var footer models.FooterContent
	if err := r.db.WithContext(ctx).First(&footer, "id = ?", id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "FooterContent", err)
	}
	return &footer, nil
}

func (r *FooterContentRepo) Add(ctx context.Context, footer *models.FooterContent) error {
	if err := r.db.WithContext(ctx).Create(footer).Error; err != nil {
		return errs.NewDatabaseError("create", "FooterContent", err)
	}
	return nil
}

func (r *FooterContentRepo) Update(ctx context.Context, footer *models.FooterContent) error {
	res := r.db.WithContext(ctx).Model(footer).Select("*").Omit("id", "created_at").Updates(footer)
	if res.Error != nil {
		return errs.NewDatabaseError("update", "FooterContent", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("FooterContent")
	}
	return nil
}

func (r *FooterContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.FooterContent{}, "id = ?", id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "FooterContent", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("FooterContent")
	}
	return nil
}
