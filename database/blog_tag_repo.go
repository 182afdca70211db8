package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
)

type BlogTagRepo struct {
	db *gorm.DB
}

func NewBlogTagRepo(db *gorm.DB) *BlogTagRepo {
	return &BlogTagRepo{db}
}

// Values returns every distinct tag in use, alphabetically
func (r *BlogTagRepo) Values(ctx context.Context) ([]string, error) {
	values := []string{}
	err := r.db.WithContext(ctx).Model(&models.BlogTag{}).Distinct("value").Order("value").Pluck("value", &values).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "BlogTag", err)
	}
	return values, nil
}

// FindByBlog returns the tags of one blog in their stored order
func (r *BlogTagRepo) FindByBlog(ctx context.Context, blogID uuid.UUID) ([]string, error) {
	values := []string{}
	err := r.db.WithContext(ctx).Model(&models.BlogTag{}).
		Where("blog_id = ?", blogID).Order("position").Pluck("value", &values).Error
	return values, err
}

// replace swaps the tag rows of a blog inside tx
func (r *BlogTagRepo) replace(tx *gorm.DB, blogID uuid.UUID, tags []string) error {
	if err := tx.Where("blog_id = ?", blogID).Delete(&models.BlogTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	rows := make([]models.BlogTag, 0, len(tags))
	for i, value := range tags {
		rows = append(rows, models.BlogTag{BlogID: blogID, Position: i, Value: value})
	}
	return tx.Create(&rows).Error
}
