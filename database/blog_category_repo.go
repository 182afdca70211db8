package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
)

type BlogCategoryRepo struct {
	db *gorm.DB
}

func NewBlogCategoryRepo(db *gorm.DB) *BlogCategoryRepo {
	return &BlogCategoryRepo{db}
}

// FindAll returns all blog categories sorted by name
func (r *BlogCategoryRepo) FindAll(ctx context.Context) ([]models.BlogCategory, error) {
	categories := []models.BlogCategory{}
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "BlogCategory", err)
	}
	return categories, nil
}

func (r *BlogCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogCategory, error) {
	var category models.BlogCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewCategoryNotFoundError(id.String())
		}
		return nil, errs.NewDatabaseError("find", "BlogCategory", err)
	}
	return &category, nil
}

// Add stores a new category; names are unique ignoring case
func (r *BlogCategoryRepo) Add(ctx context.Context, category *models.BlogCategory) error {
	category.Name = strings.TrimSpace(category.Name)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureBlogCategoryNameFree(tx, category.Name, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(category).Error
	})
	if err != nil {
		return errs.NewDatabaseError("create", "BlogCategory", err)
	}
	return nil
}

// Update renames or re-describes a category, re-checking name uniqueness against the others
func (r *BlogCategoryRepo) Update(ctx context.Context, category *models.BlogCategory) error {
	category.Name = strings.TrimSpace(category.Name)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureBlogCategoryNameFree(tx, category.Name, category.ID); err != nil {
			return err
		}
		res := tx.Model(&models.BlogCategory{}).Where("id = ?", category.ID).
			Updates(map[string]interface{}{"name": category.Name, "description": category.Description})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewCategoryNotFoundError(category.ID.String())
		}
		return tx.First(category, "id = ?", category.ID).Error
	})
	if err != nil {
		return errs.NewDatabaseError("update", "BlogCategory", err)
	}
	return nil
}

// Delete detaches the category from every blog and removes it
func (r *BlogCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blog_category_links WHERE blog_category_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.BlogCategory{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewCategoryNotFoundError(id.String())
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "BlogCategory", err)
	}
	return nil
}

func ensureBlogCategoryNameFree(tx *gorm.DB, name string, self uuid.UUID) error {
	var existing models.BlogCategory
	err := tx.Select("id").Where("LOWER(name) = ?", strings.ToLower(name)).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return errs.NewDuplicateCategoryError(name)
	}
	return nil
}
