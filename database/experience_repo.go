package database

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
)

type ExperienceRepo struct {
	db *gorm.DB
}

func NewExperienceRepo(db *gorm.DB) *ExperienceRepo {
	return &ExperienceRepo{db}
}

// FindAll returns the work history, current positions first, then by end year and start year descending
func (r *ExperienceRepo) FindAll(ctx context.Context) ([]models.Experience, error) {
	experiences := []models.Experience{}
	if err := r.db.WithContext(ctx).Find(&experiences).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "Experience", err)
	}
	sort.SliceStable(experiences, func(i, j int) bool {
		a, b := experiences[i], experiences[j]
		if ka, kb := models.YearSortKey(a.EndYear), models.YearSortKey(b.EndYear); ka != kb {
			return ka > kb
		}
		return models.YearSortKey(a.StartYear) > models.YearSortKey(b.StartYear)
	})
	return experiences, nil
}

func (r *ExperienceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	var experience models.Experience
	if err := r.db.WithContext(ctx).First(&experience, "id = ?", id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "Experience", err)
	}
	return &experience, nil
}

func (r *ExperienceRepo) Add(ctx context.Context, experience *models.Experience) error {
	if experience.EndYear == "" {
		experience.EndYear = models.PresentYear
	}
	if err := r.db.WithContext(ctx).Create(experience).Error; err != nil {
		return errs.NewDatabaseError("create", "Experience", err)
	}
	return nil
}

func (r *ExperienceRepo) Update(ctx context.Context, experience *models.Experience) error {
	res := r.db.WithContext(ctx).Model(experience).Select("*").Omit("id", "created_at").Updates(experience)
	if res.Error != nil {
		return errs.NewDatabaseError("update", "Experience", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("Experience")
	}
	return nil
}

func (r *ExperienceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Experience{}, "id = ?", id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "Experience", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("Experience")
	}
	return nil
}
