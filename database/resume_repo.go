package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
)

// ResumeRepo keeps at most one resume active. Activation clears every flag and sets the new one
// inside the same transaction, so readers never observe zero or two active resumes.
type ResumeRepo struct {
	db *gorm.DB
}

func NewResumeRepo(db *gorm.DB) *ResumeRepo {
	return &ResumeRepo{db}
}

// FindAll returns every resume, newest first
func (r *ResumeRepo) FindAll(ctx context.Context) ([]models.Resume, error) {
	resumes := []models.Resume{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&resumes).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "Resume", err)
	}
	return resumes, nil
}

func (r *ResumeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).First(&resume, "id = ?", id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "Resume", err)
	}
	return &resume, nil
}

func (r *ResumeRepo) FindActive(ctx context.Context) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Take(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFoundError("No active resume found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Resume", err)
	}
	return &resume, nil
}

// Add stores a resume; when resume.IsActive is set it becomes the only active one
func (r *ResumeRepo) Add(ctx context.Context, resume *models.Resume) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if resume.IsActive {
			if err := clearActiveResumes(tx); err != nil {
				return err
			}
		}
		return tx.Create(resume).Error
	})
	if err != nil {
		return errs.NewDatabaseError("create", "Resume", err)
	}
	return nil
}

// SetActive makes id the only active resume
func (r *ResumeRepo) SetActive(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&resume, "id = ?", id).Error; err != nil {
			return err
		}
		if err := clearActiveResumes(tx); err != nil {
			return err
		}
		resume.IsActive = true
		return tx.Model(&resume).Update("is_active", true).Error
	})
	if err != nil {
		return nil, errs.NewDatabaseError("activate", "Resume", err)
	}
	return &resume, nil
}

func (r *ResumeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Resume{}, "id = ?", id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "Resume", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("Resume")
	}
	return nil
}

func clearActiveResumes(tx *gorm.DB) error {
	return tx.Model(&models.Resume{}).Where("is_active = ?", true).Update("is_active", false).Error
}
