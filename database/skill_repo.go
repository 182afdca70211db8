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

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

// SkillInput is one skill of a write request; ID is nil for a skill that does not exist yet
type SkillInput struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Name  string     `json:"name"`
	Level string     `json:"level"`
	Icon  string     `json:"icon"`
}

// SkillPatch changes only the non-nil fields of a skill
type SkillPatch struct {
	Name  *string `json:"name"`
	Level *string `json:"level"`
	Icon  *string `json:"icon"`
}

func (r *SkillRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewSkillNotFoundError(id.String())
		}
		return nil, errs.NewDatabaseError("find", "Skill", err)
	}
	return &skill, nil
}

// Update applies patch to one skill. A new name must not be used by any other skill, ignoring case.
func (r *SkillRepo) Update(ctx context.Context, id uuid.UUID, patch SkillPatch) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&skill, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewSkillNotFoundError(id.String())
			}
			return err
		}
		if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
			name := strings.TrimSpace(*patch.Name)
			if err := ensureSkillNameFree(tx, name, id); err != nil {
				return err
			}
			skill.Name = name
		}
		if patch.Level != nil && strings.TrimSpace(*patch.Level) != "" {
			level, ok := models.ParseSkillLevel(*patch.Level)
			if !ok {
				return invalidLevel(*patch.Level)
			}
			skill.Level = level
		}
		if patch.Icon != nil && strings.TrimSpace(*patch.Icon) != "" {
			skill.Icon = strings.TrimSpace(*patch.Icon)
		}
		return tx.Save(&skill).Error
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "Skill", err)
	}
	return &skill, nil
}

func (r *SkillRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Skill{}).Count(&n).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "Skill", err)
	}
	return n, nil
}

// findOrdered loads the skills named by ids in that order; unknown or malformed ids are skipped
func (r *SkillRepo) findOrdered(tx *gorm.DB, ids []string) ([]models.Skill, error) {
	skills := []models.Skill{}
	valid := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return skills, nil
	}
	var found []models.Skill
	if err := tx.Where("id IN ?", valid).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Skill, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range valid {
		if s, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			skills = append(skills, s)
		}
	}
	return skills, nil
}

// ensureSkillNameFree fails with a conflict when a skill other than self already has name
func ensureSkillNameFree(tx *gorm.DB, name string, self uuid.UUID) error {
	var existing models.Skill
	err := tx.Select("id", "name").Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return errs.NewDuplicateSkillNameError(existing.Name, true)
	}
	return nil
}

func invalidLevel(level string) error {
	return errs.NewInvalidFieldError("level", "level must be one of Beginner, Intermediate, Advanced, Expert; got "+level)
}

// validateSkillInputs checks completeness, the level scale and name clashes inside the list
// itself. It canonicalizes Name, Level and Icon in place.
func validateSkillInputs(skills []SkillInput) error {
	seen := make(map[string]bool, len(skills))
	for i := range skills {
		s := &skills[i]
		s.Name = strings.TrimSpace(s.Name)
		s.Icon = strings.TrimSpace(s.Icon)
		s.Level = strings.TrimSpace(s.Level)
		if s.Name == "" || s.Level == "" || s.Icon == "" {
			return errs.NewIncompleteSkillError(i)
		}
		level, ok := models.ParseSkillLevel(s.Level)
		if !ok {
			return invalidLevel(s.Level)
		}
		s.Level = string(level)

		key := strings.ToLower(s.Name)
		if seen[key] {
			return errs.NewDuplicateSkillNameError(s.Name, false)
		}
		seen[key] = true
	}
	return nil
}
