package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db   *gorm.DB
	tags *ProjectTagRepo
}

func NewProjectRepo(db *gorm.DB, tags *ProjectTagRepo) *ProjectRepo {
	return &ProjectRepo{db: db, tags: tags}
}

// Project sort keys
const (
	ProjectSortFeatured = "featured"
	ProjectSortDate     = "date"
)

// ProjectFilter selects a page of projects. Category is one of the project category values.
type ProjectFilter struct {
	PageRequest
	Category   models.ProjectCategory
	Search     string
	IsFeatured *bool
	SortBy     string
	Sort       SortOrder
}

// Search returns one page of projects. SortBy "featured" puts featured projects first and then
// orders by completion date, "date" orders by completion date only, and any other key falls back
// to newest-created first.
func (r *ProjectRepo) Search(ctx context.Context, f ProjectFilter) (Page[models.Project], error) {
	f.PageRequest = f.PageRequest.Normalize()
	page := Page[models.Project]{Items: []models.Project{}, Page: f.Page, Limit: f.Limit}
	db := r.db.WithContext(ctx)

	q := db.Model(&models.Project{})
	if f.Category != "" {
		q = q.Where("projects.category = ?", f.Category)
	}
	if f.IsFeatured != nil {
		q = q.Where("projects.is_featured = ?", *f.IsFeatured)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		p := containsPattern(term)
		q = q.Where(db.Where(`LOWER(projects.title) LIKE ? ESCAPE '\'`, p).
			Or(`LOWER(projects.description) LIKE ? ESCAPE '\'`, p).
			Or(`LOWER(projects.client) LIKE ? ESCAPE '\'`, p).
			Or(`EXISTS (SELECT 1 FROM project_tags t WHERE t.project_id = projects.id AND LOWER(t.value) LIKE ? ESCAPE '\')`, p))
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&page.Total).Error; err != nil {
		return page, errs.NewDatabaseError("count", "Project", err)
	}
	if page.Total == 0 {
		return page, errs.NewNoResultsError("projects")
	}

	ordered := q.Preload("TagRows")
	switch f.SortBy {
	case ProjectSortFeatured:
		ordered = ordered.Order("projects.is_featured DESC").Order(completeDateOrder(f.Sort))
	case ProjectSortDate:
		ordered = ordered.Order(completeDateOrder(f.Sort))
	default:
		ordered = ordered.Order("projects.created_at DESC")
	}
	err := ordered.Order("projects.id").Limit(f.Limit).Offset(f.Offset()).Find(&page.Items).Error
	if err != nil {
		return page, errs.NewDatabaseError("list", "Project", err)
	}
	for i := range page.Items {
		normalizeProject(&page.Items[i])
	}
	return page, nil
}

// completeDateOrder keeps projects without a completion date last in both directions
func completeDateOrder(o SortOrder) string {
	return fmt.Sprintf("CASE WHEN projects.complete_date IS NULL THEN 1 ELSE 0 END, projects.complete_date %s", o.sql())
}

func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("TagRows").First(&project, "id = ?", id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "Project", err)
	}
	normalizeProject(&project)
	return &project, nil
}

// Add inserts a project together with its ordered tags
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		return r.tags.replace(tx, project.ID, project.Tags)
	})
	if err != nil {
		return errs.NewDatabaseError("create", "Project", err)
	}
	return r.reload(ctx, project)
}

// Update overwrites every column of an existing project and replaces its tags
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Project{}).Where("id = ?", project.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errs.NewNotFound("Project")
		}
		if err := tx.Omit(clause.Associations, "created_at").Save(project).Error; err != nil {
			return err
		}
		return r.tags.replace(tx, project.ID, project.Tags)
	})
	if err != nil {
		return errs.NewDatabaseError("update", "Project", err)
	}
	return r.reload(ctx, project)
}

// Delete removes a project and its tags
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.tags.replace(tx, id, nil); err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, errs.NewDatabaseError("delete", "Project", err)
	}
	return project, nil
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&n).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "Project", err)
	}
	return n, nil
}

func (r *ProjectRepo) reload(ctx context.Context, project *models.Project) error {
	fresh, err := r.FindByID(ctx, project.ID)
	if err != nil {
		return err
	}
	*project = *fresh
	return nil
}

func normalizeProject(p *models.Project) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.TechUsed == nil {
		p.TechUsed = []string{}
	}
	if p.KeyFeatures == nil {
		p.KeyFeatures = []string{}
	}
	if p.Challenges == nil {
		p.Challenges = []models.Challenge{}
	}
}
