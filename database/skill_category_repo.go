package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SkillCategoryRepo owns both sides of the skill/category relationship: a skill points at its
// category through CategoryID and the category lists its skills in SkillIDs. Every method that
// touches both sides runs in one transaction.
type SkillCategoryRepo struct {
	db     *gorm.DB
	skills *SkillRepo
}

func NewSkillCategoryRepo(db *gorm.DB, skills *SkillRepo) *SkillCategoryRepo {
	return &SkillCategoryRepo{db: db, skills: skills}
}

// FindAll returns every category with its listed skills, oldest category first
func (r *SkillCategoryRepo) FindAll(ctx context.Context) ([]models.SkillCategory, error) {
	db := r.db.WithContext(ctx)
	categories := []models.SkillCategory{}
	if err := db.Order("created_at").Order("id").Find(&categories).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "SkillCategory", err)
	}
	for i := range categories {
		skills, err := r.skills.findOrdered(db, categories[i].SkillIDs)
		if err != nil {
			return nil, errs.NewDatabaseError("list", "Skill", err)
		}
		categories[i].Skills = skills
	}
	return categories, nil
}

// FindByID returns one category with its listed skills in list order
func (r *SkillCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.SkillCategory, error) {
	category, err := r.populated(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "SkillCategory", err)
	}
	return category, nil
}

// CreateCategoryWithSkills creates a category and all of its skills. Nothing is stored when any
// check fails.
func (r *SkillCategoryRepo) CreateCategoryWithSkills(ctx context.Context, name string, skills []SkillInput) (*models.SkillCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(skills) == 0 {
		return nil, errs.NewBadRequestErrorWithField("Category and skills (array) are required", "category", "")
	}

	var created *models.SkillCategory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSkillCategoryNameFree(tx, name, uuid.Nil); err != nil {
			return err
		}
		if err := validateSkillInputs(skills); err != nil {
			return err
		}

		category := models.SkillCategory{Category: name, SkillIDs: datatypes.JSONSlice[string]{}}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		ids, err := createSkills(tx, category.ID, skills)
		if err != nil {
			return err
		}
		if err := saveSkillIDs(tx, category.ID, ids); err != nil {
			return err
		}

		created, err = r.populated(tx, category.ID)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", "SkillCategory", err)
	}
	return created, nil
}

// AddSkillsToCategory creates skills and appends them to the category's list
func (r *SkillCategoryRepo) AddSkillsToCategory(ctx context.Context, categoryID uuid.UUID, skills []SkillInput) (*models.SkillCategory, error) {
	if len(skills) == 0 {
		return nil, errs.NewBadRequestErrorWithField("Skills (array) are required", "skills", "")
	}

	var updated *models.SkillCategory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := findSkillCategory(tx, categoryID)
		if err != nil {
			return err
		}
		if err := validateSkillInputs(skills); err != nil {
			return err
		}

		ids, err := createSkills(tx, category.ID, skills)
		if err != nil {
			return err
		}
		if err := saveSkillIDs(tx, category.ID, append(category.SkillIDs, ids...)); err != nil {
			return err
		}

		updated, err = r.populated(tx, category.ID)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "SkillCategory", err)
	}
	return updated, nil
}

// UpdateWholeCategoryAndSkill reconciles the category with the desired skill list in one pass.
//
// Skills without an id are created. Skills with an id are updated; a skill currently owned by
// another category is pulled from that category's list and re-pointed here. The category's list
// is then replaced by exactly the submitted skills, in submitted order. Skills that were listed
// before but are not submitted keep existing and keep pointing here, but no category lists them
// any more.
//
// Existing skills are saved before new ones are created, so a new skill may take a name that an
// existing skill gives up in the same call. Two existing skills cannot swap names in one call.
func (r *SkillCategoryRepo) UpdateWholeCategoryAndSkill(ctx context.Context, categoryID uuid.UUID, name *string, skills []SkillInput) (*models.SkillCategory, error) {
	var updated *models.SkillCategory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := findSkillCategory(tx, categoryID)
		if err != nil {
			return err
		}
		if name != nil && strings.TrimSpace(*name) != "" && strings.TrimSpace(*name) != category.Category {
			newName := strings.TrimSpace(*name)
			if err := ensureSkillCategoryNameFree(tx, newName, category.ID); err != nil {
				return err
			}
			if err := tx.Model(&models.SkillCategory{}).Where("id = ?", category.ID).Update("category", newName).Error; err != nil {
				return err
			}
		}
		if err := validateSkillInputs(skills); err != nil {
			return err
		}

		ids := make([]string, len(skills))
		for i, in := range skills {
			if in.ID == nil {
				continue
			}
			var skill models.Skill
			if err := tx.First(&skill, "id = ?", *in.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errs.NewSkillNotFoundError(in.ID.String())
				}
				return err
			}
			if err := ensureSkillNameFree(tx, in.Name, skill.ID); err != nil {
				return err
			}
			if skill.CategoryID != category.ID {
				if err := pullSkillFromCategory(tx, skill.CategoryID, skill.ID); err != nil {
					return err
				}
			}
			skill.Name = in.Name
			skill.Level = models.SkillLevel(in.Level)
			skill.Icon = in.Icon
			skill.CategoryID = category.ID
			if err := tx.Save(&skill).Error; err != nil {
				return err
			}
			ids[i] = skill.ID.String()
		}
		for i, in := range skills {
			if in.ID != nil {
				continue
			}
			created, err := createSkills(tx, category.ID, []SkillInput{in})
			if err != nil {
				return err
			}
			ids[i] = created[0]
		}

		if err := saveSkillIDs(tx, category.ID, ids); err != nil {
			return err
		}
		updated, err = r.populated(tx, category.ID)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "SkillCategory", err)
	}
	return updated, nil
}

// RenameCategory changes only the category name
func (r *SkillCategoryRepo) RenameCategory(ctx context.Context, categoryID uuid.UUID, name string) (*models.SkillCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("category")
	}
	var updated *models.SkillCategory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findSkillCategory(tx, categoryID); err != nil {
			return err
		}
		if err := ensureSkillCategoryNameFree(tx, name, categoryID); err != nil {
			return err
		}
		if err := tx.Model(&models.SkillCategory{}).Where("id = ?", categoryID).Update("category", name).Error; err != nil {
			return err
		}
		var err error
		updated, err = r.populated(tx, categoryID)
		return err
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "SkillCategory", err)
	}
	return updated, nil
}

// DeleteCategoryWithSkills removes every skill pointing at the category, then the category
func (r *SkillCategoryRepo) DeleteCategoryWithSkills(ctx context.Context, categoryID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findSkillCategory(tx, categoryID); err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&models.Skill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SkillCategory{}, "id = ?", categoryID).Error
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "SkillCategory", err)
	}
	return nil
}

// DeleteSkill removes the skill from its owning category's list and then deletes it
func (r *SkillCategoryRepo) DeleteSkill(ctx context.Context, skillID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var skill models.Skill
		if err := tx.First(&skill, "id = ?", skillID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewSkillNotFoundError(skillID.String())
			}
			return err
		}
		if err := pullSkillFromCategory(tx, skill.CategoryID, skill.ID); err != nil {
			return err
		}
		return tx.Delete(&models.Skill{}, "id = ?", skill.ID).Error
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "Skill", err)
	}
	return nil
}

// SkillDrift is a skill listed by one category while pointing at another
type SkillDrift struct {
	SkillID  uuid.UUID `json:"skillId"`
	ListedBy uuid.UUID `json:"listedBy"`
	PointsTo uuid.UUID `json:"pointsTo"`
}

// DanglingRef is a listed skill id that does not resolve to a skill
type DanglingRef struct {
	CategoryID uuid.UUID `json:"categoryId"`
	SkillID    string    `json:"skillId"`
}

// DriftReport lists every way the two sides of the skill/category relationship disagree
type DriftReport struct {
	Mismatched []SkillDrift  `json:"mismatched"`
	Dangling   []DanglingRef `json:"dangling"`
	Unlisted   []uuid.UUID   `json:"unlisted"`
}

func (d DriftReport) Clean() bool {
	return len(d.Mismatched) == 0 && len(d.Dangling) == 0 && len(d.Unlisted) == 0
}

// FindDrift compares every category list with the skills' back-pointers
func (r *SkillCategoryRepo) FindDrift(ctx context.Context) (DriftReport, error) {
	categories, skills, err := loadSkillGraph(r.db.WithContext(ctx))
	if err != nil {
		return DriftReport{}, errs.NewDatabaseError("inspect", "SkillCategory", err)
	}
	return computeDrift(categories, skills), nil
}

// RepairDrift rebuilds every category list from the skills' back-pointers: listed skills that
// still point back keep their position, unlisted skills pointing at the category are appended in
// creation order, and everything else is dropped from the list. It returns the drift found
// before the repair.
func (r *SkillCategoryRepo) RepairDrift(ctx context.Context) (DriftReport, error) {
	var before DriftReport
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, skills, err := loadSkillGraph(tx)
		if err != nil {
			return err
		}
		before = computeDrift(categories, skills)
		if before.Clean() {
			return nil
		}

		owner := make(map[string]uuid.UUID, len(skills))
		byCategory := map[uuid.UUID][]models.Skill{}
		for _, s := range skills {
			owner[s.ID.String()] = s.CategoryID
			byCategory[s.CategoryID] = append(byCategory[s.CategoryID], s)
		}

		for _, c := range categories {
			rebuilt := []string{}
			listed := map[string]bool{}
			for _, raw := range c.SkillIDs {
				id, err := uuid.Parse(raw)
				if err != nil {
					continue
				}
				key := id.String()
				if owner[key] == c.ID && !listed[key] {
					listed[key] = true
					rebuilt = append(rebuilt, key)
				}
			}
			for _, s := range byCategory[c.ID] {
				if !listed[s.ID.String()] {
					listed[s.ID.String()] = true
					rebuilt = append(rebuilt, s.ID.String())
				}
			}
			if !sameIDs(c.SkillIDs, rebuilt) {
				if err := saveSkillIDs(tx, c.ID, rebuilt); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return DriftReport{}, errs.NewDatabaseError("repair", "SkillCategory", err)
	}
	return before, nil
}

func loadSkillGraph(tx *gorm.DB) ([]models.SkillCategory, []models.Skill, error) {
	var categories []models.SkillCategory
	if err := tx.Order("created_at").Order("id").Find(&categories).Error; err != nil {
		return nil, nil, err
	}
	var skills []models.Skill
	if err := tx.Order("created_at").Order("id").Find(&skills).Error; err != nil {
		return nil, nil, err
	}
	return categories, skills, nil
}

func computeDrift(categories []models.SkillCategory, skills []models.Skill) DriftReport {
	report := DriftReport{Mismatched: []SkillDrift{}, Dangling: []DanglingRef{}, Unlisted: []uuid.UUID{}}

	byID := make(map[uuid.UUID]models.Skill, len(skills))
	for _, s := range skills {
		byID[s.ID] = s
	}
	listedBy := map[uuid.UUID][]uuid.UUID{}
	for _, c := range categories {
		for _, raw := range c.SkillIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				report.Dangling = append(report.Dangling, DanglingRef{CategoryID: c.ID, SkillID: raw})
				continue
			}
			s, ok := byID[id]
			if !ok {
				report.Dangling = append(report.Dangling, DanglingRef{CategoryID: c.ID, SkillID: raw})
				continue
			}
			listedBy[id] = append(listedBy[id], c.ID)
			if s.CategoryID != c.ID {
				report.Mismatched = append(report.Mismatched, SkillDrift{SkillID: id, ListedBy: c.ID, PointsTo: s.CategoryID})
			}
		}
	}
	for _, s := range skills {
		found := false
		for _, c := range listedBy[s.ID] {
			if c == s.CategoryID {
				found = true
				break
			}
		}
		if !found {
			report.Unlisted = append(report.Unlisted, s.ID)
		}
	}
	return report
}

func (r *SkillCategoryRepo) populated(tx *gorm.DB, id uuid.UUID) (*models.SkillCategory, error) {
	category, err := findSkillCategory(tx, id)
	if err != nil {
		return nil, err
	}
	category.Skills, err = r.skills.findOrdered(tx, category.SkillIDs)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func findSkillCategory(tx *gorm.DB, id uuid.UUID) (*models.SkillCategory, error) {
	var category models.SkillCategory
	if err := tx.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewCategoryNotFoundError(id.String())
		}
		return nil, err
	}
	if category.SkillIDs == nil {
		category.SkillIDs = datatypes.JSONSlice[string]{}
	}
	return &category, nil
}

// createSkills inserts validated inputs under categoryID and returns their ids in input order.
// Names already stored (ignoring case) are rejected.
func createSkills(tx *gorm.DB, categoryID uuid.UUID, inputs []SkillInput) ([]string, error) {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if err := ensureSkillNameFree(tx, in.Name, uuid.Nil); err != nil {
			return nil, err
		}
		skill := models.Skill{
			Name:       in.Name,
			Level:      models.SkillLevel(in.Level),
			Icon:       in.Icon,
			CategoryID: categoryID,
		}
		if err := tx.Create(&skill).Error; err != nil {
			return nil, err
		}
		ids = append(ids, skill.ID.String())
	}
	return ids, nil
}

// pullSkillFromCategory removes skillID from the list of categoryID; a missing category is ignored
func pullSkillFromCategory(tx *gorm.DB, categoryID, skillID uuid.UUID) error {
	category, err := findSkillCategory(tx, categoryID)
	if errs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(category.SkillIDs))
	for _, raw := range category.SkillIDs {
		if raw != skillID.String() {
			kept = append(kept, raw)
		}
	}
	if len(kept) == len(category.SkillIDs) {
		return nil
	}
	return saveSkillIDs(tx, categoryID, kept)
}

func saveSkillIDs(tx *gorm.DB, categoryID uuid.UUID, ids []string) error {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return tx.Model(&models.SkillCategory{}).Where("id = ?", categoryID).
		Update("skill_ids", datatypes.JSONSlice[string](unique)).Error
}

func ensureSkillCategoryNameFree(tx *gorm.DB, name string, self uuid.UUID) error {
	var existing models.SkillCategory
	err := tx.Select("id").Where("LOWER(category) = ?", strings.ToLower(name)).Take(&existing).Error
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

func sameIDs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
