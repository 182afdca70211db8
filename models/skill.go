package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SkillLevel is the ordered proficiency scale
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "Beginner"
	SkillLevelIntermediate SkillLevel = "Intermediate"
	SkillLevelAdvanced     SkillLevel = "Advanced"
	SkillLevelExpert       SkillLevel = "Expert"
)

var skillLevels = []SkillLevel{SkillLevelBeginner, SkillLevelIntermediate, SkillLevelAdvanced, SkillLevelExpert}

// ParseSkillLevel matches s case-insensitively against the scale and returns its canonical spelling
func ParseSkillLevel(s string) (SkillLevel, bool) {
	for _, l := range skillLevels {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l, true
		}
	}
	return "", false
}

// Rank orders levels from 0 (Beginner) to 3 (Expert); unknown levels rank -1
func (l SkillLevel) Rank() int {
	for i, known := range skillLevels {
		if known == l {
			return i
		}
	}
	return -1
}

// Skill belongs to exactly one SkillCategory through CategoryID.
// The category keeps its own ordered list of skill ids; the two sides are kept
// in sync by database.SkillCategoryRepo.
type Skill struct {
	Base
	Name       string     `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Level      SkillLevel `json:"level" db:"level" gorm:"type:text;not null"`
	Icon       string     `json:"icon" db:"icon" gorm:"type:text;not null"`
	CategoryID uuid.UUID  `json:"category" db:"category_id" gorm:"type:uuid;not null;index"`
}

// SkillCategory groups skills; SkillIDs is the denormalized, ordered side of the relationship
type SkillCategory struct {
	Base
	Category string                      `json:"category" db:"category" gorm:"type:text;not null;uniqueIndex"`
	SkillIDs datatypes.JSONSlice[string] `json:"-" db:"skill_ids"`

	Skills []Skill `json:"skills" gorm:"-"`
}

// HasSkill reports whether id is listed by the category
func (c SkillCategory) HasSkill(id uuid.UUID) bool {
	for _, s := range c.SkillIDs {
		if s == id.String() {
			return true
		}
	}
	return false
}
