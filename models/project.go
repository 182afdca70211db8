package models

import (
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectCategory is the fixed set of project kinds
type ProjectCategory string

const (
	ProjectCategoryFullstack ProjectCategory = "Fullstack"
	ProjectCategoryFrontend  ProjectCategory = "Frontend"
	ProjectCategoryBackend   ProjectCategory = "Backend"
)

// ParseProjectCategory matches s case-insensitively against the known categories
func ParseProjectCategory(s string) (ProjectCategory, bool) {
	for _, c := range []ProjectCategory{ProjectCategoryFullstack, ProjectCategoryFrontend, ProjectCategoryBackend} {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, true
		}
	}
	return "", false
}

// Challenge is one technical question and the answer the project found for it
type Challenge struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Project represents a portfolio project
type Project struct {
	Base
	Title               string                         `json:"title" db:"title" gorm:"type:text;not null"`
	Desc                string                         `json:"desc" db:"description" gorm:"column:description;type:text;not null"`
	TechUsed            datatypes.JSONSlice[string]    `json:"techUsed" db:"tech_used"`
	Category            ProjectCategory                `json:"category" db:"category" gorm:"type:text;not null;index"`
	GithubLink          string                         `json:"githubLink,omitempty" db:"github_link" gorm:"type:text"`
	LivePreviewLink     string                         `json:"livePreviewLink,omitempty" db:"live_preview_link" gorm:"type:text"`
	ThumbnailImg        string                         `json:"thumbnailImg,omitempty" db:"thumbnail_img" gorm:"type:text"`
	KeyFeatures         datatypes.JSONSlice[string]    `json:"keyFeatures" db:"key_features"`
	Challenges          datatypes.JSONSlice[Challenge] `json:"technicalChallengesAndSolutions" db:"challenges"`
	IsFeatured          bool                           `json:"isFeatured" db:"is_featured" gorm:"not null;default:false;index"`
	Client              string                         `json:"client,omitempty" db:"client" gorm:"type:text"`
	CompleteDate        *time.Time                     `json:"completeDate,omitempty" db:"complete_date"`
	AboutProjectContent string                         `json:"aboutProjectContent,omitempty" db:"about_project_content" gorm:"type:text"`

	TagRows []ProjectTag `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Tags    []string     `json:"tags" gorm:"-"`
}

// AfterFind flattens the tag rows into the ordered tag list exposed over JSON
func (p *Project) AfterFind(tx *gorm.DB) error {
	if p.TagRows == nil {
		return nil
	}
	rows := make([]ProjectTag, len(p.TagRows))
	copy(rows, p.TagRows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	p.Tags = make([]string, 0, len(rows))
	for _, row := range rows {
		p.Tags = append(p.Tags, row.Value)
	}
	return nil
}
