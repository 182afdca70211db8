package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Blog represents a published article with its author metadata
type Blog struct {
	Base
	Title                  string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Desc                   string                      `json:"desc" db:"description" gorm:"column:description;type:text;not null"`
	AuthorName             string                      `json:"authorName" db:"author_name" gorm:"type:text;not null"`
	AuthorDesc             string                      `json:"authorDesc,omitempty" db:"author_desc" gorm:"type:text"`
	AuthorGithubLink       string                      `json:"authorGithubLink,omitempty" db:"author_github_link" gorm:"type:text"`
	AuthorPortfolioLink    string                      `json:"authorPortfolioLink,omitempty" db:"author_portfolio_link" gorm:"type:text"`
	AuthorOtherProfileLink string                      `json:"authorOtherProfileLink,omitempty" db:"author_other_profile_link" gorm:"type:text"`
	Content                string                      `json:"content,omitempty" db:"content" gorm:"type:text"`
	ShareLink              string                      `json:"shareLink,omitempty" db:"share_link" gorm:"type:text"`
	ThumbnailImg           string                      `json:"thumbnailImg,omitempty" db:"thumbnail_img" gorm:"type:text"`
	ReadTime               int                         `json:"readTime" db:"read_time" gorm:"not null;default:0"`
	Views                  int64                       `json:"views" db:"views" gorm:"not null;default:0"`
	IsFeatured             bool                        `json:"isFeatured" db:"is_featured" gorm:"not null;default:false"`
	Date                   time.Time                   `json:"date" db:"date" gorm:"not null;index"`
	Slug                   string                      `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	RelatedBlogIDs         datatypes.JSONSlice[string] `json:"relatedBlogIds" db:"related_blog_ids"`

	Categories   []BlogCategory `json:"category" gorm:"many2many:blog_category_links;"`
	TagRows      []BlogTag      `json:"-" gorm:"foreignKey:BlogID;references:ID;constraint:OnDelete:CASCADE"`
	Tags         []string       `json:"tags" gorm:"-"`
	RelatedBlogs []BlogSummary  `json:"relatedBlogs" gorm:"-"`
}

// BlogSummary is the trimmed view of a blog embedded in another blog's response
type BlogSummary struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Slug         string         `json:"slug"`
	Desc         string         `json:"desc"`
	ThumbnailImg string         `json:"thumbnailImg,omitempty"`
	Date         time.Time      `json:"date"`
	Categories   []BlogCategory `json:"category"`
}

// Summary returns the embedded view of b
func (b Blog) Summary() BlogSummary {
	return BlogSummary{
		ID:           b.ID,
		Title:        b.Title,
		Slug:         b.Slug,
		Desc:         b.Desc,
		ThumbnailImg: b.ThumbnailImg,
		Date:         b.Date,
		Categories:   b.Categories,
	}
}

// AfterFind flattens the tag rows into the ordered tag list exposed over JSON
func (b *Blog) AfterFind(tx *gorm.DB) error {
	if b.TagRows == nil {
		return nil
	}
	rows := make([]BlogTag, len(b.TagRows))
	copy(rows, b.TagRows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	b.Tags = make([]string, 0, len(rows))
	for _, row := range rows {
		b.Tags = append(b.Tags, row.Value)
	}
	return nil
}
