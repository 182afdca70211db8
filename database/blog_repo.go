package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlogRepo struct {
	db   *gorm.DB
	tags *BlogTagRepo
}

func NewBlogRepo(db *gorm.DB, tags *BlogTagRepo) *BlogRepo {
	return &BlogRepo{db: db, tags: tags}
}

// BlogFilter selects a page of blogs. Category is a category name matched case-insensitively.
type BlogFilter struct {
	PageRequest
	Category   string
	Search     string
	IsFeatured *bool
	Sort       SortOrder
}

// Search returns one page of blogs matching f, newest first unless f.Sort is asc.
// An empty result is reported as errs.ErrNoResults together with the (empty) page.
func (r *BlogRepo) Search(ctx context.Context, f BlogFilter) (Page[models.Blog], error) {
	f.PageRequest = f.PageRequest.Normalize()
	page := Page[models.Blog]{Items: []models.Blog{}, Page: f.Page, Limit: f.Limit}
	db := r.db.WithContext(ctx)

	q := db.Model(&models.Blog{})
	if name := strings.TrimSpace(f.Category); name != "" {
		var category models.BlogCategory
		err := db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return page, errs.NewCategoryNotFoundError(name)
		}
		if err != nil {
			return page, errs.NewDatabaseError("find", "BlogCategory", err)
		}
		q = q.Where("EXISTS (SELECT 1 FROM blog_category_links l WHERE l.blog_id = blogs.id AND l.blog_category_id = ?)", category.ID)
	}
	if f.IsFeatured != nil {
		q = q.Where("blogs.is_featured = ?", *f.IsFeatured)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		p := containsPattern(term)
		q = q.Where(db.Where(`LOWER(blogs.title) LIKE ? ESCAPE '\'`, p).
			Or(`LOWER(blogs.description) LIKE ? ESCAPE '\'`, p).
			Or(`LOWER(blogs.author_name) LIKE ? ESCAPE '\'`, p).
			Or(`EXISTS (SELECT 1 FROM blog_tags t WHERE t.blog_id = blogs.id AND LOWER(t.value) LIKE ? ESCAPE '\')`, p).
			Or(`EXISTS (SELECT 1 FROM blog_category_links l JOIN blog_categories c ON c.id = l.blog_category_id
				WHERE l.blog_id = blogs.id AND LOWER(c.name) LIKE ? ESCAPE '\')`, p))
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&page.Total).Error; err != nil {
		return page, errs.NewDatabaseError("count", "Blog", err)
	}
	if page.Total == 0 {
		return page, errs.NewNoResultsError("blogs")
	}

	err := q.Preload("Categories").Preload("TagRows").
		Order(fmt.Sprintf("blogs.date %s", f.Sort.sql())).
		Order("blogs.created_at DESC").
		Limit(f.Limit).Offset(f.Offset()).
		Find(&page.Items).Error
	if err != nil {
		return page, errs.NewDatabaseError("list", "Blog", err)
	}

	ptrs := make([]*models.Blog, len(page.Items))
	for i := range page.Items {
		ptrs[i] = &page.Items[i]
	}
	if err := r.populateRelated(db, ptrs...); err != nil {
		return page, err
	}
	return page, nil
}

// Find loads one blog with its categories, tags and related blogs
func (r *BlogRepo) Find(ctx context.Context, key LookupKey) (*models.Blog, error) {
	db := r.db.WithContext(ctx)
	var blog models.Blog
	err := key.where(db.Preload("Categories").Preload("TagRows"), "blogs").First(&blog).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Blog", err)
	}
	if err := r.populateRelated(db, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	return r.Find(ctx, ByID(id))
}

// FindByIDOrSlug tries raw as a slug first and only then as an id. A value that is neither a
// known slug nor a well-formed id fails with a not-found error that also matches
// errs.ErrMalformedIdentifier.
func (r *BlogRepo) FindByIDOrSlug(ctx context.Context, raw string) (*models.Blog, error) {
	blog, err := r.Find(ctx, BySlug(raw))
	if err == nil || !errs.IsNotFound(err) {
		return blog, err
	}
	id, parseErr := uuid.Parse(raw)
	if parseErr != nil {
		return nil, errs.NewMalformedLookupError("Blog", raw)
	}
	return r.Find(ctx, ByID(id))
}

// View resolves raw like FindByIDOrSlug and counts one view
func (r *BlogRepo) View(ctx context.Context, raw string) (*models.Blog, error) {
	blog, err := r.FindByIDOrSlug(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := r.IncrementViews(ctx, blog.ID); err != nil {
		return nil, err
	}
	blog.Views++
	return blog, nil
}

// IncrementViews bumps the counter in a single UPDATE so concurrent readers never lose a view
func (r *BlogRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return errs.NewDatabaseError("update", "Blog", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("Blog")
	}
	return nil
}

// Add derives the slug from the title, checks it is free, validates categoryIDs and stores the
// blog with its tags and category links in one transaction.
func (r *BlogRepo) Add(ctx context.Context, blog *models.Blog, categoryIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := slugFor(blog.Title)
		if err != nil {
			return err
		}
		if err := ensureSlugFree(tx, slug, uuid.Nil); err != nil {
			return err
		}
		categories, err := resolveBlogCategories(tx, categoryIDs)
		if err != nil {
			return err
		}

		blog.Slug = slug
		if err := tx.Omit(clause.Associations).Create(blog).Error; err != nil {
			return err
		}
		if err := r.tags.replace(tx, blog.ID, blog.Tags); err != nil {
			return err
		}
		return linkBlogCategories(tx, blog.ID, categories)
	})
	if err != nil {
		return errs.NewDatabaseError("create", "Blog", err)
	}
	return r.reload(ctx, blog)
}

// Update saves blog. The slug is recomputed only when the title changed; categoryIDs nil keeps
// the current links, an empty non-nil slice removes them all.
func (r *BlogRepo) Update(ctx context.Context, blog *models.Blog, categoryIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.Blog
		if err := tx.Select("id", "title", "slug", "created_at").Where("id = ?", blog.ID).First(&stored).Error; err != nil {
			return err
		}

		blog.Slug = stored.Slug
		blog.CreatedAt = stored.CreatedAt
		if blog.Title != stored.Title {
			slug, err := slugFor(blog.Title)
			if err != nil {
				return err
			}
			if err := ensureSlugFree(tx, slug, blog.ID); err != nil {
				return err
			}
			blog.Slug = slug
		}

		var categories []models.BlogCategory
		if categoryIDs != nil {
			var err error
			if categories, err = resolveBlogCategories(tx, categoryIDs); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Save(blog).Error; err != nil {
			return err
		}
		if err := r.tags.replace(tx, blog.ID, blog.Tags); err != nil {
			return err
		}
		if categoryIDs == nil {
			return nil
		}
		if err := tx.Exec("DELETE FROM blog_category_links WHERE blog_id = ?", blog.ID).Error; err != nil {
			return err
		}
		return linkBlogCategories(tx, blog.ID, categories)
	})
	if err != nil {
		return errs.NewDatabaseError("update", "Blog", err)
	}
	return r.reload(ctx, blog)
}

// Delete removes the blog, its tags and its category links
func (r *BlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blog_category_links WHERE blog_id = ?", id).Error; err != nil {
			return err
		}
		if err := r.tags.replace(tx, id, nil); err != nil {
			return err
		}
		res := tx.Delete(&models.Blog{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("Blog")
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "Blog", err)
	}
	return nil
}

func (r *BlogRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Count(&n).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "Blog", err)
	}
	return n, nil
}

func (r *BlogRepo) reload(ctx context.Context, blog *models.Blog) error {
	fresh, err := r.Find(ctx, ByID(blog.ID))
	if err != nil {
		return err
	}
	*blog = *fresh
	return nil
}

// populateRelated fills RelatedBlogs from RelatedBlogIDs with one query for all of blogs.
// Ids that no longer resolve are skipped.
func (r *BlogRepo) populateRelated(db *gorm.DB, blogs ...*models.Blog) error {
	seen := map[uuid.UUID]bool{}
	ids := []uuid.UUID{}
	for _, b := range blogs {
		normalizeBlog(b)
		for _, raw := range b.RelatedBlogIDs {
			if id, err := uuid.Parse(raw); err == nil && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var related []models.Blog
	if err := db.Preload("Categories").Where("id IN ?", ids).Find(&related).Error; err != nil {
		return errs.NewDatabaseError("find", "related Blog", err)
	}
	byID := make(map[string]models.BlogSummary, len(related))
	for _, rb := range related {
		if rb.Categories == nil {
			rb.Categories = []models.BlogCategory{}
		}
		byID[rb.ID.String()] = rb.Summary()
	}
	for _, b := range blogs {
		for _, raw := range b.RelatedBlogIDs {
			if id, err := uuid.Parse(raw); err == nil {
				if summary, ok := byID[id.String()]; ok {
					b.RelatedBlogs = append(b.RelatedBlogs, summary)
				}
			}
		}
	}
	return nil
}

func normalizeBlog(b *models.Blog) {
	if b.Categories == nil {
		b.Categories = []models.BlogCategory{}
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.RelatedBlogIDs == nil {
		b.RelatedBlogIDs = []string{}
	}
	b.RelatedBlogs = []models.BlogSummary{}
}

func slugFor(title string) (string, error) {
	slug := models.Slugify(title)
	if slug == "" {
		return "", errs.NewInvalidFieldError("title", "title must contain at least one letter or digit")
	}
	return slug, nil
}

// ensureSlugFree fails with a duplicate-slug conflict when another blog than self owns slug
func ensureSlugFree(tx *gorm.DB, slug string, self uuid.UUID) error {
	var owner models.Blog
	err := tx.Select("id").Where("slug = ?", slug).Take(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if owner.ID != self {
		return errs.NewDuplicateSlugError(slug)
	}
	return nil
}

// resolveBlogCategories loads every referenced category or fails as a whole
func resolveBlogCategories(tx *gorm.DB, ids []uuid.UUID) ([]models.BlogCategory, error) {
	unique := dedupeIDs(ids)
	if len(unique) == 0 {
		return nil, nil
	}
	var categories []models.BlogCategory
	if err := tx.Where("id IN ?", unique).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(unique) {
		return nil, errs.NewInvalidCategoryError()
	}
	return categories, nil
}

func linkBlogCategories(tx *gorm.DB, blogID uuid.UUID, categories []models.BlogCategory) error {
	for _, c := range categories {
		if err := tx.Exec("INSERT INTO blog_category_links (blog_id, blog_category_id) VALUES (?, ?)", blogID, c.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
