package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database. A single connection keeps every statement,
// transactions included, on the same memory database.
func setupTestDB(t *testing.T) (*gorm.DB, Database) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db, New(db)
}

func newBlog(title string, date time.Time) *models.Blog {
	return &models.Blog{
		Title:      title,
		Desc:       "about " + title,
		AuthorName: "Ada",
		Date:       date,
		IsFeatured: true,
	}
}

func addCategory(t *testing.T, store Database, name string) models.BlogCategory {
	t.Helper()
	c := models.BlogCategory{Name: name}
	require.NoError(t, store.BlogCategoryRepo().Add(context.Background(), &c))
	return c
}

func TestPingAndAccessors(t *testing.T) {
	_, store := setupTestDB(t)
	assert.NoError(t, store.Ping(context.Background()))
	assert.NotNil(t, store.BlogTagRepo())
	assert.NotNil(t, store.ProjectTagRepo())
}

func TestPageRequestNormalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 3, Limit: 100}, PageRequest{Page: 3, Limit: 1000}.Normalize())
	assert.Equal(t, 10, PageRequest{Page: 2, Limit: 10}.Offset())

	p := Page[int]{Total: 12, Limit: 5}
	assert.Equal(t, 3, p.TotalPages())
	assert.Equal(t, 0, Page[int]{Limit: 5}.TotalPages())
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%\_sure%`, containsPattern(" 100%_Sure "))
}

func TestBlogSlugConflict(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogRepo()

	require.NoError(t, repo.Add(ctx, newBlog("Hello, World", time.Now()), nil))

	err := repo.Add(ctx, newBlog("hello world!", time.Now()), nil)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
	assert.True(t, errs.IsDuplicateSlug(err))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestBlogAddWithCategoriesTagsAndRelated(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogRepo()
	goCat := addCategory(t, store, "Go")
	dbCat := addCategory(t, store, "Databases")

	first := newBlog("First post", time.Now().Add(-time.Hour))
	require.NoError(t, repo.Add(ctx, first, []uuid.UUID{goCat.ID}))

	second := newBlog("Second post", time.Now())
	second.Tags = []string{"gorm", "sqlite", "go"}
	second.RelatedBlogIDs = []string{first.ID.String(), uuid.NewString()}
	require.NoError(t, repo.Add(ctx, second, []uuid.UUID{goCat.ID, dbCat.ID, goCat.ID}))

	assert.Equal(t, "second-post", second.Slug)
	assert.Equal(t, []string{"gorm", "sqlite", "go"}, second.Tags)
	assert.Len(t, second.Categories, 2)
	require.Len(t, second.RelatedBlogs, 1, "unknown related ids are skipped")
	assert.Equal(t, first.ID, second.RelatedBlogs[0].ID)
	assert.Equal(t, "Go", second.RelatedBlogs[0].Categories[0].Name)
}

func TestBlogAddRejectsUnknownCategoryWithoutWriting(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	goCat := addCategory(t, store, "Go")

	err := store.BlogRepo().Add(ctx, newBlog("Post", time.Now()), []uuid.UUID{goCat.ID, uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidCategory)
	assert.True(t, errs.IsValidation(err))

	n, err := store.BlogRepo().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBlogUpdateRecomputesSlugOnlyOnTitleChange(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogRepo()

	a := newBlog("Alpha", time.Now())
	require.NoError(t, repo.Add(ctx, a, nil))
	b := newBlog("Beta", time.Now())
	require.NoError(t, repo.Add(ctx, b, nil))

	a.Desc = "changed"
	require.NoError(t, repo.Update(ctx, a, nil))
	assert.Equal(t, "alpha", a.Slug)
	assert.Equal(t, "changed", a.Desc)

	a.Title = "Alpha Two"
	require.NoError(t, repo.Update(ctx, a, nil))
	assert.Equal(t, "alpha-two", a.Slug)

	b.Title = "alpha two"
	err := repo.Update(ctx, b, nil)
	assert.True(t, errs.IsDuplicateSlug(err))

	missing := newBlog("Ghost", time.Now())
	missing.ID = uuid.New()
	assert.True(t, errs.IsNotFound(repo.Update(ctx, missing, nil)))
}

func TestBlogUpdateCategories(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogRepo()
	goCat := addCategory(t, store, "Go")
	webCat := addCategory(t, store, "Web")

	b := newBlog("Post", time.Now())
	require.NoError(t, repo.Add(ctx, b, []uuid.UUID{goCat.ID}))

	require.NoError(t, repo.Update(ctx, b, nil))
	require.Len(t, b.Categories, 1, "nil keeps the links")

	require.NoError(t, repo.Update(ctx, b, []uuid.UUID{webCat.ID}))
	require.Len(t, b.Categories, 1)
	assert.Equal(t, "Web", b.Categories[0].Name)

	require.NoError(t, repo.Update(ctx, b, []uuid.UUID{}))
	assert.Empty(t, b.Categories)
}

func TestBlogLookupByIDOrSlug(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogRepo()

	b := newBlog("Lookup Me", time.Now())
	require.NoError(t, repo.Add(ctx, b, nil))

	bySlug, err := repo.FindByIDOrSlug(ctx, "lookup-me")
	require.NoError(t, err)
	assert.Equal(t, b.ID, bySlug.ID)

	byID, err := repo.FindByIDOrSlug(ctx, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, b.ID, byID.ID)

	_, err = repo.FindByIDOrSlug(ctx, uuid.NewString())
	assert.True(t, errs.IsNotFound(err))
	assert.False(t, errs.IsMalformedIdentifier(err))

	_, err = repo.FindByIDOrSlug(ctx, "no-such-slug")
	assert.True(t, errs.IsNotFound(err))
	assert.True(t, errs.IsMalformedIdentifier(err))
}

func TestBlogViewIncrementsCounter(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogRepo()

	b := newBlog("Counted", time.Now())
	require.NoError(t, repo.Add(ctx, b, nil))

	for i := 1; i <= 3; i++ {
		viewed, err := repo.View(ctx, "counted")
		require.NoError(t, err)
		assert.EqualValues(t, i, viewed.Views)
	}
	stored, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stored.Views)
}

func TestBlogDelete(t *testing.T) {
	db, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogRepo()
	goCat := addCategory(t, store, "Go")

	b := newBlog("Doomed", time.Now())
	b.Tags = []string{"x"}
	require.NoError(t, repo.Add(ctx, b, []uuid.UUID{goCat.ID}))

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.True(t, errs.IsNotFound(repo.Delete(ctx, b.ID)))

	var links, tags int64
	require.NoError(t, db.Table("blog_category_links").Count(&links).Error)
	require.NoError(t, db.Model(&models.BlogTag{}).Count(&tags).Error)
	assert.Zero(t, links)
	assert.Zero(t, tags)
}

func TestBlogSearchPagination(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogRepo()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		require.NoError(t, repo.Add(ctx, newBlog(fmt.Sprintf("Post %02d", i), base.AddDate(0, 0, i)), nil))
	}

	page, err := repo.Search(ctx, BlogFilter{PageRequest: PageRequest{Page: 2, Limit: 5}})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Count())
	assert.EqualValues(t, 12, page.Total)
	assert.Equal(t, 3, page.TotalPages())
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, "Post 06", page.Items[0].Title, "newest first")

	asc, err := repo.Search(ctx, BlogFilter{PageRequest: PageRequest{Page: 3, Limit: 5}, Sort: SortAsc})
	require.NoError(t, err)
	assert.Equal(t, 2, asc.Count())
	assert.Equal(t, "Post 10", asc.Items[0].Title)
}

func TestBlogSearchFilters(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogRepo()
	goCat := addCategory(t, store, "Golang")
	addCategory(t, store, "Empty")

	tagged := newBlog("Channels", time.Now())
	tagged.Tags = []string{"Concurrency"}
	require.NoError(t, repo.Add(ctx, tagged, []uuid.UUID{goCat.ID}))

	plain := newBlog("Gardening", time.Now())
	plain.IsFeatured = false
	plain.AuthorName = "Grace"
	require.NoError(t, repo.Add(ctx, plain, nil))

	titles := func(f BlogFilter) []string {
		t.Helper()
		page, err := repo.Search(ctx, f)
		if errs.IsNoResults(err) {
			return nil
		}
		require.NoError(t, err)
		out := []string{}
		for _, b := range page.Items {
			out = append(out, b.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Channels"}, titles(BlogFilter{Category: "golang"}))
	assert.Equal(t, []string{"Channels"}, titles(BlogFilter{Search: "concurr"}), "tag match")
	assert.Equal(t, []string{"Channels"}, titles(BlogFilter{Search: "GOLA"}), "category name match")
	assert.Equal(t, []string{"Gardening"}, titles(BlogFilter{Search: "grace"}), "author match")
	featured := false
	assert.Equal(t, []string{"Gardening"}, titles(BlogFilter{IsFeatured: &featured}))
	assert.Nil(t, titles(BlogFilter{Search: "%"}), "wildcards are literal")

	_, err := repo.Search(ctx, BlogFilter{Category: "Empty"})
	assert.True(t, errs.IsNoResults(err))
	assert.False(t, errs.IsValidation(err))

	_, err = repo.Search(ctx, BlogFilter{Category: "Rust"})
	assert.ErrorIs(t, err, errs.ErrCategoryNotFound)
	assert.False(t, errs.IsNoResults(err))
}

func TestBlogTagValues(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()

	a := newBlog("A", time.Now())
	a.Tags = []string{"go", "sql"}
	require.NoError(t, store.BlogRepo().Add(ctx, a, nil))
	b := newBlog("B", time.Now())
	b.Tags = []string{"go", "api"}
	require.NoError(t, store.BlogRepo().Add(ctx, b, nil))

	values, err := store.BlogTagRepo().Values(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "go", "sql"}, values)

	ordered, err := store.BlogTagRepo().FindByBlog(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "api"}, ordered)
}

func TestBlogCategoryLifecycle(t *testing.T) {
	db, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.BlogCategoryRepo()

	goCat := addCategory(t, store, "Go")
	err := repo.Add(ctx, &models.BlogCategory{Name: " go "})
	assert.ErrorIs(t, err, errs.ErrDuplicateCategory)

	web := addCategory(t, store, "Web")
	web.Name = "GO"
	assert.ErrorIs(t, repo.Update(ctx, &web), errs.ErrDuplicateCategory)

	goCat.Description = "the language"
	require.NoError(t, repo.Update(ctx, &goCat))
	found, err := repo.FindByID(ctx, goCat.ID)
	require.NoError(t, err)
	assert.Equal(t, "the language", found.Description)

	b := newBlog("Linked", time.Now())
	require.NoError(t, store.BlogRepo().Add(ctx, b, []uuid.UUID{goCat.ID}))

	require.NoError(t, repo.Delete(ctx, goCat.ID))
	assert.ErrorIs(t, repo.Delete(ctx, goCat.ID), errs.ErrCategoryNotFound)

	var links int64
	require.NoError(t, db.Table("blog_category_links").Count(&links).Error)
	assert.Zero(t, links)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
