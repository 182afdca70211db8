package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBlogMultipart(t *testing.T) {
	env := newTestEnv(t)
	categoryID := env.createBlogCategory("Go")

	rec := env.doMultipart(http.MethodPost, "/api/v1/blog", [][2]string{
		{"title", "Hello Gophers"},
		{"desc", "a first post"},
		{"authorName", "Ada"},
		{"tags", "go, web ,,"},
		{"category", categoryID},
		{"readTime", "7"},
		{"isFeatured", "false"},
	}, "thumbnailImg", "cover.png", pngBytes(t, 200, 100), env.admin)
	requireStatus(t, rec, http.StatusCreated)

	var blog models.Blog
	resp := decodeData(t, rec, &blog)
	assert.Equal(t, "Blog created successfully.", resp.Message)
	assert.Equal(t, "hello-gophers", blog.Slug)
	assert.Equal(t, []string{"go", "web"}, blog.Tags)
	assert.Equal(t, 7, blog.ReadTime)
	assert.False(t, blog.IsFeatured)
	require.Len(t, blog.Categories, 1)
	assert.Equal(t, "Go", blog.Categories[0].Name)

	require.True(t, strings.HasPrefix(blog.ThumbnailImg, "https://cdn.test/"+blogThumbnailFolder+"/"), blog.ThumbnailImg)
	assert.True(t, env.files.has(strings.TrimPrefix(blog.ThumbnailImg, "https://cdn.test/")))
}

func TestCreateBlogDefaultsAndConflicts(t *testing.T) {
	env := newTestEnv(t)

	blog := env.createBlog("Same Title", nil)
	assert.True(t, blog.IsFeatured)
	assert.False(t, blog.Date.IsZero())
	assert.Equal(t, []string{}, blog.Tags)

	t.Run("duplicate slug", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/blog", map[string]any{
			"title":      "same   title!",
			"desc":       "d",
			"authorName": "Ada",
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "ConflictError", decodeResponse(t, rec).Error)
	})

	t.Run("missing author", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/blog", map[string]any{"title": "x", "desc": "d"}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		resp := decodeResponse(t, rec)
		assert.Equal(t, "ValidationError", resp.Error)
		assert.Equal(t, "authorName", resp.Field)
	})

	t.Run("malformed related id", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/blog", map[string]any{
			"title":        "Related",
			"desc":         "d",
			"authorName":   "Ada",
			"relatedBlogs": "not-an-id",
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "ValidationError", decodeResponse(t, rec).Error)
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/blog", map[string]any{
			"title":      "Orphan",
			"desc":       "d",
			"authorName": "Ada",
			"category":   []string{uuid.NewString()},
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "category", decodeResponse(t, rec).Field)
	})
}

func TestListBlogs(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/blog", nil, "", "")
	requireStatus(t, rec, http.StatusNotFound)
	assert.Equal(t, "NoResults", decodeResponse(t, rec).Error)

	goID := env.createBlogCategory("Go")
	for day := 1; day <= 12; day++ {
		extra := map[string]any{"date": dated(day)}
		if day%4 == 0 {
			extra["category"] = goID
			extra["isFeatured"] = "false"
		}
		env.createBlog(fmt.Sprintf("post %02d", day), extra)
	}

	rec = env.do(http.MethodGet, "/api/v1/blog?page=2&limit=5", nil, "", "")
	requireStatus(t, rec, http.StatusOK)
	var blogs []models.Blog
	resp := decodeData(t, rec, &blogs)
	assert.Equal(t, 5, resp.Count)
	assert.EqualValues(t, 12, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
	require.Len(t, blogs, 5)
	assert.Equal(t, "post 07", blogs[0].Title)
	assert.Equal(t, "post 03", blogs[4].Title)

	t.Run("ascending", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/blog?limit=1&sort=asc", nil, "", "")
		requireStatus(t, rec, http.StatusOK)
		var blogs []models.Blog
		decodeData(t, rec, &blogs)
		require.Len(t, blogs, 1)
		assert.Equal(t, "post 01", blogs[0].Title)
	})

	t.Run("by category name", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/blog?category=go", nil, "", "")
		requireStatus(t, rec, http.StatusOK)
		assert.Equal(t, 3, decodeResponse(t, rec).Count)
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/blog?category=rust", nil, "", "")
		requireStatus(t, rec, http.StatusNotFound)
	})

	t.Run("featured only", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/blog?isFeatured=true&limit=50", nil, "", "")
		requireStatus(t, rec, http.StatusOK)
		assert.Equal(t, 9, decodeResponse(t, rec).Count)
	})

	t.Run("search", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/blog?search=POST%2011", nil, "", "")
		requireStatus(t, rec, http.StatusOK)
		assert.Equal(t, 1, decodeResponse(t, rec).Count)
	})

	t.Run("bad page", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/blog?page=zero", nil, "", "")
		requireStatus(t, rec, http.StatusBadRequest)
	})
}

func TestGetBlogCountsViews(t *testing.T) {
	env := newTestEnv(t)
	created := env.createBlog("Viewed Post", nil)

	for want := int64(1); want <= 2; want++ {
		rec := env.do(http.MethodGet, "/api/v1/blog/"+created.Slug, nil, "", "")
		requireStatus(t, rec, http.StatusOK)
		var blog models.Blog
		decodeData(t, rec, &blog)
		assert.Equal(t, want, blog.Views)
	}

	rec := env.do(http.MethodGet, "/api/v1/blog/"+created.ID.String(), nil, "", "")
	requireStatus(t, rec, http.StatusOK)
	var blog models.Blog
	decodeData(t, rec, &blog)
	assert.EqualValues(t, 3, blog.Views)

	rec = env.do(http.MethodGet, "/api/v1/blog/no-such-post", nil, "", "")
	requireStatus(t, rec, http.StatusNotFound)
}

func TestUpdateAndDeleteBlog(t *testing.T) {
	env := newTestEnv(t)
	goID := env.createBlogCategory("Go")
	related := env.createBlog("Related Post", nil)
	blog := env.createBlog("Original Title", map[string]any{
		"category":     goID,
		"tags":         []string{"a"},
		"readTime":     4,
		"thumbnailImg": "https://img.test/keep.png",
	})

	rec := env.doJSON(http.MethodPut, "/api/v1/blog/"+blog.ID.String(), map[string]any{
		"title":        "Renamed Title",
		"desc":         "new desc",
		"authorName":   "Grace",
		"tags":         "b, c",
		"relatedBlogs": []string{related.ID.String(), related.ID.String()},
	}, env.admin)
	requireStatus(t, rec, http.StatusOK)

	var updated models.Blog
	resp := decodeData(t, rec, &updated)
	assert.Equal(t, "Blog updated successfully.", resp.Message)
	assert.Equal(t, "renamed-title", updated.Slug)
	assert.Equal(t, []string{"b", "c"}, updated.Tags)
	assert.Equal(t, 4, updated.ReadTime)
	assert.Equal(t, "https://img.test/keep.png", updated.ThumbnailImg)
	require.Len(t, updated.Categories, 1, "categories are kept when the field is absent")
	require.Len(t, updated.RelatedBlogs, 1)
	assert.Equal(t, related.ID, updated.RelatedBlogs[0].ID)

	t.Run("unauthenticated", func(t *testing.T) {
		rec := env.do(http.MethodDelete, "/api/v1/blog/"+blog.ID.String(), nil, "", "")
		requireStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := env.doJSON(http.MethodPut, "/api/v1/blog/renamed-title", map[string]any{
			"title": "x", "desc": "d", "authorName": "a",
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "ValidationError", decodeResponse(t, rec).Error)
	})

	rec = env.do(http.MethodDelete, "/api/v1/blog/"+blog.ID.String(), nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "Blog deleted successfully.", decodeResponse(t, rec).Message)

	rec = env.do(http.MethodDelete, "/api/v1/blog/"+blog.ID.String(), nil, "", env.admin)
	requireStatus(t, rec, http.StatusNotFound)
}

func TestBlogCategories(t *testing.T) {
	env := newTestEnv(t)
	id := env.createBlogCategory("Go")

	rec := env.doJSON(http.MethodPost, "/api/v1/blogCategory", map[string]string{"name": "go"}, env.admin)
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "ConflictError", decodeResponse(t, rec).Error)

	rec = env.doJSON(http.MethodPatch, "/api/v1/blogCategory/"+id, map[string]string{"name": "Golang"}, env.admin)
	requireStatus(t, rec, http.StatusOK)
	var category models.BlogCategory
	decodeData(t, rec, &category)
	assert.Equal(t, "Golang", category.Name)

	rec = env.do(http.MethodGet, "/api/v1/blogCategory", nil, "", "")
	requireStatus(t, rec, http.StatusOK)
	var all []models.BlogCategory
	decodeData(t, rec, &all)
	require.Len(t, all, 1)

	rec = env.do(http.MethodDelete, "/api/v1/blogCategory/"+id, nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)
	rec = env.do(http.MethodGet, "/api/v1/blogCategory/"+id, nil, "", "")
	requireStatus(t, rec, http.StatusNotFound)
}

func TestTagListings(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/blog/tags", nil, "", "")
	requireStatus(t, rec, http.StatusOK)
	var tags []string
	decodeData(t, rec, &tags)
	assert.Empty(t, tags)

	env.createBlog("Tagged One", map[string]any{"tags": []string{"web", "go"}})
	env.createBlog("Tagged Two", map[string]any{"tags": "go,sql"})

	rec = env.do(http.MethodGet, "/api/v1/blog/tags", nil, "", "")
	requireStatus(t, rec, http.StatusOK)
	decodeData(t, rec, &tags)
	assert.Equal(t, []string{"go", "sql", "web"}, tags)

	rec = env.do(http.MethodGet, "/api/v1/project/tags", nil, "", "")
	requireStatus(t, rec, http.StatusOK)
}
