package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProjectLifecycle(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.ProjectRepo()

	p := &models.Project{
		Title:      "CMS",
		Desc:       "portfolio backend",
		Category:   models.ProjectCategoryBackend,
		TechUsed:   datatypes.JSONSlice[string]{"Go", "Postgres"},
		Challenges: datatypes.JSONSlice[models.Challenge]{{Question: "sync?", Answer: "transactions"}},
		Tags:       []string{"api", "go"},
	}
	require.NoError(t, repo.Add(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, []string{"api", "go"}, p.Tags)
	assert.Equal(t, []string{}, []string(p.KeyFeatures))
	require.Len(t, p.Challenges, 1)

	createdAt := p.CreatedAt
	p.Title = "CMS v2"
	p.Tags = []string{"go"}
	require.NoError(t, repo.Update(ctx, p))
	assert.Equal(t, "CMS v2", p.Title)
	assert.Equal(t, []string{"go"}, p.Tags)
	assert.WithinDuration(t, createdAt, p.CreatedAt, time.Second)

	values, err := store.ProjectTagRepo().Values(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, values)

	ghost := *p
	ghost.ID = uuid.New()
	assert.True(t, errs.IsNotFound(repo.Update(ctx, &ghost)))

	deleted, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "CMS v2", deleted.Title)
	_, err = repo.Delete(ctx, p.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestProjectSearchSortsAndFilters(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.ProjectRepo()

	date := func(y int) *time.Time {
		d := time.Date(y, 6, 1, 0, 0, 0, 0, time.UTC)
		return &d
	}
	add := func(title string, c models.ProjectCategory, featured bool, done *time.Time) {
		require.NoError(t, repo.Add(ctx, &models.Project{Title: title, Desc: title, Category: c, IsFeatured: featured, CompleteDate: done}))
	}
	add("old", models.ProjectCategoryBackend, false, date(2019))
	add("new", models.ProjectCategoryFrontend, false, date(2023))
	add("star", models.ProjectCategoryBackend, true, date(2020))
	add("wip", models.ProjectCategoryFullstack, false, nil)

	titles := func(f ProjectFilter) []string {
		t.Helper()
		page, err := repo.Search(ctx, f)
		require.NoError(t, err)
		out := []string{}
		for _, p := range page.Items {
			out = append(out, p.Title)
		}
		return out
	}

	assert.Equal(t, []string{"star", "new", "old", "wip"}, titles(ProjectFilter{SortBy: ProjectSortFeatured}))
	assert.Equal(t, []string{"old", "star", "new", "wip"}, titles(ProjectFilter{SortBy: ProjectSortDate, Sort: SortAsc}))
	assert.Equal(t, []string{"star", "old"}, titles(ProjectFilter{Category: models.ProjectCategoryBackend, SortBy: ProjectSortFeatured}))
	assert.Equal(t, []string{"wip"}, titles(ProjectFilter{Search: "WI"}))

	_, err := repo.Search(ctx, ProjectFilter{Search: "nothing like it"})
	assert.True(t, errs.IsNoResults(err))
}

func TestExperienceOrderAndDefaults(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.ExperienceRepo()

	add := func(company, start, end string) *models.Experience {
		e := &models.Experience{Designation: "Engineer", Company: company, Desc: "work", StartYear: start, EndYear: end}
		require.NoError(t, repo.Add(ctx, e))
		return e
	}
	add("A", "2015", "2018")
	current := add("B", "2021", "")
	add("C", "2018", "2021")
	add("D", "2019", "2021")

	assert.Equal(t, models.PresentYear, current.EndYear)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	companies := []string{}
	for _, e := range all {
		companies = append(companies, e.Company)
	}
	assert.Equal(t, []string{"B", "D", "C", "A"}, companies)

	current.Company = "B2"
	require.NoError(t, repo.Update(ctx, current))
	found, err := repo.FindByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, "B2", found.Company)

	require.NoError(t, repo.Delete(ctx, current.ID))
	assert.True(t, errs.IsNotFound(repo.Delete(ctx, current.ID)))
	ghost := &models.Experience{Company: "nobody"}
	ghost.ID = uuid.New()
	assert.True(t, errs.IsNotFound(repo.Update(ctx, ghost)))
}

func TestFooterContentEmptyIsNoResults(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.FooterContentRepo()

	_, err := repo.FindAll(ctx)
	assert.True(t, errs.IsNoResults(err))

	f := &models.FooterContent{
		Email:       "me@example.com",
		Phone:       "555",
		Content:     "hi",
		Location:    "Lisbon",
		SocialLinks: datatypes.JSONSlice[models.Link]{{Icon: "gh", URL: "https://github.com/me"}},
	}
	require.NoError(t, repo.Add(ctx, f))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "https://github.com/me", all[0].SocialLinks[0].URL)
}

func TestResumeSingleActive(t *testing.T) {
	db, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.ResumeRepo()

	_, err := repo.FindActive(ctx)
	assert.True(t, errs.IsNotFound(err))

	first := &models.Resume{Name: "cv-2023.pdf", URL: "https://cdn/1", PublicID: "1", IsActive: true}
	require.NoError(t, repo.Add(ctx, first))
	second := &models.Resume{Name: "cv-2024.pdf", URL: "https://cdn/2", PublicID: "2", IsActive: true}
	require.NoError(t, repo.Add(ctx, second))

	var active int64
	require.NoError(t, db.Model(&models.Resume{}).Where("is_active = ?", true).Count(&active).Error)
	assert.EqualValues(t, 1, active)

	got, err := repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = repo.SetActive(ctx, first.ID)
	require.NoError(t, err)
	got, err = repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.SetActive(ctx, uuid.New())
	assert.True(t, errs.IsNotFound(err))
}

func TestSubscribeTwice(t *testing.T) {
	db, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.SubscriberRepo()

	sub, created, err := repo.Subscribe(ctx, "Reader@Example.com ", false)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "reader@example.com", sub.Email)

	require.NoError(t, repo.Unsubscribe(ctx, "reader@example.com"))
	sub, created, err = repo.Subscribe(ctx, "reader@example.com", false)
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, sub.Subscribed)

	var rows int64
	require.NoError(t, db.Model(&models.Subscriber{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	stored, err := repo.FindByEmail(ctx, "READER@example.com")
	require.NoError(t, err)
	assert.True(t, stored.Subscribed)

	assert.True(t, errs.IsNotFound(repo.Unsubscribe(ctx, "stranger@example.com")))
}

func TestResolveRecipients(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.SubscriberRepo()

	_, _, err := repo.Subscribe(ctx, "a@example.com", false)
	require.NoError(t, err)
	_, _, err = repo.Subscribe(ctx, "gone@example.com", true)
	require.NoError(t, err)
	require.NoError(t, repo.Unsubscribe(ctx, "gone@example.com"))

	out, err := repo.ResolveRecipients(ctx, []string{"new@example.com", "GONE@example.com", "a@example.com", "New@example.com", " "})
	require.NoError(t, err)
	assert.Equal(t, []string{"new@example.com", "a@example.com"}, out)

	emails, err := repo.SubscribedEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, emails)

	n, err := repo.CountSubscribed(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEnsureAdmin(t *testing.T) {
	_, store := setupTestDB(t)
	ctx := context.Background()
	repo := store.UserRepo()

	created, err := repo.EnsureAdmin(ctx, "Admin@Example.com", "hash")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.EnsureAdmin(ctx, "admin@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := repo.FindByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, "admin", u.Role)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errs.IsNotFound(err))
}
