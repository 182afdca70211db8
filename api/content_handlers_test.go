package api

import (
	"net/http"
	"testing"

	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/project", nil, "", "")
	requireStatus(t, rec, http.StatusOK)
	empty := decodeResponse(t, rec)
	assert.Equal(t, 0, empty.Count)
	assert.JSONEq(t, `[]`, string(empty.Data))

	rec = env.doJSON(http.MethodPost, "/api/v1/project", map[string]any{
		"title":                           "Portfolio API",
		"desc":                            "the backend",
		"category":                        "backend",
		"techUsed":                        "go, sqlite",
		"technicalChallengesAndSolutions": `[{"question":"drift?","answer":"repair it"}]`,
		"isFeatured":                      "true",
		"completeDate":                    "2024-03-01",
	}, env.admin)
	requireStatus(t, rec, http.StatusCreated)
	var project models.Project
	resp := decodeData(t, rec, &project)
	assert.Equal(t, "Project created successfully", resp.Message)
	assert.Equal(t, models.ProjectCategoryBackend, project.Category)
	assert.Equal(t, []string{"go", "sqlite"}, []string(project.TechUsed))
	require.Len(t, project.Challenges, 1)
	assert.Equal(t, "repair it", project.Challenges[0].Answer)
	assert.True(t, project.IsFeatured)
	require.NotNil(t, project.CompleteDate)

	t.Run("malformed challenges", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/project", map[string]any{
			"title":                           "Broken",
			"desc":                            "d",
			"category":                        "Frontend",
			"technicalChallengesAndSolutions": "[{oops",
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "technicalChallengesAndSolutions", decodeResponse(t, rec).Field)
	})

	t.Run("bad category", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/project", map[string]any{
			"title": "X", "desc": "d", "category": "Mobile",
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "category", decodeResponse(t, rec).Field)
	})

	t.Run("missing title", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/project", map[string]any{"desc": "d", "category": "Frontend"}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "title", decodeResponse(t, rec).Field)
	})

	rec = env.doJSON(http.MethodPatch, "/api/v1/project/"+project.ID.String(), map[string]any{
		"client":   "ACME",
		"techUsed": []string{"go"},
	}, env.admin)
	requireStatus(t, rec, http.StatusOK)
	var patched models.Project
	decodeData(t, rec, &patched)
	assert.Equal(t, "Portfolio API", patched.Title)
	assert.Equal(t, "ACME", patched.Client)
	assert.Equal(t, []string{"go"}, []string(patched.TechUsed))
	assert.Len(t, patched.Challenges, 1, "absent fields are kept")

	t.Run("list filters", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/project?category=BACKEND", nil, "", "")
		requireStatus(t, rec, http.StatusOK)
		assert.Equal(t, 1, decodeResponse(t, rec).Count)

		rec = env.do(http.MethodGet, "/api/v1/project?category=Frontend", nil, "", "")
		requireStatus(t, rec, http.StatusOK)
		assert.Equal(t, 0, decodeResponse(t, rec).Count)

		rec = env.do(http.MethodGet, "/api/v1/project?category=Mobile", nil, "", "")
		requireStatus(t, rec, http.StatusBadRequest)
	})

	rec = env.do(http.MethodDelete, "/api/v1/project/"+project.ID.String(), nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)
	rec = env.do(http.MethodGet, "/api/v1/project/"+project.ID.String(), nil, "", "")
	requireStatus(t, rec, http.StatusNotFound)
}

func TestSkills(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/v1/skills/create", map[string]any{
		"category": "Backend",
		"skills": []map[string]string{
			{"name": "Go", "level": "expert", "icon": "go.svg"},
			{"name": "SQL", "level": "Advanced", "icon": "sql.svg"},
		},
	}, env.admin)
	requireStatus(t, rec, http.StatusCreated)
	var category models.SkillCategory
	decodeData(t, rec, &category)
	require.Len(t, category.Skills, 2)
	assert.Equal(t, models.SkillLevelExpert, category.Skills[0].Level)

	t.Run("duplicate names in one request", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/skills/create", map[string]any{
			"category": "Frontend",
			"skills": []map[string]string{
				{"name": "CSS", "level": "Beginner", "icon": "a"},
				{"name": "css", "level": "Beginner", "icon": "b"},
			},
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "ValidationError", decodeResponse(t, rec).Error)
	})

	t.Run("no skills", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/skills/create", map[string]any{"category": "Ops"}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
	})

	rec = env.doJSON(http.MethodPost, "/api/v1/skills/createSkill/"+category.ID.String(), map[string]any{
		"skills": []map[string]string{{"name": "Redis", "level": "Intermediate", "icon": "redis.svg"}},
	}, env.admin)
	requireStatus(t, rec, http.StatusCreated)

	rec = env.do(http.MethodGet, "/api/v1/skills/"+category.ID.String(), nil, "", "")
	requireStatus(t, rec, http.StatusOK)
	var fetched models.SkillCategory
	decodeData(t, rec, &fetched)
	require.Len(t, fetched.Skills, 3)
	assert.Equal(t, "Redis", fetched.Skills[2].Name)

	redis := fetched.Skills[2].ID.String()
	rec = env.do(http.MethodDelete, "/api/v1/skills/deleteSkill/"+redis, nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)
	rec = env.do(http.MethodDelete, "/api/v1/skills/deleteSkill/"+redis, nil, "", env.admin)
	requireStatus(t, rec, http.StatusNotFound)

	rec = env.do(http.MethodGet, "/api/v1/skills/consistency", nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "Skill categories are consistent", decodeResponse(t, rec).Message)

	rec = env.do(http.MethodGet, "/api/v1/skills/consistency", nil, "", "")
	requireStatus(t, rec, http.StatusUnauthorized)

	rec = env.doJSON(http.MethodPatch, "/api/v1/skills/category/"+category.ID.String(), map[string]string{"category": "Server"}, env.admin)
	requireStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodDelete, "/api/v1/skills/"+category.ID.String(), nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodGet, "/api/v1/dashboard/skills", nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)
	var count countResponse
	decodeJSONBody(t, rec, &count)
	assert.Zero(t, count.Count)
}

func TestUpdateWholeSkillCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/v1/skills/create", map[string]any{
		"category": "Backend",
		"skills": []map[string]string{
			{"name": "Go", "level": "Expert", "icon": "go.svg"},
			{"name": "Rust", "level": "Beginner", "icon": "rust.svg"},
		},
	}, env.admin)
	requireStatus(t, rec, http.StatusCreated)
	var category models.SkillCategory
	decodeData(t, rec, &category)
	require.Len(t, category.Skills, 2)
	goSkill, rust := category.Skills[0], category.Skills[1]

	path := "/api/v1/skills/category/" + category.ID.String()
	rec = env.doJSON(http.MethodPut, path, map[string]any{
		"category": "Server",
		"skills": []map[string]string{
			{"id": goSkill.ID.String(), "name": "Go", "level": "Expert", "icon": "go.svg"},
			{"name": "Zig", "level": "Beginner", "icon": "zig.svg"},
		},
	}, env.admin)
	requireStatus(t, rec, http.StatusOK)
	var updated models.SkillCategory
	decodeData(t, rec, &updated)
	assert.Equal(t, "Server", updated.Category)
	require.Len(t, updated.Skills, 2)
	assert.Equal(t, goSkill.ID, updated.Skills[0].ID)
	assert.Equal(t, "Zig", updated.Skills[1].Name)

	rec = env.do(http.MethodGet, "/api/v1/skills/consistency", nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "Skill categories have drifted", decodeResponse(t, rec).Message)

	rec = env.do(http.MethodPost, "/api/v1/skills/consistency/repair", nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)
	rec = env.do(http.MethodGet, "/api/v1/skills/"+category.ID.String(), nil, "", "")
	requireStatus(t, rec, http.StatusOK)
	var repaired models.SkillCategory
	decodeData(t, rec, &repaired)
	require.Len(t, repaired.Skills, 3)
	assert.Equal(t, rust.ID, repaired.Skills[2].ID)

	t.Run("skills are required", func(t *testing.T) {
		rec := env.doJSON(http.MethodPut, path, map[string]any{"category": "Other"}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "skills", decodeResponse(t, rec).Field)
	})

	t.Run("requires auth", func(t *testing.T) {
		rec := env.doJSON(http.MethodPut, path, map[string]any{"skills": []any{}}, "")
		requireStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("skill id and category id routes", func(t *testing.T) {
		skillPath := "/api/v1/skills/" + rust.ID.String()
		rec := env.doJSON(http.MethodPatch, skillPath, map[string]string{"level": "Advanced"}, env.admin)
		requireStatus(t, rec, http.StatusOK)
		var skill models.Skill
		decodeData(t, rec, &skill)
		assert.Equal(t, models.SkillLevelAdvanced, skill.Level)

		rec = env.do(http.MethodDelete, skillPath, nil, "", env.admin)
		requireStatus(t, rec, http.StatusNotFound)
		rec = env.do(http.MethodGet, skillPath, nil, "", "")
		requireStatus(t, rec, http.StatusNotFound)
	})
}

func TestExperience(t *testing.T) {
	env := newTestEnv(t)

	for _, e := range []map[string]any{
		{"designation": "Intern", "company": "A", "desc": "d", "startYear": "2015", "endYear": "2016"},
		{"designation": "Lead", "company": "C", "desc": "d", "startYear": "2021"},
		{"designation": "Engineer", "company": "B", "desc": "d", "startYear": "2016", "endYear": "2021"},
	} {
		rec := env.doJSON(http.MethodPost, "/api/v1/exp/create", e, env.admin)
		requireStatus(t, rec, http.StatusCreated)
	}

	rec := env.do(http.MethodGet, "/api/v1/exp", nil, "", "")
	requireStatus(t, rec, http.StatusOK)
	var list []models.Experience
	decodeData(t, rec, &list)
	require.Len(t, list, 3)
	assert.Equal(t, "Lead", list[0].Designation)
	assert.Equal(t, models.PresentYear, list[0].EndYear)
	assert.Equal(t, "Engineer", list[1].Designation)
	assert.Equal(t, "Intern", list[2].Designation)

	t.Run("missing designation", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/exp/create", map[string]any{"company": "X", "desc": "d", "startYear": "2020"}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "designation", decodeResponse(t, rec).Field)
	})

	t.Run("bad year", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/exp/create", map[string]any{
			"designation": "X", "company": "X", "desc": "d", "startYear": "soon",
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "startYear", decodeResponse(t, rec).Field)
	})

	rec = env.doJSON(http.MethodPatch, "/api/v1/exp/"+list[2].ID.String(), map[string]any{"company": "A2"}, env.admin)
	requireStatus(t, rec, http.StatusOK)
	var patched models.Experience
	decodeData(t, rec, &patched)
	assert.Equal(t, "A2", patched.Company)
	assert.Equal(t, "Intern", patched.Designation)

	rec = env.do(http.MethodDelete, "/api/v1/exp/"+list[2].ID.String(), nil, "", env.admin)
	requireStatus(t, rec, http.StatusOK)
	rec = env.do(http.MethodGet, "/api/v1/exp/"+list[2].ID.String(), nil, "", "")
	requireStatus(t, rec, http.StatusNotFound)
}

func TestFooterContent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/footerContent", nil, "", "")
	requireStatus(t, rec, http.StatusNotFound)
	assert.Equal(t, "NoResults", decodeResponse(t, rec).Error)

	rec = env.doJSON(http.MethodPost, "/api/v1/footerContent", map[string]any{
		"email":         "hi@site.test",
		"phone":         "+1 555 0100",
		"content":       "Say hello",
		"location":      "Lisbon",
		"followMeLinks": `[{"icon":"gh","url":"https://github.com/x"}]`,
		"services":      "APIs, consulting",
	}, env.admin)
	requireStatus(t, rec, http.StatusCreated)
	var footer models.FooterContent
	decodeData(t, rec, &footer)
	require.Len(t, footer.FollowMeLinks, 1)
	assert.Equal(t, "https://github.com/x", footer.FollowMeLinks[0].URL)
	assert.Equal(t, []models.Link{}, []models.Link(footer.SocialLinks))
	assert.Equal(t, []string{"APIs", "consulting"}, []string(footer.Services))

	t.Run("invalid email", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/footerContent", map[string]any{
			"email": "nope", "phone": "1", "content": "c", "location": "l",
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "email", decodeResponse(t, rec).Field)
	})

	t.Run("malformed links", func(t *testing.T) {
		rec := env.doJSON(http.MethodPatch, "/api/v1/footerContent/"+footer.ID.String(), map[string]any{
			"socialLinks": "{broken",
		}, env.admin)
		requireStatus(t, rec, http.StatusBadRequest)
	})

	rec = env.doJSON(http.MethodPatch, "/api/v1/footerContent/"+footer.ID.String(), map[string]any{"location": "Porto"}, env.admin)
	requireStatus(t, rec, http.StatusOK)
	var patched models.FooterContent
	decodeData(t, rec, &patched)
	assert.Equal(t, "Porto", patched.Location)
	assert.Equal(t, "Say hello", patched.Content)

	rec = env.do(http.MethodGet, "/api/v1/footerContent", nil, "", "")
	requireStatus(t, rec, http.StatusOK)
}
