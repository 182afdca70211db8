package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	tagRepo     *database.ProjectTagRepo
	uploads     uploader
}

func newProjectHandler(projectRepo *database.ProjectRepo, tagRepo *database.ProjectTagRepo, uploads uploader) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		tagRepo:     tagRepo,
		uploads:     uploads,
	}
}

// projectRequest is shared by create and update. Every field is optional at decode time so
// update can tell an absent field from an empty one; create checks the required ones itself.
type projectRequest struct {
	Title               *string        `json:"title"`
	Desc                *string        `json:"desc"`
	Category            *string        `json:"category"`
	GithubLink          *string        `json:"githubLink"`
	LivePreviewLink     *string        `json:"livePreviewLink"`
	ThumbnailImg        *string        `json:"thumbnailImg"`
	Client              *string        `json:"client"`
	AboutProjectContent *string        `json:"aboutProjectContent"`
	TechUsed            *flexList      `json:"techUsed"`
	Tags                *flexList      `json:"tags"`
	KeyFeatures         *flexList      `json:"keyFeatures"`
	Challenges          *challengeList `json:"technicalChallengesAndSolutions"`
	IsFeatured          flexBool       `json:"isFeatured"`
	CompleteDate        flexTime       `json:"completeDate"`
}

func (req projectRequest) requireForCreate() error {
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if req.Desc == nil || strings.TrimSpace(*req.Desc) == "" {
		return errs.NewMissingRequiredFieldError("desc")
	}
	if req.Category == nil || strings.TrimSpace(*req.Category) == "" {
		return errs.NewMissingRequiredFieldError("category")
	}
	return nil
}

// apply copies every field present in the request onto project
func (req projectRequest) apply(project *models.Project) error {
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return errs.NewMissingRequiredFieldError("title")
		}
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Desc != nil {
		if strings.TrimSpace(*req.Desc) == "" {
			return errs.NewMissingRequiredFieldError("desc")
		}
		project.Desc = *req.Desc
	}
	if req.Category != nil {
		category, ok := models.ParseProjectCategory(*req.Category)
		if !ok {
			return errs.NewInvalidFieldError("category", "must be one of: Fullstack, Frontend, Backend")
		}
		project.Category = category
	}
	setString(&project.GithubLink, req.GithubLink)
	setString(&project.LivePreviewLink, req.LivePreviewLink)
	setString(&project.ThumbnailImg, req.ThumbnailImg)
	setString(&project.Client, req.Client)
	setString(&project.AboutProjectContent, req.AboutProjectContent)
	if req.TechUsed != nil {
		project.TechUsed = nonNil(*req.TechUsed)
	}
	if req.Tags != nil {
		project.Tags = nonNil(*req.Tags)
	}
	if req.KeyFeatures != nil {
		project.KeyFeatures = nonNil(*req.KeyFeatures)
	}
	if req.Challenges != nil {
		project.Challenges = []models.Challenge(*req.Challenges)
		if project.Challenges == nil {
			project.Challenges = []models.Challenge{}
		}
	}
	project.IsFeatured = req.IsFeatured.Or(project.IsFeatured)
	if req.CompleteDate.Set {
		project.CompleteDate = req.CompleteDate.Ptr()
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a project from JSON or multipart form data with an optional thumbnailImg file
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} envelope "Created project"
// @Failure 400 {object} envelope "Bad Request - Invalid request body"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		file, err := decodePayload(w, r, &req, "thumbnailImg")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.requireForCreate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := models.Project{}
		if err := req.apply(&project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if file != nil {
			stored, err := h.uploads.thumbnail(r.Context(), file, projectThumbnailFolder)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			project.ThumbnailImg = stored.URL
		}

		if err := h.projectRepo.Add(r.Context(), &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectID", project.ID.String()).Msg("project created")
		h.responder.WriteSuccess(w, http.StatusCreated, "Project created successfully", project)
	}
}

// getAllProjects lists projects
// @Summary List projects
// @Description Paginated projects. sortBy=featured puts featured first then completion date, sortBy=date orders by completion date, anything else newest first.
// @Tags Projects
// @Produce json
// @Param category query string false "Fullstack, Frontend or Backend"
// @Param featured query bool false "Featured flag"
// @Param sortBy query string false "featured or date"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} pageEnvelope
// @Router /project [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		featured, err := queryBool(r, "featured")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := r.URL.Query()
		filter := database.ProjectFilter{
			PageRequest: page,
			Search:      q.Get("search"),
			IsFeatured:  featured,
			SortBy:      q.Get("sortBy"),
			Sort:        database.ParseSortOrder(q.Get("sortOrder")),
		}
		if raw := strings.TrimSpace(q.Get("category")); raw != "" {
			category, ok := models.ParseProjectCategory(raw)
			if !ok {
				h.responder.WriteError(w, errs.NewInvalidFieldError("category", "must be one of: Fullstack, Frontend, Backend"))
				return
			}
			filter.Category = category
		}

		// the project grid renders an empty page instead of an error
		result, err := h.projectRepo.Search(r.Context(), filter)
		if err != nil && !errs.IsNoResults(err) {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, newPageEnvelope(result))
	}
}

func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", project)
	}
}

func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req projectRequest
		file, err := decodePayload(w, r, &req, "thumbnailImg")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.apply(project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if file != nil {
			stored, err := h.uploads.thumbnail(r.Context(), file, projectThumbnailFolder)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			project.ThumbnailImg = stored.URL
		}

		if err := h.projectRepo.Update(r.Context(), project); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Project updated successfully", project)
	}
}

func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project, err := h.projectRepo.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("projectID", id.String()).Str("by", actor(r.Context())).Msg("project deleted")
		h.responder.WriteSuccess(w, http.StatusOK, "Project deleted successfully", project)
	}
}

func (h projectHandler) getTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.Values(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", tags)
	}
}
