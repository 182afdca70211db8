package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogHandler struct {
	responder Responder
	logger    zerolog.Logger
	blogRepo  *database.BlogRepo
	tagRepo   *database.BlogTagRepo
	uploads   uploader
}

func newBlogHandler(blogRepo *database.BlogRepo, tagRepo *database.BlogTagRepo, uploads uploader) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		responder: NewResponder(logger),
		logger:    logger,
		blogRepo:  blogRepo,
		tagRepo:   tagRepo,
		uploads:   uploads,
	}
}

// blogRequest is the create/update body. It arrives as JSON or as multipart form fields, so the
// list, flag, number and date fields accept their string spellings too.
type blogRequest struct {
	Title                  string   `json:"title" validate:"required"`
	Desc                   string   `json:"desc" validate:"required"`
	AuthorName             string   `json:"authorName" validate:"required"`
	AuthorDesc             string   `json:"authorDesc"`
	AuthorGithubLink       string   `json:"authorGithubLink"`
	AuthorPortfolioLink    string   `json:"authorPortfolioLink"`
	AuthorOtherProfileLink string   `json:"authorOtherProfileLink"`
	Content                string   `json:"content"`
	ShareLink              string   `json:"shareLink"`
	ThumbnailImg           string   `json:"thumbnailImg"`
	ReadTime               flexInt  `json:"readTime"`
	IsFeatured             flexBool `json:"isFeatured"`
	Date                   flexTime `json:"date"`
	Tags                   flexList `json:"tags"`
	Category               flexList `json:"category"`
	RelatedBlogs           flexList `json:"relatedBlogs"`
}

func (req *blogRequest) trim() {
	req.Title = strings.TrimSpace(req.Title)
	req.Desc = strings.TrimSpace(req.Desc)
	req.AuthorName = strings.TrimSpace(req.AuthorName)
}

// apply copies the request onto blog. Thumbnail, read time, featured flag and date keep
// blog's values when the request omits them.
func (req blogRequest) apply(blog *models.Blog) error {
	related, err := relatedBlogIDs(req.RelatedBlogs)
	if err != nil {
		return err
	}
	if req.ReadTime.Set && req.ReadTime.Value < 0 {
		return errs.NewInvalidFieldError("readTime", "must not be negative")
	}

	blog.Title = req.Title
	blog.Desc = req.Desc
	blog.AuthorName = req.AuthorName
	blog.AuthorDesc = req.AuthorDesc
	blog.AuthorGithubLink = req.AuthorGithubLink
	blog.AuthorPortfolioLink = req.AuthorPortfolioLink
	blog.AuthorOtherProfileLink = req.AuthorOtherProfileLink
	blog.Content = req.Content
	blog.ShareLink = req.ShareLink
	if req.ThumbnailImg != "" {
		blog.ThumbnailImg = req.ThumbnailImg
	}
	if req.ReadTime.Set {
		blog.ReadTime = req.ReadTime.Value
	}
	blog.IsFeatured = req.IsFeatured.Or(blog.IsFeatured)
	if req.Date.Set {
		blog.Date = req.Date.Value
	}
	blog.Tags = []string(req.Tags)
	blog.RelatedBlogIDs = related
	return nil
}

// relatedBlogIDs keeps the first occurrence of every id; each must be a well-formed id
func relatedBlogIDs(raw []string) ([]string, error) {
	ids, err := parseIDs("relatedBlogs", raw)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id.String())
	}
	return out, nil
}

// categoryIDs returns nil when the request did not carry the field
func (req blogRequest) categoryIDs() ([]uuid.UUID, error) {
	if req.Category == nil {
		return nil, nil
	}
	return parseIDs("category", req.Category)
}

// createBlog creates a blog
// @Summary Create blog
// @Description Creates a blog from JSON or multipart form data with an optional thumbnailImg file
// @Tags Blogs
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} envelope "Created blog"
// @Failure 400 {object} envelope "Validation or duplicate slug"
// @Router /blog [post]
func (h blogHandler) createBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req blogRequest
		file, err := decodePayload(w, r, &req, "thumbnailImg")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.trim()
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		categoryIDs, err := req.categoryIDs()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blog := models.Blog{IsFeatured: true, Date: time.Now().UTC()}
		if err := req.apply(&blog); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if file != nil {
			stored, err := h.uploads.thumbnail(r.Context(), file, blogThumbnailFolder)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			blog.ThumbnailImg = stored.URL
		}

		if err := h.blogRepo.Add(r.Context(), &blog, categoryIDs); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("slug", blog.Slug).Msg("blog created")
		h.responder.WriteSuccess(w, http.StatusCreated, "Blog created successfully.", blog)
	}
}

// getAllBlogs lists blogs
// @Summary List blogs
// @Description Paginated blogs filtered by category name, featured flag and free text
// @Tags Blogs
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param category query string false "Category name"
// @Param isFeatured query bool false "Featured flag"
// @Param sort query string false "asc or desc by date"
// @Param search query string false "Free text"
// @Success 200 {object} pageEnvelope
// @Failure 404 {object} envelope "No blogs found or unknown category"
// @Router /blog [get]
func (h blogHandler) getAllBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		featured, err := queryBool(r, "isFeatured")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := r.URL.Query()
		result, err := h.blogRepo.Search(r.Context(), database.BlogFilter{
			PageRequest: page,
			Category:    q.Get("category"),
			Search:      q.Get("search"),
			IsFeatured:  featured,
			Sort:        database.ParseSortOrder(q.Get("sort")),
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, newPageEnvelope(result))
	}
}

// getBlog resolves a slug or id and counts the view
func (h blogHandler) getBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(chi.URLParam(r, "idOrSlug"))
		blog, err := h.blogRepo.View(r.Context(), key)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", blog)
	}
}

func (h blogHandler) updateBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "idOrSlug", "blog")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req blogRequest
		file, err := decodePayload(w, r, &req, "thumbnailImg")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.trim()

		blog, err := h.blogRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		categoryIDs, err := req.categoryIDs()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.apply(blog); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if file != nil {
			stored, err := h.uploads.thumbnail(r.Context(), file, blogThumbnailFolder)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			blog.ThumbnailImg = stored.URL
		}

		if err := h.blogRepo.Update(r.Context(), blog, categoryIDs); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Blog updated successfully.", blog)
	}
}

func (h blogHandler) deleteBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "idOrSlug", "blog")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.blogRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("blogID", id.String()).Str("by", actor(r.Context())).Msg("blog deleted")
		h.responder.WriteMessage(w, http.StatusOK, "Blog deleted successfully.")
	}
}

// getTags lists the distinct tags used across all blogs
func (h blogHandler) getTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.Values(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", tags)
	}
}
