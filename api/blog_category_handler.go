package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog/log"
)

type blogCategoryHandler struct {
	responder    Responder
	categoryRepo *database.BlogCategoryRepo
}

func newBlogCategoryHandler(categoryRepo *database.BlogCategoryRepo) blogCategoryHandler {
	logger := log.With().Str("handlerName", "blogCategoryHandler").Logger()
	return blogCategoryHandler{
		responder:    NewResponder(logger),
		categoryRepo: categoryRepo,
	}
}

type blogCategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type blogCategoryPatch struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Description *string `json:"description"`
}

func (h blogCategoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req blogCategoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category := models.BlogCategory{Name: req.Name}
		if req.Description != nil {
			category.Description = strings.TrimSpace(*req.Description)
		}
		if err := h.categoryRepo.Add(r.Context(), &category); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Category created successfully", category)
	}
}

func (h blogCategoryHandler) getAllCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", categories)
	}
}

func (h blogCategoryHandler) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "category")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		category, err := h.categoryRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", category)
	}
}

func (h blogCategoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "category")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req blogCategoryPatch
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Name != nil {
			trimmed := strings.TrimSpace(*req.Name)
			req.Name = &trimmed
		}
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.categoryRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Name != nil {
			category.Name = *req.Name
		}
		if req.Description != nil {
			category.Description = strings.TrimSpace(*req.Description)
		}
		if err := h.categoryRepo.Update(r.Context(), category); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Category updated successfully", category)
	}
}

func (h blogCategoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "category")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.categoryRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "Category deleted successfully")
	}
}
