package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog/log"
)

type footerContentHandler struct {
	responder  Responder
	footerRepo *database.FooterContentRepo
}

func newFooterContentHandler(footerRepo *database.FooterContentRepo) footerContentHandler {
	logger := log.With().Str("handlerName", "footerContentHandler").Logger()
	return footerContentHandler{
		responder:  NewResponder(logger),
		footerRepo: footerRepo,
	}
}

type footerContentRequest struct {
	Email         string   `json:"email" validate:"required,email"`
	Phone         string   `json:"phone" validate:"required"`
	Content       string   `json:"content" validate:"required"`
	Location      string   `json:"location" validate:"required"`
	FollowMeLinks linkList `json:"followMeLinks"`
	SocialLinks   linkList `json:"socialLinks"`
	Services      flexList `json:"services"`
}

type footerContentPatch struct {
	Email         *string   `json:"email" validate:"omitnil,email"`
	Phone         *string   `json:"phone" validate:"omitnil,min=1"`
	Content       *string   `json:"content" validate:"omitnil,min=1"`
	Location      *string   `json:"location" validate:"omitnil,min=1"`
	FollowMeLinks *linkList `json:"followMeLinks"`
	SocialLinks   *linkList `json:"socialLinks"`
	Services      *flexList `json:"services"`
}

func linksOrEmpty(links []models.Link) []models.Link {
	if links == nil {
		return []models.Link{}
	}
	return links
}

func (h footerContentHandler) createFooterContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req footerContentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		footer := models.FooterContent{
			Email:         req.Email,
			Phone:         strings.TrimSpace(req.Phone),
			Content:       req.Content,
			Location:      strings.TrimSpace(req.Location),
			FollowMeLinks: linksOrEmpty(req.FollowMeLinks),
			SocialLinks:   linksOrEmpty(req.SocialLinks),
			Services:      nonNil(req.Services),
		}
		if err := h.footerRepo.Add(r.Context(), &footer); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Footer content created successfully.", footer)
	}
}

func (h footerContentHandler) getAllFooterContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		footers, err := h.footerRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", footers)
	}
}

func (h footerContentHandler) getFooterContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "footer content")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		footer, err := h.footerRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", footer)
	}
}

func (h footerContentHandler) updateFooterContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "footer content")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req footerContentPatch
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		footer, err := h.footerRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Email != nil {
			footer.Email = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			footer.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Content != nil {
			footer.Content = *req.Content
		}
		if req.Location != nil {
			footer.Location = strings.TrimSpace(*req.Location)
		}
		if req.FollowMeLinks != nil {
			footer.FollowMeLinks = linksOrEmpty(*req.FollowMeLinks)
		}
		if req.SocialLinks != nil {
			footer.SocialLinks = linksOrEmpty(*req.SocialLinks)
		}
		if req.Services != nil {
			footer.Services = nonNil(*req.Services)
		}

		if err := h.footerRepo.Update(r.Context(), footer); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Footer content updated successfully.", footer)
	}
}

func (h footerContentHandler) deleteFooterContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "footer content")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.footerRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "Footer content deleted successfully.")
	}
}
