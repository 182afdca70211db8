package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog/log"
)

type experienceHandler struct {
	responder      Responder
	experienceRepo *database.ExperienceRepo
}

func newExperienceHandler(experienceRepo *database.ExperienceRepo) experienceHandler {
	logger := log.With().Str("handlerName", "experienceHandler").Logger()
	return experienceHandler{
		responder:      NewResponder(logger),
		experienceRepo: experienceRepo,
	}
}

type experienceRequest struct {
	Designation    string   `json:"designation" validate:"required"`
	Company        string   `json:"company" validate:"required"`
	Desc           string   `json:"desc" validate:"required"`
	StartYear      string   `json:"startYear" validate:"required"`
	EndYear        string   `json:"endYear"`
	KeyAchievement []string `json:"keyAchievement"`
	Learn          []string `json:"learn"`
}

type experiencePatch struct {
	Designation    *string   `json:"designation" validate:"omitnil,min=1"`
	Company        *string   `json:"company" validate:"omitnil,min=1"`
	Desc           *string   `json:"desc" validate:"omitnil,min=1"`
	StartYear      *string   `json:"startYear" validate:"omitnil,min=1"`
	EndYear        *string   `json:"endYear"`
	KeyAchievement *[]string `json:"keyAchievement"`
	Learn          *[]string `json:"learn"`
}

// validYear accepts a year number or, for the end year, "Present"
func validYear(field, year string, allowPresent bool) error {
	year = strings.TrimSpace(year)
	if allowPresent && (year == "" || strings.EqualFold(year, models.PresentYear)) {
		return nil
	}
	if models.YearSortKey(year) <= 0 {
		return errs.NewInvalidFieldError(field, "must be a year")
	}
	return nil
}

func normalizeEndYear(year string) string {
	year = strings.TrimSpace(year)
	if year == "" || strings.EqualFold(year, models.PresentYear) {
		return models.PresentYear
	}
	return year
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func (h experienceHandler) createExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req experienceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validYear("startYear", req.StartYear, false); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validYear("endYear", req.EndYear, true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		experience := models.Experience{
			Designation:    strings.TrimSpace(req.Designation),
			Company:        strings.TrimSpace(req.Company),
			Desc:           req.Desc,
			StartYear:      strings.TrimSpace(req.StartYear),
			EndYear:        normalizeEndYear(req.EndYear),
			KeyAchievement: nonNil(req.KeyAchievement),
			Learn:          nonNil(req.Learn),
		}
		if err := h.experienceRepo.Add(r.Context(), &experience); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Experience added successfully", experience)
	}
}

func (h experienceHandler) getAllExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		experiences, err := h.experienceRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", experiences)
	}
}

func (h experienceHandler) getExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "experience")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		experience, err := h.experienceRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", experience)
	}
}

func (h experienceHandler) updateExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "experience")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req experiencePatch
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		experience, err := h.experienceRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Designation != nil {
			experience.Designation = strings.TrimSpace(*req.Designation)
		}
		if req.Company != nil {
			experience.Company = strings.TrimSpace(*req.Company)
		}
		if req.Desc != nil {
			experience.Desc = *req.Desc
		}
		if req.StartYear != nil {
			if err := validYear("startYear", *req.StartYear, false); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			experience.StartYear = strings.TrimSpace(*req.StartYear)
		}
		if req.EndYear != nil {
			if err := validYear("endYear", *req.EndYear, true); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			experience.EndYear = normalizeEndYear(*req.EndYear)
		}
		if req.KeyAchievement != nil {
			experience.KeyAchievement = nonNil(*req.KeyAchievement)
		}
		if req.Learn != nil {
			experience.Learn = nonNil(*req.Learn)
		}

		if err := h.experienceRepo.Update(r.Context(), experience); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Experience updated successfully", experience)
	}
}

func (h experienceHandler) deleteExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "experience")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.experienceRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "Experience deleted successfully")
	}
}
