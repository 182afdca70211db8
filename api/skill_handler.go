package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type skillHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.SkillCategoryRepo
	skillRepo    *database.SkillRepo
}

func newSkillHandler(categoryRepo *database.SkillCategoryRepo, skillRepo *database.SkillRepo) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()
	return skillHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
		skillRepo:    skillRepo,
	}
}

type skillCategoryRequest struct {
	Category string                `json:"category"`
	Skills   []database.SkillInput `json:"skills"`
}

type skillCategoryUpdateRequest struct {
	Category *string               `json:"category"`
	Skills   []database.SkillInput `json:"skills"`
}

type skillCategoryRename struct {
	Category string `json:"category" validate:"required"`
}

func (h skillHandler) createCategoryWithSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req skillCategoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if strings.TrimSpace(req.Category) == "" || len(req.Skills) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("Category and skills (array) are required", "skills", ""))
			return
		}

		category, err := h.categoryRepo.CreateCategoryWithSkills(r.Context(), req.Category, req.Skills)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("category", category.Category).Int("skills", len(category.Skills)).Msg("skill category created")
		h.responder.WriteSuccess(w, http.StatusCreated, "Category and skills created successfully", category)
	}
}

func (h skillHandler) addSkillsToCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "categoryId", "category")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req skillCategoryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if len(req.Skills) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("Skills (array) are required", "skills", ""))
			return
		}

		category, err := h.categoryRepo.AddSkillsToCategory(r.Context(), id, req.Skills)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "New skills added successfully", category)
	}
}

func (h skillHandler) getAllCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", categories)
	}
}

func (h skillHandler) getCategory() http.HandlerFunc {
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

// updateWholeCategory makes the category list exactly the given skills
func (h skillHandler) updateWholeCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "categoryId", "category")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req skillCategoryUpdateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Skills == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("skills"))
			return
		}

		category, err := h.categoryRepo.UpdateWholeCategoryAndSkill(r.Context(), id, req.Category, req.Skills)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Category and skills updated successfully", category)
	}
}

func (h skillHandler) renameCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "categoryId", "category")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req skillCategoryRename
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.Category = strings.TrimSpace(req.Category)
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.categoryRepo.RenameCategory(r.Context(), id, req.Category)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Category name updated successfully", category)
	}
}

func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "skill")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var patch database.SkillPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skillRepo.Update(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Skill updated successfully", skill)
	}
}

func (h skillHandler) deleteCategoryWithSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "category")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.categoryRepo.DeleteCategoryWithSkills(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "Category and all its skills deleted successfully")
	}
}

func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "skillId", "skill")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.categoryRepo.DeleteSkill(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "Skill deleted successfully")
	}
}

// consistency reports drift between category lists and skill back-pointers
func (h skillHandler) consistency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.categoryRepo.FindDrift(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		message := "Skill categories are consistent"
		if !report.Clean() {
			message = "Skill categories have drifted"
		}
		h.responder.WriteSuccess(w, http.StatusOK, message, report)
	}
}

func (h skillHandler) repair() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.categoryRepo.RepairDrift(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !report.Clean() {
			h.logger.Warn().
				Int("mismatched", len(report.Mismatched)).
				Int("dangling", len(report.Dangling)).
				Int("unlisted", len(report.Unlisted)).
				Str("by", actor(r.Context())).
				Msg("skill category drift repaired")
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Skill categories repaired", report)
	}
}
