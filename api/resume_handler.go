package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type resumeHandler struct {
	responder  Responder
	logger     zerolog.Logger
	resumeRepo *database.ResumeRepo
	uploads    uploader
}

func newResumeHandler(resumeRepo *database.ResumeRepo, uploads uploader) resumeHandler {
	logger := log.With().Str("handlerName", "resumeHandler").Logger()
	return resumeHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		resumeRepo: resumeRepo,
		uploads:    uploads,
	}
}

type resumeUploadRequest struct {
	IsActive flexBool `json:"isActive"`
}

func (h resumeHandler) uploadResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resumeUploadRequest
		file, err := decodePayload(w, r, &req, "resume")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if file == nil {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("No file uploaded", "resume", ""))
			return
		}

		stored, err := h.uploads.document(r.Context(), file, resumeFolder)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		resume := models.Resume{
			Name:     file.Filename,
			URL:      stored.URL,
			PublicID: stored.Key,
			IsActive: req.IsActive.Or(false),
		}
		if err := h.resumeRepo.Add(r.Context(), &resume); err != nil {
			// the record never existed, so the object is orphaned
			if derr := h.uploads.store.Delete(r.Context(), stored.Key); derr != nil {
				h.logger.Warn().Err(derr).Str("key", stored.Key).Msg("could not remove orphaned resume object")
			}
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Resume uploaded successfully", resume)
	}
}

func (h resumeHandler) getResumes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resumes, err := h.resumeRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", resumes)
	}
}

func (h resumeHandler) getActiveResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resume, err := h.resumeRepo.FindActive(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", resume)
	}
}

func (h resumeHandler) setActiveResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "resume")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		resume, err := h.resumeRepo.SetActive(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Active resume updated", resume)
	}
}

// deleteResume removes the stored file first and then the record
func (h resumeHandler) deleteResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id", "resume")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		resume, err := h.resumeRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if h.uploads.store == nil {
			h.responder.WriteError(w, errs.NewConfigMissingError("object storage"))
			return
		}
		if err := h.uploads.store.Delete(r.Context(), resume.PublicID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.resumeRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("resumeID", id.String()).Str("by", actor(r.Context())).Msg("resume deleted")
		h.responder.WriteMessage(w, http.StatusOK, "Resume deleted")
	}
}
