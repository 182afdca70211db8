package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	relay     *services.ContactRelay
}

func newContactHandler(relay *services.ContactRelay) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()
	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		relay:     relay,
	}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=10000"`
}

func (h contactHandler) sendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if _, err := decodePayload(w, r, &req, ""); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		req.Subject = strings.TrimSpace(req.Subject)
		req.Message = strings.TrimSpace(req.Message)
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if h.relay == nil {
			h.responder.WriteError(w, errs.NewConfigMissingError("RESEND_API_KEY"))
			return
		}

		err := h.relay.Relay(r.Context(), services.ContactMessage{
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Message: req.Message,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("from", req.Email).Msg("contact message relayed")
		h.responder.WriteMessage(w, http.StatusOK, "Email sent successfully")
	}
}
