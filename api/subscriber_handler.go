package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type subscriberHandler struct {
	responder      Responder
	logger         zerolog.Logger
	subscriberRepo *database.SubscriberRepo
	newsletter     *services.Newsletter
}

func newSubscriberHandler(subscriberRepo *database.SubscriberRepo, newsletter *services.Newsletter) subscriberHandler {
	logger := log.With().Str("handlerName", "subscriberHandler").Logger()
	return subscriberHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		subscriberRepo: subscriberRepo,
		newsletter:     newsletter,
	}
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type newsletterRequest struct {
	Subject    string   `json:"subject" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Recipients flexList `json:"recipients" validate:"dive,email"`
	SendToAll  flexBool `json:"sendToAll"`
}

func (h subscriberHandler) decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req subscribeRequest
	if _, err := decodePayload(w, r, &req, ""); err != nil {
		h.responder.WriteError(w, err)
		return "", false
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req); err != nil {
		h.responder.WriteError(w, err)
		return "", false
	}
	return req.Email, true
}

func (h subscriberHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := h.decodeEmail(w, r)
		if !ok {
			return
		}

		_, created, err := h.subscriberRepo.Subscribe(r.Context(), email, false)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !created {
			h.responder.WriteMessage(w, http.StatusOK, "You're already subscribed!")
			return
		}
		h.responder.WriteMessage(w, http.StatusCreated, "Subscribed successfully!")
	}
}

// addSubscriber is the admin variant of subscribe; the row is marked as added by hand
func (h subscriberHandler) addSubscriber() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := h.decodeEmail(w, r)
		if !ok {
			return
		}

		sub, created, err := h.subscriberRepo.Subscribe(r.Context(), email, true)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !created {
			h.responder.WriteSuccess(w, http.StatusOK, "Subscriber already exists", sub)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Subscriber added successfully", sub)
	}
}

func (h subscriberHandler) unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := h.decodeEmail(w, r)
		if !ok {
			return
		}
		if err := h.subscriberRepo.Unsubscribe(r.Context(), email); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "Unsubscribed successfully")
	}
}

func (h subscriberHandler) listSubscribers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscribers, err := h.subscriberRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", subscribers)
	}
}

func (h subscriberHandler) sendNewsletter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req newsletterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if h.newsletter == nil {
			h.responder.WriteError(w, errs.NewConfigMissingError("RESEND_API_KEY"))
			return
		}

		var (
			recipients []string
			err        error
		)
		if req.SendToAll.Or(false) {
			recipients, err = h.subscriberRepo.SubscribedEmails(r.Context())
		} else {
			recipients, err = h.subscriberRepo.ResolveRecipients(r.Context(), req.Recipients)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if len(recipients) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("No valid recipients to send", "recipients", ""))
			return
		}

		result, err := h.newsletter.Broadcast(r.Context(), req.Subject, req.Content, recipients)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Newsletter sending was interrupted", err))
			return
		}
		h.logger.Info().Int("sent", result.Sent).Int("failed", result.Failed).Msg("newsletter broadcast")

		switch {
		case result.Sent == 0:
			h.responder.WriteError(w, errs.NewPartialFailureError("newsletter", result.Failed, len(recipients)))
		case result.Failed > 0:
			h.responder.WriteSuccess(w, http.StatusOK,
				fmt.Sprintf("Newsletter sent to %d of %d recipient(s)", result.Sent, len(recipients)), result)
		default:
			h.responder.WriteSuccess(w, http.StatusOK,
				fmt.Sprintf("Newsletter sent successfully to %d recipient(s)!", result.Sent), result)
		}
	}
}
