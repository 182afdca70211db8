package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
	alerts services.Notifier
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger: logger}
}

// WithAlerts makes the responder page the admin for every 5xx it writes
func (r Responder) WithAlerts(n services.Notifier) Responder {
	r.alerts = n
	return r
}

// WriteJSON writes data with the given status. Headers are set before the status line.
func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")
		status = http.StatusRequestEntityTooLarge
		jsonData, _ = json.Marshal(envelope{
			Success: false,
			Message: "The requested data exceeds the maximum response size",
			Error:   "ResponseTooLarge",
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteSuccess writes the {success, message, data} envelope
func (r Responder) WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	r.WriteJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// WriteMessage is WriteSuccess without a payload
func (r Responder) WriteMessage(w http.ResponseWriter, status int, message string) {
	r.WriteJSON(w, status, envelope{Success: true, Message: message})
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// Unexpected errors never reach the client verbatim
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unmapped error")
		r.alert(err)
		r.WriteJSON(w, http.StatusInternalServerError, envelope{
			Success: false,
			Message: "An unexpected error occurred",
			Error:   "InternalError",
		})
		return
	}

	response := envelope{
		Success: false,
		Message: apiErr.Message(),
		Error:   errs.Kind(apiErr),
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
		r.alert(apiErr)
		// Store and third-party internals stay in the log
		response.Details = ""
	}
	r.WriteJSON(w, apiErr.StatusCode, response)
}

func (r Responder) alert(err error) {
	if r.alerts == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		msg := err.Error()
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			msg = apiErr.GetFullError()
		}
		if nerr := r.alerts.Notify(ctx, "portfolio-cms: "+msg); nerr != nil {
			r.logger.Warn().Err(nerr).Msg("error alert failed")
		}
	}()
}
