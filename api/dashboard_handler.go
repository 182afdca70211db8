package api

import (
	"context"
	"net/http"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rs/zerolog/log"
)

type dashboardHandler struct {
	responder Responder
	store     database.Database
}

func newDashboardHandler(store database.Database) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()
	return dashboardHandler{
		responder: NewResponder(logger),
		store:     store,
	}
}

func (h dashboardHandler) count(counter func(context.Context) (int64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := counter(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, countResponse{Success: true, Count: n})
	}
}

func (h dashboardHandler) countBlogs() http.HandlerFunc {
	return h.count(h.store.BlogRepo().Count)
}

func (h dashboardHandler) countProjects() http.HandlerFunc {
	return h.count(h.store.ProjectRepo().Count)
}

// countSubscribers counts only addresses that are still subscribed
func (h dashboardHandler) countSubscribers() http.HandlerFunc {
	return h.count(h.store.SubscriberRepo().CountSubscribed)
}

func (h dashboardHandler) countSkills() http.HandlerFunc {
	return h.count(h.store.SkillRepo().Count)
}
