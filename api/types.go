package api

import (
	"github.com/rpupo63/portfolio-cms-backend/database"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	userHandler          userHandler
	blogHandler          blogHandler
	blogCategoryHandler  blogCategoryHandler
	projectHandler       projectHandler
	skillHandler         skillHandler
	experienceHandler    experienceHandler
	footerContentHandler footerContentHandler
	contactHandler       contactHandler
	subscriberHandler    subscriberHandler
	resumeHandler        resumeHandler
	dashboardHandler     dashboardHandler
	healthHandler        healthHandler
}

// envelope is the body of every response
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// pageEnvelope is the body of paginated list responses
type pageEnvelope struct {
	Success     bool  `json:"success"`
	Count       int   `json:"count"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Data        any   `json:"data"`
}

func newPageEnvelope[T any](p database.Page[T]) pageEnvelope {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return pageEnvelope{
		Success:     true,
		Count:       p.Count(),
		Total:       p.Total,
		TotalPages:  p.TotalPages(),
		CurrentPage: p.Page,
		Data:        items,
	}
}

type countResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}
