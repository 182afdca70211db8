package api

import (
	"time"

	"github.com/rpupo63/portfolio-cms-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, gate authMiddleware, startupTime time.Time) *routeHandlers {
	store := deps.Store
	uploads := uploader{store: deps.Objects, thumbnails: deps.Thumbnails}

	return &routeHandlers{
		userHandler:          newUserHandler(store.UserRepo(), deps.Passwords, deps.Tokens, gate, deps.SecureCookie),
		blogHandler:          newBlogHandler(store.BlogRepo(), store.BlogTagRepo(), uploads),
		blogCategoryHandler:  newBlogCategoryHandler(store.BlogCategoryRepo()),
		projectHandler:       newProjectHandler(store.ProjectRepo(), store.ProjectTagRepo(), uploads),
		skillHandler:         newSkillHandler(store.SkillCategoryRepo(), store.SkillRepo()),
		experienceHandler:    newExperienceHandler(store.ExperienceRepo()),
		footerContentHandler: newFooterContentHandler(store.FooterContentRepo()),
		contactHandler:       newContactHandler(deps.Contact),
		subscriberHandler:    newSubscriberHandler(store.SubscriberRepo(), deps.Newsletter),
		resumeHandler:        newResumeHandler(store.ResumeRepo(), uploads),
		dashboardHandler:     newDashboardHandler(store),
		healthHandler:        newHealthHandler(store, startupTime),
	}
}

// withAlerts lets every handler page the admin when an unmapped error reaches the client
func (h *routeHandlers) withAlerts(n services.Notifier) {
	h.userHandler.responder = h.userHandler.responder.WithAlerts(n)
	h.blogHandler.responder = h.blogHandler.responder.WithAlerts(n)
	h.blogCategoryHandler.responder = h.blogCategoryHandler.responder.WithAlerts(n)
	h.projectHandler.responder = h.projectHandler.responder.WithAlerts(n)
	h.skillHandler.responder = h.skillHandler.responder.WithAlerts(n)
	h.experienceHandler.responder = h.experienceHandler.responder.WithAlerts(n)
	h.footerContentHandler.responder = h.footerContentHandler.responder.WithAlerts(n)
	h.contactHandler.responder = h.contactHandler.responder.WithAlerts(n)
	h.subscriberHandler.responder = h.subscriberHandler.responder.WithAlerts(n)
	h.resumeHandler.responder = h.resumeHandler.responder.WithAlerts(n)
	h.dashboardHandler.responder = h.dashboardHandler.responder.WithAlerts(n)
}
