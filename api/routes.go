package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts every resource under /api/v1. Reads are public; writes go through the auth gate.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limiter *rateLimiter) {
	r.Get("/health", handlers.healthHandler.health())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.With(limiter.Limit).Post("/login", handlers.userHandler.login())
			r.Post("/verify-token", handlers.userHandler.verifyToken())
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", handlers.blogHandler.getAllBlogs())
			r.Get("/tags", handlers.blogHandler.getTags())
			r.Get("/{idOrSlug}", handlers.blogHandler.getBlog())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.blogHandler.createBlog())
				r.Put("/{idOrSlug}", handlers.blogHandler.updateBlog())
				r.Delete("/{idOrSlug}", handlers.blogHandler.deleteBlog())
			})
		})

		r.Route("/blogCategory", func(r chi.Router) {
			r.Get("/", handlers.blogCategoryHandler.getAllCategories())
			r.Get("/{id}", handlers.blogCategoryHandler.getCategory())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.blogCategoryHandler.createCategory())
				r.Patch("/{id}", handlers.blogCategoryHandler.updateCategory())
				r.Delete("/{id}", handlers.blogCategoryHandler.deleteCategory())
			})
		})

		r.Route("/project", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.getAllProjects())
			r.Get("/tags", handlers.projectHandler.getTags())
			r.Get("/{id}", handlers.projectHandler.getProject())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.projectHandler.createProject())
				r.Patch("/{id}", handlers.projectHandler.updateProject())
				r.Delete("/{id}", handlers.projectHandler.deleteProject())
			})
		})

		// Under /skills, {id} names a skill for PATCH but a whole category for GET and DELETE.
		// The category-only routes spell it {categoryId} and deleteSkill spells it {skillId}.
		r.Route("/skills", func(r chi.Router) {
			r.Get("/", handlers.skillHandler.getAllCategories())
			r.Get("/{id}", handlers.skillHandler.getCategory())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Get("/consistency", handlers.skillHandler.consistency())
				r.Post("/consistency/repair", handlers.skillHandler.repair())
				r.Post("/create", handlers.skillHandler.createCategoryWithSkills())
				r.Post("/createSkill/{categoryId}", handlers.skillHandler.addSkillsToCategory())
				r.Put("/category/{categoryId}", handlers.skillHandler.updateWholeCategory())
				r.Patch("/category/{categoryId}", handlers.skillHandler.renameCategory())
				r.Patch("/{id}", handlers.skillHandler.updateSkill())
				r.Delete("/{id}", handlers.skillHandler.deleteCategoryWithSkills())
				r.Delete("/deleteSkill/{skillId}", handlers.skillHandler.deleteSkill())
			})
		})

		r.Route("/exp", func(r chi.Router) {
			r.Get("/", handlers.experienceHandler.getAllExperience())
			r.Get("/{id}", handlers.experienceHandler.getExperience())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/create", handlers.experienceHandler.createExperience())
				r.Patch("/{id}", handlers.experienceHandler.updateExperience())
				r.Delete("/{id}", handlers.experienceHandler.deleteExperience())
			})
		})

		r.Route("/footerContent", func(r chi.Router) {
			r.Get("/", handlers.footerContentHandler.getAllFooterContent())
			r.Get("/{id}", handlers.footerContentHandler.getFooterContent())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.footerContentHandler.createFooterContent())
				r.Patch("/{id}", handlers.footerContentHandler.updateFooterContent())
				r.Delete("/{id}", handlers.footerContentHandler.deleteFooterContent())
			})
		})

		r.With(limiter.Limit).Post("/contact", handlers.contactHandler.sendMessage())

		r.Route("/subscribe", func(r chi.Router) {
			r.With(limiter.Limit).Post("/subscribe", handlers.subscriberHandler.subscribe())
			r.Post("/unsubscribe", handlers.subscriberHandler.unsubscribe())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Get("/list", handlers.subscriberHandler.listSubscribers())
				r.Post("/add", handlers.subscriberHandler.addSubscriber())
				r.Post("/send-newsletter", handlers.subscriberHandler.sendNewsletter())
			})
		})

		r.Route("/resume", func(r chi.Router) {
			r.Get("/active", handlers.resumeHandler.getActiveResume())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/upload", handlers.resumeHandler.uploadResume())
				r.Get("/", handlers.resumeHandler.getResumes())
				r.Put("/set-active/{id}", handlers.resumeHandler.setActiveResume())
				r.Delete("/{id}", handlers.resumeHandler.deleteResume())
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Get("/blogs", handlers.dashboardHandler.countBlogs())
			r.Get("/projects", handlers.dashboardHandler.countProjects())
			r.Get("/subscribers", handlers.dashboardHandler.countSubscribers())
			r.Get("/skills", handlers.dashboardHandler.countSkills())
		})
	})
}

// setupUploadRoutes serves files written by a DiskStore
func setupUploadRoutes(r chi.Router, root string) {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(root)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}
