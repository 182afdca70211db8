package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the handlers are built from. Contact and Newsletter may be
// nil when no mail provider is configured; the routes then answer with a configuration error.
type Dependencies struct {
	Store      database.Database
	Tokens     *auth.TokenService
	Passwords  *auth.PasswordService
	Objects    services.ObjectStore
	Thumbnails *services.ThumbnailProcessor
	Contact    *services.ContactRelay
	Newsletter *services.Newsletter
	Alerts     services.Notifier
	AdminEmail string
	// UploadDir is served under /uploads when objects are kept on local disk
	UploadDir    string
	SecureCookie bool
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	if deps.Tokens == nil || deps.Passwords == nil {
		return Server{}, fmt.Errorf("api: token and password services are required")
	}
	if deps.AdminEmail == "" {
		return Server{}, fmt.Errorf("api: ADMIN_EMAIL is required")
	}
	if deps.Thumbnails == nil {
		deps.Thumbnails = services.NewThumbnailProcessor(services.DefaultThumbnailWidth)
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := config.GetDuration(c, "READ_TIMEOUT_SECONDS", time.Second, 180*time.Second)
	writeTimeout := config.GetDuration(c, "WRITE_TIMEOUT_SECONDS", time.Second, 180*time.Second)
	idleTimeout := config.GetDuration(c, "IDLE_TIMEOUT_SECONDS", time.Second, 180*time.Second)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(logRequests)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS", []string{"http://localhost:3000"})
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	authMiddleware := newAuthMiddleware(deps.Tokens, deps.Store.UserRepo(), deps.AdminEmail)
	limiter := newRateLimiter(config.GetInt(router.config, "RATE_LIMIT_PER_MINUTE", 5))
	handlers := initializeHandlers(deps, authMiddleware, router.startupTime)
	if deps.Alerts != nil {
		handlers.withAlerts(deps.Alerts)
	}

	setupRoutes(chiRouter, handlers, authMiddleware, limiter)
	if deps.UploadDir != "" {
		setupUploadRoutes(chiRouter, deps.UploadDir)
	}

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
