package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/devfolio/apiserver/config"
	"github.com/devfolio/apiserver/internal/auth"
	"github.com/devfolio/apiserver/internal/db"
	"github.com/devfolio/apiserver/internal/handlers"
	"github.com/devfolio/apiserver/internal/mq"
	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/storage"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server, router, and the process-lifetime
// resources behind it.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
}

// New opens the database, constructs the storage and queue backends,
// and wires every route.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	objectStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	log.Printf("storage: %s backend ready, bucket %q", cfg.Storage.Backend, objectStore.Bucket())

	queue, err := mq.New(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	projectRepo := store.NewProjectRepository(dbConn)
	skillRepo := store.NewSkillRepository(dbConn)
	experienceRepo := store.NewExperienceRepository(dbConn)
	educationRepo := store.NewEducationRepository(dbConn)
	socialRepo := store.NewSocialLinkRepository(dbConn)
	resumeRepo := store.NewResumeRepository(dbConn)
	galleryRepo := store.NewGalleryRepository(dbConn)
	contactRepo := store.NewContactRepository(dbConn)

	authn := auth.NewAuthenticator(userRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	requireAuth := handlers.RequireAuth(authn)

	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	skillService := services.NewSkillService(skillRepo)
	experienceService := services.NewExperienceService(experienceRepo)
	educationService := services.NewEducationService(educationRepo)
	socialService := services.NewSocialLinkService(socialRepo)
	resumeService := services.NewResumeService(resumeRepo, objectStore)
	galleryService := services.NewGalleryService(galleryRepo, projectRepo, objectStore)

	// A nil *mq.MQ must stay a nil interface, or the service would try
	// to publish through it.
	var notifier services.Notifier
	if queue != nil {
		notifier = queue
	}
	contactService := services.NewContactService(contactRepo, notifier)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz(dbConn))
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, authn)
	})
	router.Route("/projects", func(r chi.Router) {
		handlers.ProjectRouter(r, projectService, requireAuth)
	})
	router.Route("/skills", func(r chi.Router) {
		handlers.SkillRouter(r, skillService, requireAuth)
	})
	router.Route("/experiences", func(r chi.Router) {
		handlers.ExperienceRouter(r, experienceService, requireAuth)
	})
	router.Route("/education", func(r chi.Router) {
		handlers.EducationRouter(r, educationService, requireAuth)
	})
	router.Route("/social-links", func(r chi.Router) {
		handlers.SocialLinkRouter(r, socialService, requireAuth)
	})
	router.Route("/resumes", func(r chi.Router) {
		handlers.ResumeRouter(r, resumeService, requireAuth)
	})
	router.Route("/gallery", func(r chi.Router) {
		handlers.GalleryRouter(r, galleryService, requireAuth)
	})
	router.Route("/contact", func(r chi.Router) {
		handlers.ContactRouter(r, contactService, requireAuth)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and releases held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
