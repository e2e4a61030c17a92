package api

import (
	"log/slog"
	"net/http"

	apiMiddleware "github.com/acressity/acressity-api/internal/api/middleware"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/acressity/acressity-api/internal/service/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// RouterDeps holds what NewRouter needs to build its handlers.
type RouterDeps struct {
	Explorers      service.ExplorerService
	Experiences    service.ExperienceService
	Narratives     service.NarrativeService
	Galleries      service.GalleryService
	JWTService     auth.JWTService
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter wires every route under /api plus the /health check.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(log))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", apiMiddleware.GrantHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler)

	authHandler := NewAuthHandler(deps.Explorers, deps.JWTService, log)
	explorerHandler := NewExplorerHandler(deps.Explorers, deps.Experiences, deps.Narratives, log)
	experienceHandler := NewExperienceHandler(deps.Experiences, deps.Narratives, deps.Galleries, log)
	narrativeHandler := NewNarrativeHandler(deps.Narratives, deps.Galleries, log)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.JWTService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Readable anonymously; the viewer only widens what is visible.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Identify)

			r.Get("/explorers/{id}", explorerHandler.GetExplorer)
			r.Get("/explorers/{id}/narratives", explorerHandler.ListNarratives)
			r.Get("/explorers/{id}/experiences", explorerHandler.ListExperiences)
			r.Get("/explorers/{id}/featured", explorerHandler.GetFeatured)

			r.Get("/experiences/{id}", experienceHandler.GetExperience)
			r.Get("/experiences/{id}/narratives", experienceHandler.ListNarratives)
			r.Get("/experiences/{id}/narratives/latest", experienceHandler.LatestNarrative)
			r.Get("/experiences/{id}/galleries", experienceHandler.ListGalleries)
			r.Get("/experiences/{id}/comrades", experienceHandler.ListComrades)
			r.Post("/experiences/{id}/unlock", experienceHandler.Unlock)
			r.Get("/x/{term}", experienceHandler.GetBySearchTerm)

			r.Get("/narratives/{id}", narrativeHandler.GetNarrative)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Put("/auth/password", authHandler.ChangePassword)

			r.Post("/experiences", experienceHandler.CreateExperience)
			r.Put("/experiences/{id}", experienceHandler.UpdateExperience)
			r.Delete("/experiences/{id}", experienceHandler.DeleteExperience)
			r.Post("/experiences/{id}/gallery", experienceHandler.EnsureGallery)
			r.Put("/experiences/{id}/password", experienceHandler.SetPassword)
			r.Delete("/experiences/{id}/password", experienceHandler.ClearPassword)
			r.Post("/experiences/{id}/comrades", experienceHandler.AddComrade)
			r.Delete("/experiences/{id}/comrades/{explorerID}", experienceHandler.RemoveComrade)
			r.Post("/experiences/{id}/feature", experienceHandler.Feature)
			r.Post("/experiences/{id}/narratives", experienceHandler.CreateNarrative)

			r.Put("/narratives/{id}", narrativeHandler.UpdateNarrative)
			r.Delete("/narratives/{id}", narrativeHandler.DeleteNarrative)
			r.Post("/narratives/{id}/gallery", narrativeHandler.EnsureGallery)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
