package api

import (
	"log/slog"
	"net/http"

	"github.com/acressity/acressity-api/internal/api/shared"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/service"
)

// ExplorerHandler serves explorer profiles and the listings hanging off them.
type ExplorerHandler struct {
	explorers   service.ExplorerService
	experiences service.ExperienceService
	narratives  service.NarrativeService
	logger      *slog.Logger
}

// NewExplorerHandler creates a new ExplorerHandler.
func NewExplorerHandler(
	explorers service.ExplorerService,
	experiences service.ExperienceService,
	narratives service.NarrativeService,
	log *slog.Logger,
) *ExplorerHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ExplorerHandler{
		explorers:   explorers,
		experiences: experiences,
		narratives:  narratives,
		logger:      log.With(slog.String("component", "explorer_handler")),
	}
}

// GetExplorer handles GET /explorers/{id}.
func (h *ExplorerHandler) GetExplorer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	explorer, err := h.explorers.GetExplorer(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get explorer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, explorerToResponse(explorer, viewerFrom(r)))
}

// ListNarratives handles GET /explorers/{id}/narratives?page=.
func (h *ExplorerHandler) ListNarratives(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	page, err := h.narratives.ListByExplorer(r.Context(), viewerFrom(r), id, r.URL.Query().Get("page"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list narratives")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, narrativePageToResponse(page))
}

// ListExperiences handles GET /explorers/{id}/experiences.
func (h *ExplorerHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	experiences, err := h.experiences.ListByExplorer(r.Context(), viewerFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list experiences")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, experiencesToResponse(experiences))
}

// GetFeatured handles GET /explorers/{id}/featured.
func (h *ExplorerHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	experience, err := h.experiences.LatestFeatured(r.Context(), viewerFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get featured experience")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, experienceToResponse(experience))
}
