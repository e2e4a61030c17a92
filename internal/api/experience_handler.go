package api

import (
	"log/slog"
	"net/http"

	"github.com/acressity/acressity-api/internal/api/shared"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// ExperienceHandler handles experience routes, including password gates,
// comrades, features and the narratives listed under an experience.
type ExperienceHandler struct {
	experiences service.ExperienceService
	narratives  service.NarrativeService
	galleries   service.GalleryService
	logger      *slog.Logger
}

// NewExperienceHandler creates a new ExperienceHandler.
func NewExperienceHandler(
	experiences service.ExperienceService,
	narratives service.NarrativeService,
	galleries service.GalleryService,
	log *slog.Logger,
) *ExperienceHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ExperienceHandler{
		experiences: experiences,
		narratives:  narratives,
		galleries:   galleries,
		logger:      log.With(slog.String("component", "experience_handler")),
	}
}

// CreateExperience handles POST /experiences.
func (h *ExperienceHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateExperienceRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	experience, err := h.experiences.Create(r.Context(), viewerFrom(r), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create experience")
		return
	}

	log.Debug("experience created", slog.String("experience_id", experience.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, experienceToResponse(experience))
}

// GetExperience handles GET /experiences/{id}.
func (h *ExperienceHandler) GetExperience(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	experience, err := h.experiences.Get(r.Context(), viewerFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get experience")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, experienceToResponse(experience))
}

// GetBySearchTerm handles GET /x/{term}.
func (h *ExperienceHandler) GetBySearchTerm(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")

	experience, err := h.experiences.GetBySearchTerm(r.Context(), viewerFrom(r), term)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get experience")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, experienceToResponse(experience))
}

// UpdateExperience handles PUT /experiences/{id}. A visibility change
// cascades to the experience's narratives and galleries.
func (h *ExperienceHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateExperienceRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	experience, err := h.experiences.Update(r.Context(), viewerFrom(r), id, req.toChanges())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update experience")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, experienceToResponse(experience))
}

// DeleteExperience handles DELETE /experiences/{id}.
func (h *ExperienceHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.experiences.Delete(r.Context(), viewerFrom(r), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete experience")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPassword handles PUT /experiences/{id}/password.
func (h *ExperienceHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PasswordRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	if err := h.experiences.SetPassword(r.Context(), viewerFrom(r), id, req.Password); err != nil {
		HandleAPIError(w, r, err, "Failed to set experience password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearPassword handles DELETE /experiences/{id}/password.
func (h *ExperienceHandler) ClearPassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.experiences.ClearPassword(r.Context(), viewerFrom(r), id); err != nil {
		HandleAPIError(w, r, err, "Failed to remove experience password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unlock handles POST /experiences/{id}/unlock. The returned grant is sent
// back in the X-Experience-Grant header on later requests.
func (h *ExperienceHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PasswordRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	grant, err := h.experiences.Unlock(r.Context(), id, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to unlock experience")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, grant)
}

// ListComrades handles GET /experiences/{id}/comrades.
func (h *ExperienceHandler) ListComrades(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	viewer := viewerFrom(r)
	comrades, err := h.experiences.ListComrades(r.Context(), viewer, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comrades")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, explorersToResponse(comrades, viewer))
}

// AddComrade handles POST /experiences/{id}/comrades.
func (h *ExperienceHandler) AddComrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ComradeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	experience, err := h.experiences.AddComrade(r.Context(), viewerFrom(r), id, req.ExplorerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add comrade")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, experienceToResponse(experience))
}

// RemoveComrade handles DELETE /experiences/{id}/comrades/{explorerID}.
func (h *ExperienceHandler) RemoveComrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}
	explorerID, ok := handlePathUUID(w, r, "explorerID", log)
	if !ok {
		return
	}

	if err := h.experiences.RemoveComrade(r.Context(), viewerFrom(r), id, explorerID); err != nil {
		HandleAPIError(w, r, err, "Failed to remove comrade")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Feature handles POST /experiences/{id}/feature.
func (h *ExperienceHandler) Feature(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	featured, err := h.experiences.Feature(r.Context(), viewerFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to feature experience")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, FeaturedResponse{
		ExplorerID:   featured.ExplorerID,
		ExperienceID: featured.ExperienceID,
		FeaturedAt:   featured.FeaturedAt,
	})
}

// ListGalleries handles GET /experiences/{id}/galleries.
func (h *ExperienceHandler) ListGalleries(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	galleries, err := h.experiences.ListGalleries(r.Context(), viewerFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list galleries")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, galleries)
}

// EnsureGallery handles POST /experiences/{id}/gallery.
func (h *ExperienceHandler) EnsureGallery(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	gallery, err := h.galleries.EnsureExperienceGallery(r.Context(), viewerFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create gallery")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, gallery)
}

// ListNarratives handles GET /experiences/{id}/narratives?page=.
func (h *ExperienceHandler) ListNarratives(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	page, err := h.narratives.ListByExperience(r.Context(), viewerFrom(r), id, r.URL.Query().Get("page"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list narratives")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, narrativePageToResponse(page))
}

// LatestNarrative handles GET /experiences/{id}/narratives/latest.
func (h *ExperienceHandler) LatestNarrative(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	narrative, err := h.experiences.LatestPublicNarrative(r.Context(), viewerFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get latest narrative")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, narrative.Summary())
}

// CreateNarrative handles POST /experiences/{id}/narratives.
func (h *ExperienceHandler) CreateNarrative(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CreateNarrativeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	narrative, err := h.narratives.Create(r.Context(), viewerFrom(r), id, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create narrative")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, NarrativeResponse{Narrative: narrative})
}
