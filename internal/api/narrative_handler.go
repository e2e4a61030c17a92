package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/acressity/acressity-api/internal/api/shared"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/service"
)

// NarrativeHandler handles routes addressing a single narrative.
type NarrativeHandler struct {
	narratives service.NarrativeService
	galleries  service.GalleryService
	logger     *slog.Logger
}

// NewNarrativeHandler creates a new NarrativeHandler.
func NewNarrativeHandler(
	narratives service.NarrativeService,
	galleries service.GalleryService,
	log *slog.Logger,
) *NarrativeHandler {
	if log == nil {
		log = slog.Default()
	}
	return &NarrativeHandler{
		narratives: narratives,
		galleries:  galleries,
		logger:     log.With(slog.String("component", "narrative_handler")),
	}
}

// GetNarrative handles GET /narratives/{id}.
func (h *NarrativeHandler) GetNarrative(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	detail, err := h.narratives.Get(r.Context(), viewerFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get narrative")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NarrativeResponse{
		Narrative:  detail.Narrative,
		PreviousID: detail.Previous,
		NextID:     detail.Next,
	})
}

// UpdateNarrative handles PUT /narratives/{id}.
func (h *NarrativeHandler) UpdateNarrative(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateNarrativeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	narrative, err := h.narratives.Update(r.Context(), viewerFrom(r), id, req.toChanges())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update narrative")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NarrativeResponse{Narrative: narrative})
}

// DeleteNarrative handles DELETE /narratives/{id}?confirm=true.
func (h *NarrativeHandler) DeleteNarrative(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := h.narratives.Delete(r.Context(), viewerFrom(r), id, confirm); err != nil {
		HandleAPIError(w, r, err, "Failed to delete narrative")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EnsureGallery handles POST /narratives/{id}/gallery.
func (h *NarrativeHandler) EnsureGallery(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	gallery, err := h.galleries.EnsureNarrativeGallery(r.Context(), viewerFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create gallery")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, gallery)
}
