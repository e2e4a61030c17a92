package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeaturedExperience records an explorer highlighting an experience on their
// profile. Rows are kept as history; the newest is the current feature.
type FeaturedExperience struct {
	ID           uuid.UUID `json:"id"`
	ExplorerID   uuid.UUID `json:"explorer_id"`
	ExperienceID uuid.UUID `json:"experience_id"`
	FeaturedAt   time.Time `json:"featured_at"`
}

// NewFeaturedExperience checks that the explorer takes part in the
// experience and returns the feature record.
func NewFeaturedExperience(explorerID uuid.UUID, e *Experience) (*FeaturedExperience, error) {
	if explorerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if !CanContribute(ExplorerViewer(explorerID), e) {
		return nil, ErrPermissionDenied
	}
	return &FeaturedExperience{
		ID:           uuid.New(),
		ExplorerID:   explorerID,
		ExperienceID: e.ID,
		FeaturedAt:   time.Now().UTC(),
	}, nil
}
