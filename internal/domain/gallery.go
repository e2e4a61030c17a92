package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxGalleryTitleLength caps gallery titles derived from their owner.
const MaxGalleryTitleLength = 50

// Gallery is a visibility-carrying photo album owned by an experience or a
// narrative. Photo storage lives elsewhere.
type Gallery struct {
	ID        uuid.UUID  `json:"id"`
	OwnerKind EntityKind `json:"owner_kind"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Title     string     `json:"title"`
	IsPublic  bool       `json:"is_public"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Kind implements Entity.
func (g *Gallery) Kind() EntityKind { return KindGallery }

// NewExperienceGallery builds the gallery for an experience.
func NewExperienceGallery(e *Experience) *Gallery {
	return newGallery(KindExperience, e.ID, e.Title, e.IsPublic)
}

// NewNarrativeGallery builds the gallery for a narrative. It is public only
// when both the narrative and its experience are.
func NewNarrativeGallery(n *Narrative, e *Experience) *Gallery {
	return newGallery(KindNarrative, n.ID, n.Title, n.IsPublic && e.IsPublic)
}

func newGallery(kind EntityKind, ownerID uuid.UUID, title string, public bool) *Gallery {
	now := time.Now().UTC()
	return &Gallery{
		ID:        uuid.New(),
		OwnerKind: kind,
		OwnerID:   ownerID,
		Title:     truncateRunes(title, MaxGalleryTitleLength),
		IsPublic:  public,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
