package domain

import "github.com/google/uuid"

// GalleryVisibility is a planned change of a gallery's is_public flag.
type GalleryVisibility struct {
	GalleryID uuid.UUID
	IsPublic  bool
}

// VisibilityCascade lists the writes needed to keep dependents consistent
// with an owner's new visibility. Narratives are to be made private.
type VisibilityCascade struct {
	Narratives []uuid.UUID
	Galleries  []GalleryVisibility
}

// Empty reports whether the cascade has nothing to apply.
func (c VisibilityCascade) Empty() bool {
	return len(c.Narratives) == 0 && len(c.Galleries) == 0
}

// PlanExperienceCascade computes the cascade for saving next over prior.
// narratives are the experience's current narratives.
//
// Making an experience private hides every public narrative and their
// galleries. Making it public republishes nothing but its own gallery.
func PlanExperienceCascade(prior, next *Experience, narratives []*Narrative) VisibilityCascade {
	var plan VisibilityCascade
	if prior == nil || next == nil || prior.IsPublic == next.IsPublic {
		return plan
	}
	if !next.IsPublic {
		for _, n := range narratives {
			if !n.IsPublic {
				continue
			}
			plan.Narratives = append(plan.Narratives, n.ID)
			if n.GalleryID != nil {
				plan.Galleries = append(plan.Galleries, GalleryVisibility{GalleryID: *n.GalleryID, IsPublic: false})
			}
		}
	}
	if next.GalleryID != nil {
		plan.Galleries = append(plan.Galleries, GalleryVisibility{GalleryID: *next.GalleryID, IsPublic: next.IsPublic})
	}
	return plan
}

// PlanNarrativeCascade computes the cascade for saving next over prior.
func PlanNarrativeCascade(prior, next *Narrative) VisibilityCascade {
	var plan VisibilityCascade
	if prior == nil || next == nil || prior.IsPublic == next.IsPublic {
		return plan
	}
	if next.GalleryID != nil {
		plan.Galleries = append(plan.Galleries, GalleryVisibility{GalleryID: *next.GalleryID, IsPublic: next.IsPublic})
	}
	return plan
}
