package domain

import "github.com/google/uuid"

// Viewer identifies who is asking. The zero value is an anonymous visitor.
// Grants lists the experiences whose password gate the viewer has passed.
type Viewer struct {
	ExplorerID uuid.UUID
	Grants     []uuid.UUID
}

// Anonymous returns a viewer with no identity and no grants.
func Anonymous() Viewer {
	return Viewer{}
}

// ExplorerViewer returns a signed-in viewer.
func ExplorerViewer(id uuid.UUID) Viewer {
	return Viewer{ExplorerID: id}
}

// Authenticated reports whether the viewer is a signed-in explorer.
func (v Viewer) Authenticated() bool {
	return v.ExplorerID != uuid.Nil
}

// Is reports whether the viewer is the given explorer.
func (v Viewer) Is(explorerID uuid.UUID) bool {
	return v.Authenticated() && v.ExplorerID == explorerID
}

// HasGrant reports whether the viewer unlocked the experience's password gate.
func (v Viewer) HasGrant(experienceID uuid.UUID) bool {
	if experienceID == uuid.Nil {
		return false
	}
	for _, g := range v.Grants {
		if g == experienceID {
			return true
		}
	}
	return false
}

// WithGrant returns a copy of the viewer holding an additional grant.
func (v Viewer) WithGrant(experienceID uuid.UUID) Viewer {
	if v.HasGrant(experienceID) {
		return v
	}
	grants := make([]uuid.UUID, 0, len(v.Grants)+1)
	grants = append(grants, v.Grants...)
	v.Grants = append(grants, experienceID)
	return v
}
