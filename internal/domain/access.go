package domain

import "github.com/google/uuid"

// IsAuthor reports whether the viewer wrote entity.
func IsAuthor(v Viewer, entity Authored) bool {
	if entity == nil {
		return false
	}
	return v.Is(entity.Author())
}

// IsComrade reports whether the viewer shares the experience.
func IsComrade(v Viewer, e *Experience) bool {
	return v.Authenticated() && e != nil && e.HasComrade(v.ExplorerID)
}

// IsMember reports whether the viewer is the experience's author or a comrade.
func IsMember(v Viewer, e *Experience) bool {
	return IsAuthor(v, e) || IsComrade(v, e)
}

// CanReadExperience reports whether the viewer may see the experience.
func CanReadExperience(v Viewer, e *Experience) bool {
	if e == nil {
		return false
	}
	if e.IsPublic {
		return true
	}
	return IsMember(v, e) || v.HasGrant(e.ID)
}

// CanReadNarrative reports whether the viewer may see narrative n of experience e.
// A narrative is openly visible only when it and its experience are both public.
func CanReadNarrative(v Viewer, n *Narrative, e *Experience) bool {
	if n == nil || e == nil || n.ExperienceID != e.ID {
		return false
	}
	if n.IsPublic && e.IsPublic {
		return true
	}
	return IsMember(v, e) || IsAuthor(v, n) || v.HasGrant(e.ID)
}

// CanSeeAllNarratives reports whether the viewer sees private narratives
// when listing an experience.
func CanSeeAllNarratives(v Viewer, e *Experience) bool {
	return IsMember(v, e) || v.HasGrant(e.ID)
}

// CanWrite reports whether the viewer may edit or delete entity.
func CanWrite(v Viewer, entity Authored) bool {
	return IsAuthor(v, entity)
}

// CanContribute reports whether the viewer may add narratives to the experience.
func CanContribute(v Viewer, e *Experience) bool {
	return IsMember(v, e)
}

// CanRemoveComrade reports whether the viewer may remove comradeID from e.
// The author removes anyone but themself; comrades may only leave.
func CanRemoveComrade(v Viewer, e *Experience, comradeID uuid.UUID) bool {
	if comradeID == e.AuthorID {
		return false
	}
	if IsAuthor(v, e) {
		return true
	}
	return v.Is(comradeID) && IsComrade(v, e)
}

// Comrades lists the experience's comrades other than the viewer.
func Comrades(v Viewer, e *Experience) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(e.ComradeIDs))
	for _, id := range e.ComradeIDs {
		if v.Authenticated() && id == v.ExplorerID {
			continue
		}
		out = append(out, id)
	}
	return out
}
