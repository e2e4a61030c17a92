package domain

// EntityKind tags every entity with its type so callers never need to
// inspect Go types to tell an experience from a narrative.
type EntityKind string

// Known entity kinds.
const (
	KindExplorer   EntityKind = "explorer"
	KindExperience EntityKind = "experience"
	KindNarrative  EntityKind = "narrative"
	KindGallery    EntityKind = "gallery"
)

// IsGalleryOwner reports whether entities of this kind may own a gallery.
func (k EntityKind) IsGalleryOwner() bool {
	return k == KindExperience || k == KindNarrative
}

func (k EntityKind) String() string {
	return string(k)
}
