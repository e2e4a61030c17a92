package store

import (
	"errors"
	"fmt"
)

// Error families. Implementations return the entity-specific variants below,
// which wrap these so callers can branch on the family alone.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity covers rows rejected before or by the database: failed
	// validation, a dangling reference, a violated check constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInternal marks unexpected database failures. Details never reach clients.
	ErrInternal = errors.New("internal store error")
)

var (
	ErrExplorerNotFound   = fmt.Errorf("%w: explorer", ErrNotFound)
	ErrExperienceNotFound = fmt.Errorf("%w: experience", ErrNotFound)
	ErrNarrativeNotFound  = fmt.Errorf("%w: narrative", ErrNotFound)
	ErrGalleryNotFound    = fmt.Errorf("%w: gallery", ErrNotFound)
	ErrFeaturedNotFound   = fmt.Errorf("%w: featured experience", ErrNotFound)
	ErrComradeNotFound    = fmt.Errorf("%w: comrade", ErrNotFound)
)

// Trailnames and search terms share one namespace: /x/{term} must resolve
// to an experience, never shadow an explorer.
var (
	ErrEmailExists      = fmt.Errorf("%w: email", ErrDuplicate)
	ErrTrailnameExists  = fmt.Errorf("%w: trailname", ErrDuplicate)
	ErrSearchTermExists = fmt.Errorf("%w: search term", ErrDuplicate)
	ErrComradeExists    = fmt.Errorf("%w: comrade", ErrDuplicate)
)

// IsNotFoundError reports whether err belongs to the not-found family.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err belongs to the duplicate family.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
