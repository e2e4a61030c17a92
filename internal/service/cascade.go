package service

import (
	"context"
	"fmt"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/store"
)

// applyCascade writes a visibility plan through transaction-bound stores.
// It must run inside the owning record's transaction, before the owner's own
// update, so a failure anywhere rolls everything back.
func applyCascade(
	ctx context.Context,
	narratives store.NarrativeStore,
	galleries store.GalleryStore,
	plan domain.VisibilityCascade,
) error {
	if plan.Empty() {
		return nil
	}
	log := logger.FromContext(ctx)

	if len(plan.Narratives) > 0 {
		if err := narratives.MakePrivate(ctx, plan.Narratives); err != nil {
			return fmt.Errorf("cascade narratives: %w", err)
		}
	}
	for _, g := range plan.Galleries {
		if err := galleries.SetVisibility(ctx, g.GalleryID, g.IsPublic); err != nil {
			return fmt.Errorf("cascade gallery %s: %w", g.GalleryID, err)
		}
	}

	log.Info("applied visibility cascade",
		"narratives_hidden", len(plan.Narratives),
		"galleries_updated", len(plan.Galleries))
	return nil
}
