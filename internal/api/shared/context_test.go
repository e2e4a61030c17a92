package shared

import (
	"context"
	"testing"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestViewerFromContext(t *testing.T) {
	t.Parallel()

	assert.False(t, ViewerFromContext(context.Background()).Authenticated())

	id := uuid.New()
	ctx := WithViewer(context.Background(), domain.ExplorerViewer(id))
	assert.True(t, ViewerFromContext(ctx).Is(id))
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	a := GetTraceID(SetTraceID(context.Background()))
	b := GetTraceID(SetTraceID(context.Background()))
	assert.Len(t, a, TraceIDLength*2)
	assert.NotEqual(t, a, b)
}
