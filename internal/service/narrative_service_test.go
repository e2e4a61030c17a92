package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrativeService_Create(t *testing.T) {
	author, comrade, stranger := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name    string
		viewer  domain.Viewer
		wantErr error
	}{
		{"author", domain.ExplorerViewer(author), nil},
		{"comrade", domain.ExplorerViewer(comrade), nil},
		{"stranger", domain.ExplorerViewer(stranger), domain.ErrPermissionDenied},
		{"anonymous", domain.Anonymous(), domain.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			e := f.addExperience(t, author, false, comrade)
			svc := f.narrativeService(t, 10)
			switch {
			case tt.wantErr == nil:
				f.expectCommit()
			case tt.viewer.Authenticated():
				f.expectRollback()
			}

			n, err := svc.Create(context.Background(), tt.viewer, e.ID, service.CreateNarrativeInput{Body: "Set off at dawn."})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.narratives.Narratives)
				return
			}
			require.NoError(t, err)
			assert.False(t, n.IsPublic, "inherits experience visibility")
			assert.Equal(t, domain.DefaultNarrativeTitle(n.CreatedAt), n.Title)
			assert.Equal(t, tt.viewer.ExplorerID, n.AuthorID)
		})
	}

	t.Run("explicit visibility", func(t *testing.T) {
		f := newFixture(t)
		e := f.addExperience(t, author, false)
		f.expectCommit()
		n, err := f.narrativeService(t, 10).Create(context.Background(), domain.ExplorerViewer(author), e.ID,
			service.CreateNarrativeInput{Title: "Day one", Body: "x", IsPublic: ptr(true)})
		require.NoError(t, err)
		assert.True(t, n.IsPublic)
		assert.Equal(t, "Day one", n.Title)
	})
}

func TestNarrativeService_Get(t *testing.T) {
	author, stranger := uuid.New(), uuid.New()
	f := newFixture(t)
	svc := f.narrativeService(t, 10)
	e := f.addExperience(t, author, true)
	first := f.addNarrative(t, e, author, true, 0)
	middle := f.addNarrative(t, e, author, false, time.Hour)
	last := f.addNarrative(t, e, author, true, 2*time.Hour)

	t.Run("author sees private neighbours", func(t *testing.T) {
		d, err := svc.Get(context.Background(), domain.ExplorerViewer(author), first.ID)
		require.NoError(t, err)
		assert.Nil(t, d.Previous)
		require.NotNil(t, d.Next)
		assert.Equal(t, middle.ID, *d.Next)

		d, err = svc.Get(context.Background(), domain.ExplorerViewer(author), middle.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, *d.Previous)
		assert.Equal(t, last.ID, *d.Next)
	})

	t.Run("others skip private neighbours", func(t *testing.T) {
		d, err := svc.Get(context.Background(), domain.Anonymous(), first.ID)
		require.NoError(t, err)
		require.NotNil(t, d.Next)
		assert.Equal(t, last.ID, *d.Next)
	})

	t.Run("private narrative", func(t *testing.T) {
		_, err := svc.Get(context.Background(), domain.ExplorerViewer(stranger), middle.ID)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("public narrative of private experience", func(t *testing.T) {
		hidden := f.addExperience(t, author, false)
		n := f.addNarrative(t, hidden, author, true, 0)
		_, err := svc.Get(context.Background(), domain.Anonymous(), n.ID)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)

		_, err = svc.Get(context.Background(), domain.Anonymous().WithGrant(hidden.ID), n.ID)
		assert.NoError(t, err)
	})
}

func TestNarrativeService_Update(t *testing.T) {
	author := uuid.New()

	t.Run("visibility change follows to gallery", func(t *testing.T) {
		f := newFixture(t)
		e := f.addExperience(t, author, true)
		n := f.addNarrative(t, e, author, true, 0)
		g := f.addGallery(domain.KindNarrative, n.ID, true)
		n.GalleryID = &g

		f.expectCommit()
		updated, err := f.narrativeService(t, 10).Update(context.Background(), domain.ExplorerViewer(author), n.ID,
			domain.NarrativeChanges{IsPublic: ptr(false), Body: ptr("Rewritten.")})
		require.NoError(t, err)
		assert.False(t, updated.IsPublic)
		assert.Equal(t, "Rewritten.", f.narratives.Narratives[n.ID].Body)
		assert.False(t, f.galleries.Galleries[g].IsPublic)
	})

	t.Run("empty title falls back to date", func(t *testing.T) {
		f := newFixture(t)
		e := f.addExperience(t, author, true)
		n := f.addNarrative(t, e, author, true, 0)

		f.expectCommit()
		updated, err := f.narrativeService(t, 10).Update(context.Background(), domain.ExplorerViewer(author), n.ID,
			domain.NarrativeChanges{Title: ptr("  ")})
		require.NoError(t, err)
		assert.Equal(t, "June 01, 2013", updated.Title)
	})

	t.Run("comrade cannot edit another's narrative", func(t *testing.T) {
		f := newFixture(t)
		comrade := uuid.New()
		e := f.addExperience(t, author, true, comrade)
		n := f.addNarrative(t, e, author, true, 0)

		f.expectRollback()
		_, err := f.narrativeService(t, 10).Update(context.Background(), domain.ExplorerViewer(comrade), n.ID,
			domain.NarrativeChanges{IsPublic: ptr(false)})
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.True(t, f.narratives.Narratives[n.ID].IsPublic)
	})
}

func TestNarrativeService_Delete(t *testing.T) {
	author := uuid.New()
	f := newFixture(t)
	svc := f.narrativeService(t, 10)
	e := f.addExperience(t, author, true)
	n := f.addNarrative(t, e, author, true, 0)
	g := f.addGallery(domain.KindNarrative, n.ID, true)

	err := svc.Delete(context.Background(), domain.ExplorerViewer(author), n.ID, false)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Contains(t, f.narratives.Narratives, n.ID)

	f.expectRollback()
	err = svc.Delete(context.Background(), domain.ExplorerViewer(uuid.New()), n.ID, true)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	f.expectCommit()
	require.NoError(t, svc.Delete(context.Background(), domain.ExplorerViewer(author), n.ID, true))
	assert.NotContains(t, f.narratives.Narratives, n.ID)
	assert.NotContains(t, f.galleries.Galleries, g)
}

func TestNarrativeService_ListByExplorer(t *testing.T) {
	author := uuid.New()
	f := newFixture(t)
	svc := f.narrativeService(t, 10)
	e := f.addExperience(t, author, true)
	var newest *domain.Narrative
	for i := 0; i < 12; i++ {
		newest = f.addNarrative(t, e, author, i%4 != 0, time.Duration(i)*time.Hour)
	}

	tests := []struct {
		name      string
		viewer    domain.Viewer
		token     string
		wantPage  int
		wantItems int
		wantTotal int
	}{
		{"own first page", domain.ExplorerViewer(author), "", 1, 10, 12},
		{"own second page", domain.ExplorerViewer(author), "2", 2, 2, 12},
		{"page beyond range", domain.ExplorerViewer(author), "7", 2, 2, 12},
		{"page zero", domain.ExplorerViewer(author), "0", 2, 2, 12},
		{"not a number", domain.ExplorerViewer(author), "abc", 1, 10, 12},
		{"others see public only", domain.Anonymous(), "", 1, 9, 9},
		{"another explorer", domain.ExplorerViewer(uuid.New()), "1", 1, 9, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListByExplorer(context.Background(), tt.viewer, author, tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page.Number)
			assert.Equal(t, tt.wantTotal, page.Page.TotalItems)
			assert.Len(t, page.Items, tt.wantItems)
		})
	}

	first, err := svc.ListByExplorer(context.Background(), domain.ExplorerViewer(author), author, "")
	require.NoError(t, err)
	assert.Equal(t, newest.ID, first.Items[0].ID)

	empty, err := svc.ListByExplorer(context.Background(), domain.Anonymous(), uuid.New(), "3")
	require.NoError(t, err)
	assert.Equal(t, 1, empty.Page.Number)
	assert.Equal(t, 1, empty.Page.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestNarrativeService_ListByExplorerHidesPrivateExperiences(t *testing.T) {
	author, comrade := uuid.New(), uuid.New()
	f := newFixture(t)
	svc := f.narrativeService(t, 10)
	open := f.addExperience(t, author, true)
	closed := f.addExperience(t, author, false, comrade)
	f.addNarrative(t, open, author, true, time.Hour)
	hidden := f.addNarrative(t, closed, author, true, 2*time.Hour)

	_, err := svc.Get(context.Background(), domain.Anonymous(), hidden.ID)
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	tests := []struct {
		name      string
		viewer    domain.Viewer
		wantItems int
	}{
		{"anonymous", domain.Anonymous(), 1},
		{"stranger", domain.ExplorerViewer(uuid.New()), 1},
		{"comrade of the private experience", domain.ExplorerViewer(comrade), 2},
		{"grant holder", domain.Anonymous().WithGrant(closed.ID), 2},
		{"the explorer", domain.ExplorerViewer(author), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListByExplorer(context.Background(), tt.viewer, author, "")
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, tt.wantItems, page.Page.TotalItems)
		})
	}
}

func TestNarrativeService_ListByExperience(t *testing.T) {
	author := uuid.New()
	f := newFixture(t)
	svc := f.narrativeService(t, 2)
	e := f.addExperience(t, author, false)
	e.Password = "hashed:secret"
	for i := 0; i < 3; i++ {
		f.addNarrative(t, e, author, i != 1, time.Duration(i)*time.Hour)
	}

	_, err := svc.ListByExperience(context.Background(), domain.Anonymous(), e.ID, "")
	assert.ErrorIs(t, err, service.ErrPasswordRequired)

	page, err := svc.ListByExperience(context.Background(), domain.Anonymous().WithGrant(e.ID), e.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page.TotalItems)
	assert.Equal(t, 2, page.Page.TotalPages)
	assert.Len(t, page.Items, 2)

	f.experiences.Experiences[e.ID].IsPublic = true
	page, err = svc.ListByExperience(context.Background(), domain.Anonymous(), e.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.TotalItems)
}
