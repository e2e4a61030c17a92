package store_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/postgres"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func postgresStores(db *sql.DB) store.Stores {
	return store.Stores{
		Explorers:   postgres.NewPostgresExplorerStore(db, nil),
		Experiences: postgres.NewPostgresExperienceStore(db, nil),
		Narratives:  postgres.NewPostgresNarrativeStore(db, nil),
		Galleries:   postgres.NewPostgresGalleryStore(db, nil),
		Featured:    postgres.NewPostgresFeaturedStore(db, nil),
	}
}

// hideExperience plans the cascade for making a public experience private,
// with two public narratives of which one has a gallery, and returns the
// experience's next state and the plan.
func hideExperience(t *testing.T) (*domain.Experience, domain.VisibilityCascade) {
	t.Helper()
	created := time.Date(2013, time.June, 1, 12, 0, 0, 0, time.UTC)
	prior, err := domain.NewExperience(uuid.New(), "Walk the Camino", "", "", true, created)
	require.NoError(t, err)
	expGallery := uuid.New()
	prior.GalleryID = &expGallery

	public := true
	var narratives []*domain.Narrative
	for i := 0; i < 2; i++ {
		n, err := domain.NewNarrative(prior, prior.AuthorID, "Day", "Walked.", "", &public, created)
		require.NoError(t, err)
		narratives = append(narratives, n)
	}
	narGallery := uuid.New()
	narratives[0].GalleryID = &narGallery

	private := false
	next, err := prior.WithChanges(domain.ExperienceChanges{IsPublic: &private})
	require.NoError(t, err)

	plan := domain.PlanExperienceCascade(prior, next, narratives)
	require.Len(t, plan.Narratives, 2)
	require.Len(t, plan.Galleries, 2)
	return next, plan
}

// applyThenSave writes plan and then the owner through transaction-bound stores.
func applyThenSave(e *domain.Experience, plan domain.VisibilityCascade) store.StoresFn {
	return func(ctx context.Context, stores store.Stores) error {
		if err := stores.Narratives.MakePrivate(ctx, plan.Narratives); err != nil {
			return err
		}
		for _, g := range plan.Galleries {
			if err := stores.Galleries.SetVisibility(ctx, g.GalleryID, g.IsPublic); err != nil {
				return err
			}
		}
		return stores.Experiences.Update(ctx, e)
	}
}

func TestAtomically_VisibilityCascade(t *testing.T) {
	ctx := context.Background()

	t.Run("commits every write", func(t *testing.T) {
		db, mock := newMockDB(t)
		next, plan := hideExperience(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE narratives SET is_public = FALSE`)).
			WithArgs(plan.Narratives[0].String() + "," + plan.Narratives[1].String()).
			WillReturnResult(sqlmock.NewResult(0, 2))
		for _, g := range plan.Galleries {
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE galleries SET is_public = $1`)).
				WithArgs(false, g.GalleryID.String()).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE experiences`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, store.Atomically(ctx, db, postgresStores(db), applyThenSave(next, plan)))
	})

	t.Run("failed owner update rolls back the cascade", func(t *testing.T) {
		db, mock := newMockDB(t)
		next, plan := hideExperience(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE narratives SET is_public = FALSE`)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		for range plan.Galleries {
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE galleries SET is_public = $1`)).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		// The experience vanished under us: no row updated.
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE experiences`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.Atomically(ctx, db, postgresStores(db), applyThenSave(next, plan))
		assert.ErrorIs(t, err, store.ErrExperienceNotFound)
	})

	t.Run("failed gallery write stops before the owner", func(t *testing.T) {
		db, mock := newMockDB(t)
		next, plan := hideExperience(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE narratives SET is_public = FALSE`)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE galleries SET is_public = $1`)).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := store.Atomically(ctx, db, postgresStores(db), applyThenSave(next, plan))
		assert.Error(t, err)
	})
}

func TestRunInTransaction(t *testing.T) {
	ctx := context.Background()
	noop := func(ctx context.Context, tx *sql.Tx) error { return nil }

	t.Run("begin fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		beginErr := errors.New("too many connections")
		mock.ExpectBegin().WillReturnError(beginErr)

		err := store.RunInTransaction(ctx, db, noop)
		assert.ErrorIs(t, err, beginErr)
		assert.Contains(t, err.Error(), "begin transaction")
	})

	t.Run("commit fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		commitErr := errors.New("serialization failure")
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(commitErr)

		err := store.RunInTransaction(ctx, db, noop)
		assert.ErrorIs(t, err, commitErr)
		assert.Contains(t, err.Error(), "commit transaction")
	})

	t.Run("rollback fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("connection lost"))

		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return domain.ErrPermissionDenied
		})
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Contains(t, err.Error(), "connection lost")
	})

	t.Run("panic rolls back and re-panics", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "cascade exploded", func() {
			_ = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
				panic("cascade exploded")
			})
		})
	})
}

func TestStoresMissing(t *testing.T) {
	db, _ := newMockDB(t)
	full := postgresStores(db)
	assert.Empty(t, full.Missing())

	partial := full
	partial.Galleries = nil
	assert.Equal(t, "galleries", partial.Missing())

	assert.Equal(t, "explorers", store.Stores{}.Missing())
}
