package service_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/mocks"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fixture wires in-memory stores and a sqlmock database whose only job is
// to observe transaction boundaries.
type fixture struct {
	db          *sql.DB
	sql         sqlmock.Sqlmock
	explorers   *mocks.MockExplorerStore
	experiences *mocks.MockExperienceStore
	narratives  *mocks.MockNarrativeStore
	galleries   *mocks.MockGalleryStore
	featured    *mocks.MockFeaturedStore
	credentials *mocks.MockCredentials
	tokens      *mocks.MockJWTService
	logs        *logger.TestLogBuffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	f := &fixture{
		db:          db,
		sql:         mock,
		explorers:   mocks.NewMockExplorerStore(),
		experiences: mocks.NewMockExperienceStore(),
		narratives:  mocks.NewMockNarrativeStore(),
		galleries:   mocks.NewMockGalleryStore(),
		featured:    &mocks.MockFeaturedStore{},
		credentials: &mocks.MockCredentials{},
		tokens:      &mocks.MockJWTService{},
	}
	f.narratives.Experiences = f.experiences.Experiences
	return f
}

func (f *fixture) stores() service.Stores {
	return service.Stores{
		Explorers:   f.explorers,
		Experiences: f.experiences,
		Narratives:  f.narratives,
		Galleries:   f.galleries,
		Featured:    f.featured,
	}
}

func (f *fixture) expectCommit() {
	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
}

func (f *fixture) experienceService(t *testing.T) service.ExperienceService {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	f.logs = buf
	svc, err := service.NewExperienceService(f.stores(), f.credentials, f.tokens, f.db, 6, log)
	require.NoError(t, err)
	return svc
}

func (f *fixture) narrativeService(t *testing.T, pageSize int) service.NarrativeService {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	f.logs = buf
	svc, err := service.NewNarrativeService(f.stores(), f.db, pageSize, log)
	require.NoError(t, err)
	return svc
}

func (f *fixture) galleryService(t *testing.T) service.GalleryService {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	f.logs = buf
	svc, err := service.NewGalleryService(f.stores(), f.db, log)
	require.NoError(t, err)
	return svc
}

// addExperience stores an experience by author with the given comrades.
func (f *fixture) addExperience(t *testing.T, author uuid.UUID, public bool, comrades ...uuid.UUID) *domain.Experience {
	t.Helper()
	e, err := domain.NewExperience(author, "Walk the Camino", "", "", public, time.Time{})
	require.NoError(t, err)
	e.ComradeIDs = append(e.ComradeIDs, comrades...)
	f.experiences.Experiences[e.ID] = e
	return e
}

// addNarrative stores a narrative created at the given offset from a fixed base.
func (f *fixture) addNarrative(
	t *testing.T,
	e *domain.Experience,
	author uuid.UUID,
	public bool,
	offset time.Duration,
) *domain.Narrative {
	t.Helper()
	base := time.Date(2013, 6, 1, 12, 0, 0, 0, time.UTC)
	n, err := domain.NewNarrative(e, author, "Day", "Walked twenty kilometres.", "", &public, base.Add(offset))
	require.NoError(t, err)
	f.narratives.Narratives[n.ID] = n
	return n
}

// addGallery stores a gallery for owner and returns its id.
func (f *fixture) addGallery(kind domain.EntityKind, owner uuid.UUID, public bool) uuid.UUID {
	g := &domain.Gallery{ID: uuid.New(), OwnerKind: kind, OwnerID: owner, Title: "photos", IsPublic: public}
	f.galleries.Galleries[g.ID] = g
	return g.ID
}
