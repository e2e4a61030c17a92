package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/acressity/acressity-api/internal/api/middleware"
	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/mocks"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/acressity/acressity-api/internal/service/auth"
	"github.com/google/uuid"
)

var errNotStubbed = errors.New("not stubbed")

type stubExplorerService struct {
	RegisterFn       func(ctx context.Context, in service.RegisterInput) (*domain.Explorer, error)
	AuthenticateFn   func(ctx context.Context, email, password string) (*domain.Explorer, error)
	ChangePasswordFn func(ctx context.Context, viewer domain.Viewer, current, new1, new2 string) error
	GetExplorerFn    func(ctx context.Context, id uuid.UUID) (*domain.Explorer, error)
}

func (s *stubExplorerService) Register(ctx context.Context, in service.RegisterInput) (*domain.Explorer, error) {
	if s.RegisterFn == nil {
		return nil, errNotStubbed
	}
	return s.RegisterFn(ctx, in)
}

func (s *stubExplorerService) Authenticate(ctx context.Context, email, password string) (*domain.Explorer, error) {
	if s.AuthenticateFn == nil {
		return nil, errNotStubbed
	}
	return s.AuthenticateFn(ctx, email, password)
}

func (s *stubExplorerService) ChangePassword(ctx context.Context, viewer domain.Viewer, current, new1, new2 string) error {
	if s.ChangePasswordFn == nil {
		return errNotStubbed
	}
	return s.ChangePasswordFn(ctx, viewer, current, new1, new2)
}

func (s *stubExplorerService) GetExplorer(ctx context.Context, id uuid.UUID) (*domain.Explorer, error) {
	if s.GetExplorerFn == nil {
		return nil, errNotStubbed
	}
	return s.GetExplorerFn(ctx, id)
}

// stubExperienceService embeds the interface so tests only implement the
// methods they exercise; anything else panics.
type stubExperienceService struct {
	service.ExperienceService

	CreateFn          func(ctx context.Context, viewer domain.Viewer, in service.CreateExperienceInput) (*domain.Experience, error)
	GetFn             func(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*domain.Experience, error)
	GetBySearchTermFn func(ctx context.Context, viewer domain.Viewer, term string) (*domain.Experience, error)
	UpdateFn          func(ctx context.Context, viewer domain.Viewer, id uuid.UUID, c domain.ExperienceChanges) (*domain.Experience, error)
	DeleteFn          func(ctx context.Context, viewer domain.Viewer, id uuid.UUID) error
	SetPasswordFn     func(ctx context.Context, viewer domain.Viewer, id uuid.UUID, password string) error
	UnlockFn          func(ctx context.Context, id uuid.UUID, password string) (*service.Grant, error)
	RemoveComradeFn   func(ctx context.Context, viewer domain.Viewer, id, explorerID uuid.UUID) error
	ListByExplorerFn  func(ctx context.Context, viewer domain.Viewer, explorerID uuid.UUID) ([]*domain.Experience, error)
	FeatureFn         func(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*domain.FeaturedExperience, error)
}

func (s *stubExperienceService) Create(
	ctx context.Context,
	viewer domain.Viewer,
	in service.CreateExperienceInput,
) (*domain.Experience, error) {
	return s.CreateFn(ctx, viewer, in)
}

func (s *stubExperienceService) Get(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*domain.Experience, error) {
	return s.GetFn(ctx, viewer, id)
}

func (s *stubExperienceService) GetBySearchTerm(
	ctx context.Context,
	viewer domain.Viewer,
	term string,
) (*domain.Experience, error) {
	return s.GetBySearchTermFn(ctx, viewer, term)
}

func (s *stubExperienceService) Update(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
	c domain.ExperienceChanges,
) (*domain.Experience, error) {
	return s.UpdateFn(ctx, viewer, id, c)
}

func (s *stubExperienceService) Delete(ctx context.Context, viewer domain.Viewer, id uuid.UUID) error {
	return s.DeleteFn(ctx, viewer, id)
}

func (s *stubExperienceService) SetPassword(ctx context.Context, viewer domain.Viewer, id uuid.UUID, pw string) error {
	return s.SetPasswordFn(ctx, viewer, id, pw)
}

func (s *stubExperienceService) Unlock(ctx context.Context, id uuid.UUID, password string) (*service.Grant, error) {
	return s.UnlockFn(ctx, id, password)
}

func (s *stubExperienceService) RemoveComrade(ctx context.Context, viewer domain.Viewer, id, explorerID uuid.UUID) error {
	return s.RemoveComradeFn(ctx, viewer, id, explorerID)
}

func (s *stubExperienceService) ListByExplorer(
	ctx context.Context,
	viewer domain.Viewer,
	explorerID uuid.UUID,
) ([]*domain.Experience, error) {
	return s.ListByExplorerFn(ctx, viewer, explorerID)
}

func (s *stubExperienceService) Feature(
	ctx context.Context,
	viewer domain.Viewer,
	id uuid.UUID,
) (*domain.FeaturedExperience, error) {
	return s.FeatureFn(ctx, viewer, id)
}

type stubNarrativeService struct {
	service.NarrativeService

	CreateFn           func(ctx context.Context, viewer domain.Viewer, expID uuid.UUID, in service.CreateNarrativeInput) (*domain.Narrative, error)
	GetFn              func(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*service.NarrativeDetail, error)
	DeleteFn           func(ctx context.Context, viewer domain.Viewer, id uuid.UUID, confirm bool) error
	ListByExperienceFn func(ctx context.Context, viewer domain.Viewer, expID uuid.UUID, page string) (*service.NarrativePage, error)
}

func (s *stubNarrativeService) Create(
	ctx context.Context,
	viewer domain.Viewer,
	expID uuid.UUID,
	in service.CreateNarrativeInput,
) (*domain.Narrative, error) {
	return s.CreateFn(ctx, viewer, expID, in)
}

func (s *stubNarrativeService) Get(ctx context.Context, viewer domain.Viewer, id uuid.UUID) (*service.NarrativeDetail, error) {
	return s.GetFn(ctx, viewer, id)
}

func (s *stubNarrativeService) Delete(ctx context.Context, viewer domain.Viewer, id uuid.UUID, confirm bool) error {
	return s.DeleteFn(ctx, viewer, id, confirm)
}

func (s *stubNarrativeService) ListByExperience(
	ctx context.Context,
	viewer domain.Viewer,
	expID uuid.UUID,
	page string,
) (*service.NarrativePage, error) {
	return s.ListByExperienceFn(ctx, viewer, expID, page)
}

type stubGalleryService struct {
	service.GalleryService
}

// testJWT accepts "token-<uuid>" bearer tokens and "grant-<uuid>" grants.
func testJWT() *mocks.MockJWTService {
	return &mocks.MockJWTService{
		Token: "issued-token",
		ValidateTokenFn: func(_ context.Context, tok string) (*auth.Claims, error) {
			id, err := uuid.Parse(strings.TrimPrefix(tok, "token-"))
			if err != nil || !strings.HasPrefix(tok, "token-") {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{ExplorerID: id, TokenType: auth.TokenTypeAccess}, nil
		},
		ValidateGrantFn: func(_ context.Context, tok string) (*auth.GrantClaims, error) {
			id, err := uuid.Parse(strings.TrimPrefix(tok, "grant-"))
			if err != nil || !strings.HasPrefix(tok, "grant-") {
				return nil, auth.ErrInvalidToken
			}
			return &auth.GrantClaims{ExperienceID: id}, nil
		},
	}
}

type testServer struct {
	explorers   *stubExplorerService
	experiences *stubExperienceService
	narratives  *stubNarrativeService
	handler     http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	ts := &testServer{
		explorers:   &stubExplorerService{},
		experiences: &stubExperienceService{},
		narratives:  &stubNarrativeService{},
	}
	ts.handler = NewRouter(RouterDeps{
		Explorers:   ts.explorers,
		Experiences: ts.experiences,
		Narratives:  ts.narratives,
		Galleries:   &stubGalleryService{},
		JWTService:  testJWT(),
		Logger:      log,
	})
	return ts
}

// do sends a request as the given explorer; uuid.Nil sends it anonymously.
func (ts *testServer) do(method, path, body string, as uuid.UUID, grants ...uuid.UUID) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if as != uuid.Nil {
		req.Header.Set("Authorization", "Bearer token-"+as.String())
	}
	for _, g := range grants {
		req.Header.Add(middleware.GrantHeader, "grant-"+g.String())
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

// doWithAuth sends a request with a raw Authorization header.
func (ts *testServer) doWithAuth(method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authorization)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func testExperience(author uuid.UUID, public bool) *domain.Experience {
	now := time.Date(2013, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Experience{
		ID:         uuid.New(),
		AuthorID:   author,
		Title:      "Walk the Camino",
		IsPublic:   public,
		ComradeIDs: []uuid.UUID{author},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
