package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExperience(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	ts := newTestServer(t)
	var got service.CreateExperienceInput
	ts.experiences.CreateFn = func(_ context.Context, v domain.Viewer, in service.CreateExperienceInput) (*domain.Experience, error) {
		got = in
		e := testExperience(v.ExplorerID, in.IsPublic)
		e.Title = in.Title
		return e, nil
	}

	t.Run("anonymous is rejected", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/experiences", `{"title":"Walk the Camino"}`, uuid.Nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("defaults to public", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/experiences", `{"title":"Walk the Camino","make_feature":true}`, author)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.True(t, got.IsPublic)
		assert.True(t, got.MakeFeature)

		var resp ExperienceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, author, resp.AuthorID)
		assert.False(t, resp.HasPassword)
	})

	t.Run("missing title", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/experiences", `{"brief":"no title"}`, author)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetExperienceHidesPasswordHash(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	exp := testExperience(author, true)
	exp.Password = "$2a$04$abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTU"
	ts := newTestServer(t)
	ts.experiences.GetFn = func(_ context.Context, _ domain.Viewer, id uuid.UUID) (*domain.Experience, error) {
		if id != exp.ID {
			return nil, store.ErrExperienceNotFound
		}
		return exp, nil
	}

	w := ts.do(http.MethodGet, "/api/experiences/"+exp.ID.String(), "", uuid.Nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "$2a$")
	assert.Contains(t, w.Body.String(), `"has_password":true`)

	w = ts.do(http.MethodGet, "/api/experiences/"+uuid.NewString(), "", uuid.Nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/experiences/not-a-uuid", "", uuid.Nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetExperienceWithGrant(t *testing.T) {
	t.Parallel()

	exp := testExperience(uuid.New(), false)
	exp.Password = "hashed"
	ts := newTestServer(t)
	ts.experiences.GetFn = func(_ context.Context, v domain.Viewer, _ uuid.UUID) (*domain.Experience, error) {
		if !domain.CanReadExperience(v, exp) {
			return nil, service.ErrPasswordRequired
		}
		return exp, nil
	}
	path := "/api/experiences/" + exp.ID.String()

	w := ts.do(http.MethodGet, path, "", uuid.Nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "password protected")

	w = ts.do(http.MethodGet, path, "", uuid.Nil, exp.ID)
	assert.Equal(t, http.StatusOK, w.Code)

	// A grant for another experience does not help.
	w = ts.do(http.MethodGet, path, "", uuid.New(), uuid.New())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnlock(t *testing.T) {
	t.Parallel()

	expID := uuid.New()
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := newTestServer(t)
	ts.experiences.UnlockFn = func(_ context.Context, id uuid.UUID, pw string) (*service.Grant, error) {
		if pw != "open-sesame" {
			return nil, service.ErrInvalidCredentials
		}
		return &service.Grant{ExperienceID: id, Token: "grant-" + id.String(), ExpiresAt: expires}, nil
	}
	path := "/api/experiences/" + expID.String() + "/unlock"

	w := ts.do(http.MethodPost, path, `{"password":"open-sesame"}`, uuid.Nil)
	require.Equal(t, http.StatusOK, w.Code)
	var grant service.Grant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grant))
	assert.Equal(t, expID, grant.ExperienceID)
	assert.Equal(t, "grant-"+expID.String(), grant.Token)

	w = ts.do(http.MethodPost, path, `{"password":"guess"}`, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, path, `{}`, uuid.Nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateExperience(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	exp := testExperience(author, true)
	ts := newTestServer(t)
	var got domain.ExperienceChanges
	ts.experiences.UpdateFn = func(
		_ context.Context,
		v domain.Viewer,
		_ uuid.UUID,
		c domain.ExperienceChanges,
	) (*domain.Experience, error) {
		if !domain.CanWrite(v, exp) {
			return nil, domain.ErrPermissionDenied
		}
		got = c
		return exp.WithChanges(c)
	}
	path := "/api/experiences/" + exp.ID.String()

	w := ts.do(http.MethodPut, path, `{"is_public":false}`, author)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, got.IsPublic)
	assert.False(t, *got.IsPublic)
	assert.Nil(t, got.Title)

	w = ts.do(http.MethodPut, path, `{"is_public":false}`, uuid.New())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteExperienceAndComrades(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	comrade := uuid.New()
	exp := testExperience(author, true)
	ts := newTestServer(t)
	ts.experiences.DeleteFn = func(_ context.Context, v domain.Viewer, _ uuid.UUID) error {
		if !domain.CanWrite(v, exp) {
			return domain.ErrPermissionDenied
		}
		return nil
	}
	var removed uuid.UUID
	ts.experiences.RemoveComradeFn = func(_ context.Context, v domain.Viewer, _, explorerID uuid.UUID) error {
		removed = explorerID
		return nil
	}

	w := ts.do(http.MethodDelete, "/api/experiences/"+exp.ID.String(), "", comrade)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = ts.do(http.MethodDelete, "/api/experiences/"+exp.ID.String(), "", author)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(http.MethodDelete, "/api/experiences/"+exp.ID.String()+"/comrades/"+comrade.String(), "", comrade)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, comrade, removed)
}

func TestGetBySearchTerm(t *testing.T) {
	t.Parallel()

	exp := testExperience(uuid.New(), true)
	ts := newTestServer(t)
	ts.experiences.GetBySearchTermFn = func(_ context.Context, _ domain.Viewer, term string) (*domain.Experience, error) {
		if term == "camino" {
			return exp, nil
		}
		return nil, store.ErrExperienceNotFound
	}

	w := ts.do(http.MethodGet, "/api/x/camino", "", uuid.Nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(http.MethodGet, "/api/x/everest", "", uuid.Nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeature(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	exp := testExperience(author, true)
	ts := newTestServer(t)
	ts.experiences.FeatureFn = func(_ context.Context, v domain.Viewer, _ uuid.UUID) (*domain.FeaturedExperience, error) {
		return domain.NewFeaturedExperience(v.ExplorerID, exp)
	}
	path := "/api/experiences/" + exp.ID.String() + "/feature"

	w := ts.do(http.MethodPost, path, "", author)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp FeaturedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, exp.ID, resp.ExperienceID)

	w = ts.do(http.MethodPost, path, "", uuid.New())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListNarrativesPagination(t *testing.T) {
	t.Parallel()

	expID := uuid.New()
	ts := newTestServer(t)
	var gotPage string
	ts.narratives.ListByExperienceFn = func(
		_ context.Context,
		_ domain.Viewer,
		_ uuid.UUID,
		page string,
	) (*service.NarrativePage, error) {
		gotPage = page
		p := domain.ResolvePage(page, 25, 10)
		return &service.NarrativePage{Page: p}, nil
	}

	w := ts.do(http.MethodGet, "/api/experiences/"+expID.String()+"/narratives?page=99", "", uuid.Nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "99", gotPage)

	var resp NarrativePageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Page.Number)
	assert.False(t, resp.HasNext)
	assert.True(t, resp.HasPrevious)
	assert.NotNil(t, resp.Narratives)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/health", "", uuid.Nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
