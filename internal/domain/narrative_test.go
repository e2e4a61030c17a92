package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNarrativeDefaults(t *testing.T) {
	author := uuid.New()
	privateExp := newTestExperience(t, author, false)
	created := time.Date(2013, time.March, 7, 10, 0, 0, 0, time.UTC)

	n, err := domain.NewNarrative(privateExp, author, "   ", "body", "", nil, created)
	require.NoError(t, err)
	assert.Equal(t, "March 07, 2013", n.Title)
	assert.False(t, n.IsPublic, "inherits experience visibility")
	assert.Equal(t, domain.KindNarrative, n.Kind())
	assert.Equal(t, author, n.Author())

	n, err = domain.NewNarrative(privateExp, author, "Day", "body", "", ptr(true), time.Time{})
	require.NoError(t, err)
	assert.True(t, n.IsPublic)
	assert.WithinDuration(t, time.Now(), n.CreatedAt, time.Minute)
}

func TestNewNarrativeValidation(t *testing.T) {
	author := uuid.New()
	exp := newTestExperience(t, author, true)

	_, err := domain.NewNarrative(nil, author, "t", "b", "", nil, time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = domain.NewNarrative(exp, author, strings.Repeat("x", 201), "b", "", nil, time.Time{})
	assert.True(t, domain.IsValidationError(err))

	_, err = domain.NewNarrative(exp, author, "t", "b", strings.Repeat("c", 51), nil, time.Time{})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category", ve.Field)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", domain.Excerpt("short", 250))

	exact := strings.Repeat("a", 250)
	assert.Equal(t, exact, domain.Excerpt(exact, 250))

	long := strings.Repeat("b", 300)
	assert.Equal(t, strings.Repeat("b", 250)+"...", domain.Excerpt(long, 250))

	runes := strings.Repeat("é", 260)
	got := domain.Excerpt(runes, 250)
	assert.Equal(t, strings.Repeat("é", 250)+"...", got)

	assert.Equal(t, "...", domain.Excerpt("abc", 0))
}

func TestNarrativeWithChangesKeepsPrior(t *testing.T) {
	author := uuid.New()
	exp := newTestExperience(t, author, true)
	n := newTestNarrative(t, exp, author, true)

	next, err := n.WithChanges(domain.NarrativeChanges{Title: ptr(""), IsPublic: ptr(false)})
	require.NoError(t, err)
	assert.True(t, n.IsPublic)
	assert.False(t, next.IsPublic)
	assert.Equal(t, domain.DefaultNarrativeTitle(n.CreatedAt), next.Title)
}

func TestNarrativeSummary(t *testing.T) {
	author := uuid.New()
	exp := newTestExperience(t, author, true)
	n, err := domain.NewNarrative(exp, author, "Day", strings.Repeat("z", 400), "walk", nil, time.Time{})
	require.NoError(t, err)

	s := n.Summary()
	assert.Equal(t, n.ID, s.ID)
	assert.Equal(t, exp.ID, s.ExperienceID)
	assert.Len(t, s.Excerpt, 253)
	assert.Equal(t, "walk", s.Category)
}
