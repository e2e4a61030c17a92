package api

import (
	"time"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/service"
	"github.com/google/uuid"
)

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Trailname string `json:"trailname"  validate:"required,max=40"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name"  validate:"max=50"`
	Password1 string `json:"password1"  validate:"required,max=72"`
	Password2 string `json:"password2"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest defines the payload for PUT /auth/password.
type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password"  validate:"required"`
	NewPassword1 string `json:"new_password1" validate:"required,max=72"`
	NewPassword2 string `json:"new_password2"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ExplorerID  uuid.UUID `json:"explorer_id"`
	Trailname   string    `json:"trailname"`
	AccessToken string    `json:"token"`
}

// ExplorerResponse is the public profile of an explorer. Email is only
// included for the explorer themselves.
type ExplorerResponse struct {
	ID        uuid.UUID `json:"id"`
	Trailname string    `json:"trailname"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func explorerToResponse(e *domain.Explorer, viewer domain.Viewer) ExplorerResponse {
	resp := ExplorerResponse{
		ID:        e.ID,
		Trailname: e.Trailname,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		CreatedAt: e.CreatedAt,
	}
	if viewer.Is(e.ID) {
		resp.Email = e.Email
	}
	return resp
}

func explorersToResponse(explorers []*domain.Explorer, viewer domain.Viewer) []ExplorerResponse {
	out := make([]ExplorerResponse, 0, len(explorers))
	for _, e := range explorers {
		out = append(out, explorerToResponse(e, viewer))
	}
	return out
}

// CreateExperienceRequest defines the payload for POST /experiences.
type CreateExperienceRequest struct {
	Title       string     `json:"title"        validate:"required,max=200"`
	Brief       string     `json:"brief"`
	Status      string     `json:"status"       validate:"max=160"`
	IsPublic    *bool      `json:"is_public"`
	MakeFeature bool       `json:"make_feature"`
	CreatedAt   *time.Time `json:"created_at"`
}

func (req CreateExperienceRequest) toInput() service.CreateExperienceInput {
	in := service.CreateExperienceInput{
		Title:       req.Title,
		Brief:       req.Brief,
		Status:      req.Status,
		IsPublic:    true,
		MakeFeature: req.MakeFeature,
	}
	if req.IsPublic != nil {
		in.IsPublic = *req.IsPublic
	}
	if req.CreatedAt != nil {
		in.CreatedAt = *req.CreatedAt
	}
	return in
}

// UpdateExperienceRequest defines the payload for PUT /experiences/{id}.
// Omitted fields are left unchanged.
type UpdateExperienceRequest struct {
	Title      *string `json:"title"       validate:"omitempty,max=200"`
	Brief      *string `json:"brief"`
	Status     *string `json:"status"      validate:"omitempty,max=160"`
	IsPublic   *bool   `json:"is_public"`
	SearchTerm *string `json:"search_term" validate:"omitempty,max=80"`
}

func (req UpdateExperienceRequest) toChanges() domain.ExperienceChanges {
	return domain.ExperienceChanges{
		Title:      req.Title,
		Brief:      req.Brief,
		Status:     req.Status,
		IsPublic:   req.IsPublic,
		SearchTerm: req.SearchTerm,
	}
}

// PasswordRequest carries an experience password, for both setting the
// gate and unlocking it.
type PasswordRequest struct {
	Password string `json:"password" validate:"required,max=72"`
}

// ComradeRequest names the explorer to add as a comrade.
type ComradeRequest struct {
	ExplorerID uuid.UUID `json:"explorer_id" validate:"required"`
}

// ExperienceResponse is the API view of an experience. The password hash is
// never exposed; HasPassword reports whether the gate is set.
type ExperienceResponse struct {
	ID          uuid.UUID   `json:"id"`
	AuthorID    uuid.UUID   `json:"author_id"`
	Title       string      `json:"title"`
	Brief       string      `json:"brief,omitempty"`
	Status      string      `json:"status,omitempty"`
	IsPublic    bool        `json:"is_public"`
	HasPassword bool        `json:"has_password"`
	SearchTerm  *string     `json:"search_term,omitempty"`
	GalleryID   *uuid.UUID  `json:"gallery_id,omitempty"`
	ComradeIDs  []uuid.UUID `json:"comrade_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func experienceToResponse(e *domain.Experience) ExperienceResponse {
	comrades := e.ComradeIDs
	if comrades == nil {
		comrades = []uuid.UUID{}
	}
	return ExperienceResponse{
		ID:          e.ID,
		AuthorID:    e.AuthorID,
		Title:       e.Title,
		Brief:       e.Brief,
		Status:      e.Status,
		IsPublic:    e.IsPublic,
		HasPassword: e.HasPassword(),
		SearchTerm:  e.SearchTerm,
		GalleryID:   e.GalleryID,
		ComradeIDs:  comrades,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func experiencesToResponse(experiences []*domain.Experience) []ExperienceResponse {
	out := make([]ExperienceResponse, 0, len(experiences))
	for _, e := range experiences {
		out = append(out, experienceToResponse(e))
	}
	return out
}

// FeaturedResponse confirms a feature.
type FeaturedResponse struct {
	ExplorerID   uuid.UUID `json:"explorer_id"`
	ExperienceID uuid.UUID `json:"experience_id"`
	FeaturedAt   time.Time `json:"featured_at"`
}

// CreateNarrativeRequest defines the payload for POST /experiences/{id}/narratives.
// A missing is_public inherits the experience's visibility.
type CreateNarrativeRequest struct {
	Title     string     `json:"title"     validate:"max=200"`
	Body      string     `json:"body"      validate:"required"`
	Category  string     `json:"category"  validate:"max=50"`
	IsPublic  *bool      `json:"is_public"`
	CreatedAt *time.Time `json:"created_at"`
}

func (req CreateNarrativeRequest) toInput() service.CreateNarrativeInput {
	in := service.CreateNarrativeInput{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		IsPublic: req.IsPublic,
	}
	if req.CreatedAt != nil {
		in.CreatedAt = *req.CreatedAt
	}
	return in
}

// UpdateNarrativeRequest defines the payload for PUT /narratives/{id}.
type UpdateNarrativeRequest struct {
	Title    *string `json:"title"    validate:"omitempty,max=200"`
	Body     *string `json:"body"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	IsPublic *bool   `json:"is_public"`
}

func (req UpdateNarrativeRequest) toChanges() domain.NarrativeChanges {
	return domain.NarrativeChanges{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		IsPublic: req.IsPublic,
	}
}

// NarrativeResponse is a narrative with links to its neighbours.
type NarrativeResponse struct {
	*domain.Narrative
	PreviousID *uuid.UUID `json:"previous_id,omitempty"`
	NextID     *uuid.UUID `json:"next_id,omitempty"`
}

// NarrativePageResponse is one page of narrative summaries.
type NarrativePageResponse struct {
	Narratives  []domain.NarrativeSummary `json:"narratives"`
	Page        domain.Page               `json:"page"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

func narrativePageToResponse(p *service.NarrativePage) NarrativePageResponse {
	items := p.Items
	if items == nil {
		items = []domain.NarrativeSummary{}
	}
	return NarrativePageResponse{
		Narratives:  items,
		Page:        p.Page,
		HasNext:     p.Page.HasNext(),
		HasPrevious: p.Page.HasPrevious(),
	}
}
