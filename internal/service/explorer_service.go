package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/acressity/acressity-api/internal/domain"
	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/service/auth"
	"github.com/acressity/acressity-api/internal/store"
	"github.com/google/uuid"
)

// RegisterInput carries the fields of the sign-up form.
type RegisterInput struct {
	Email     string
	Trailname string
	FirstName string
	LastName  string
	Password1 string
	Password2 string
}

// ExplorerService manages explorer accounts.
type ExplorerService interface {
	// Register validates the form, hashes the password and stores the explorer.
	Register(ctx context.Context, in RegisterInput) (*domain.Explorer, error)

	// Authenticate checks an email/password pair and returns the explorer.
	// Any mismatch yields ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.Explorer, error)

	// ChangePassword verifies the current password before storing the new one.
	ChangePassword(ctx context.Context, viewer domain.Viewer, current, new1, new2 string) error

	// GetExplorer retrieves an explorer by ID.
	GetExplorer(ctx context.Context, id uuid.UUID) (*domain.Explorer, error)
}

type explorerServiceImpl struct {
	explorers         store.ExplorerStore
	credentials       auth.Credentials
	db                *sql.DB
	minPasswordLength int
	logger            *slog.Logger
}

// NewExplorerService creates an ExplorerService. minPasswordLength comes from
// the auth configuration.
func NewExplorerService(
	explorers store.ExplorerStore,
	credentials auth.Credentials,
	db *sql.DB,
	minPasswordLength int,
	log *slog.Logger,
) (ExplorerService, error) {
	if explorers == nil {
		return nil, nilDependency("explorer", "explorers")
	}
	if credentials == nil {
		return nil, nilDependency("explorer", "credentials")
	}
	if db == nil {
		return nil, nilDependency("explorer", "db")
	}
	if log == nil {
		log = slog.Default()
	}
	if minPasswordLength <= 0 {
		minPasswordLength = domain.DefaultMinPasswordLength
	}
	return &explorerServiceImpl{
		explorers:         explorers,
		credentials:       credentials,
		db:                db,
		minPasswordLength: minPasswordLength,
		logger:            log.With("component", "explorer_service"),
	}, nil
}

// Register implements ExplorerService.
func (s *explorerServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.Explorer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateNewPassword(in.Password1, in.Password2, s.minPasswordLength); err != nil {
		return nil, err
	}
	hash, err := s.credentials.Hash(in.Password1)
	if err != nil {
		return nil, NewServiceError("explorer", "register", "failed to hash password", err)
	}
	explorer, err := domain.NewExplorer(in.Email, in.Trailname, in.FirstName, in.LastName, hash)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.explorers.WithTx(tx).Create(ctx, explorer)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration rejected: duplicate", "error", err, "trailname", explorer.Trailname)
		} else {
			log.Error("failed to register explorer", "error", err)
		}
		return nil, NewServiceError("explorer", "register", "failed to save explorer", err)
	}

	log.Info("explorer registered", "explorer_id", explorer.ID, "trailname", explorer.Trailname)
	return explorer, nil
}

// Authenticate implements ExplorerService.
func (s *explorerServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.Explorer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	explorer, err := s.explorers.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrExplorerNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("explorer", "authenticate", "failed to load explorer", err)
	}
	if err := s.credentials.Compare(explorer.HashedPassword, password); err != nil {
		log.Debug("login password mismatch", "explorer_id", explorer.ID)
		return nil, ErrInvalidCredentials
	}
	return explorer, nil
}

// ChangePassword implements ExplorerService.
func (s *explorerServiceImpl) ChangePassword(
	ctx context.Context,
	viewer domain.Viewer,
	current, new1, new2 string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if !viewer.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if err := domain.ValidatePasswordChange(new1, new2, s.minPasswordLength); err != nil {
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		explorers := s.explorers.WithTx(tx)
		explorer, err := explorers.GetByID(ctx, viewer.ExplorerID)
		if err != nil {
			return err
		}
		if err := s.credentials.Compare(explorer.HashedPassword, current); err != nil {
			return domain.NewValidationError("old_password", "Your old password was entered incorrectly", nil)
		}
		hash, err := s.credentials.Hash(new1)
		if err != nil {
			return err
		}
		return explorers.UpdatePassword(ctx, explorer.ID, hash)
	})
	if err != nil {
		if !isExpected(err) {
			log.Error("failed to change password", "error", err, "explorer_id", viewer.ExplorerID)
		}
		return NewServiceError("explorer", "change_password", "failed to change password", err)
	}

	log.Info("explorer password changed", "explorer_id", viewer.ExplorerID)
	return nil
}

// GetExplorer implements ExplorerService.
func (s *explorerServiceImpl) GetExplorer(ctx context.Context, id uuid.UUID) (*domain.Explorer, error) {
	explorer, err := s.explorers.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("explorer", "get", "failed to load explorer", err)
	}
	return explorer, nil
}
