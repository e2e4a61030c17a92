//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/acressity/acressity-api/internal/platform/logger"
	"github.com/acressity/acressity-api/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
)

// URLEnv names the variable holding the test database URL.
const URLEnv = "ACRESSITY_TEST_DATABASE_URL"

// TestTimeout bounds connection checks and migrations.
const TestTimeout = 30 * time.Second

// DatabaseURL returns the test database URL, or "" when none is configured.
func DatabaseURL() string {
	return os.Getenv(URLEnv)
}

// Open connects to the test database, applies migrations and registers
// cleanup. It skips the test when no database is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := DatabaseURL()
	if dbURL == "" {
		t.Skipf("%s not set; skipping database test", URLEnv)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to reach test database at %s", maskURL(dbURL))

	log, _ := logger.GetTestLogger(t)
	require.NoError(t, postgres.Migrate(ctx, db, log), "failed to migrate test database")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// maskURL hides the password in a database URL.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
