package testdb

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/phrazzld/places-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// Environment variables checked, in order, for the test database URL.
const (
	EnvTestDatabaseURL = "PLACES_TEST_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// TestTimeout bounds connection checks and per-test transactions.
const TestTimeout = 10 * time.Second

// GetTestDatabaseURL returns the first configured test database URL, or "".
func GetTestDatabaseURL() string {
	for _, name := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// MaskDatabaseURL hides the password of a database URL for safe logging.
func MaskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), "xxxxx")
		}
	}
	return parsed.String()
}

// GetTestDBWithT opens the test database, applies all migrations and registers
// cleanup. The test is skipped when no database URL is set.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skipf("%s or %s not set - skipping integration test", EnvTestDatabaseURL, EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection to %s", MaskDatabaseURL(dbURL))

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	require.NoError(t, ApplyMigrations(db), "Failed to apply migrations")

	t.Cleanup(func() {
		CleanupDB(t, db)
	})

	return db
}

// ApplyMigrations runs every embedded migration that has not been applied yet.
func ApplyMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so
// tests can write freely without affecting each other.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("Warning: failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// CleanupDB closes a database connection, logging any error.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}

	if err := db.Close(); err != nil {
		t.Logf("Warning: failed to close database connection: %v", err)
	}
}
