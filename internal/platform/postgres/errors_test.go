package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/places-api/internal/platform/postgres"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		Detail:         "Key (email)=(secret@example.com) already exists.",
		TableName:      "users",
		ColumnName:     "email",
		ConstraintName: "users_email_key",
	}
}

// MockResult implements sql.Result for testing
type MockResult struct {
	rowsAffected int64
	err          error
}

func (m MockResult) LastInsertId() (int64, error) {
	return 0, m.err
}

func (m MockResult) RowsAffected() (int64, error) {
	return m.rowsAffected, m.err
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique violation", newPgError("23505"), store.ErrDuplicate},
		{"foreign key violation", newPgError("23503"), store.ErrInvalidEntity},
		{"check violation", newPgError("23514"), store.ErrInvalidEntity},
		{"not null violation", newPgError("23502"), store.ErrInvalidEntity},
		{"wrapped unique violation", fmt.Errorf("insert: %w", newPgError("23505")), store.ErrDuplicate},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := postgres.MapError(tc.err)
			assert.ErrorIs(t, mapped, tc.target)
			assert.NotContains(t, mapped.Error(), "secret@example.com",
				"mapped error must not carry row details")
		})
	}

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("unmapped error passes through", func(t *testing.T) {
		t.Parallel()
		original := errors.New("connection reset")
		assert.Same(t, original, postgres.MapError(original))
	})
}

func TestConstraintViolationHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503")))
	assert.False(t, postgres.IsUniqueViolation(errors.New("plain")))

	assert.True(t, postgres.IsForeignKeyViolation(fmt.Errorf("wrap: %w", newPgError("23503"))))
	assert.False(t, postgres.IsForeignKeyViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	require.NoError(t, postgres.CheckRowsAffected(MockResult{rowsAffected: 1}, store.ErrPlaceNotFound))

	err := postgres.CheckRowsAffected(MockResult{rowsAffected: 0}, store.ErrPlaceNotFound)
	assert.ErrorIs(t, err, store.ErrPlaceNotFound)

	err = postgres.CheckRowsAffected(MockResult{rowsAffected: 0}, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = postgres.CheckRowsAffected(MockResult{err: errors.New("driver failure")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get rows affected")

	assert.Error(t, postgres.CheckRowsAffected(nil, nil))
}
