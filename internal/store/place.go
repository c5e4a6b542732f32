package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
)

// PlaceStore defines the interface for place data persistence.
type PlaceStore interface {
	// Create saves a new place.
	// Returns ErrUserNotFound if the creator does not exist.
	Create(ctx context.Context, place *domain.Place) error

	// GetByID retrieves a place by its unique ID.
	// Returns ErrPlaceNotFound if the place does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Place, error)

	// ListByCreator returns all places created by the given user.
	// Returns an empty slice if there are none; ordering is not guaranteed.
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Place, error)

	// Update saves the editable fields of an existing place.
	// Returns ErrPlaceNotFound if the place does not exist.
	Update(ctx context.Context, place *domain.Place) error

	// Delete removes a place by ID.
	// Returns ErrPlaceNotFound if the place does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new PlaceStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PlaceStore
}
