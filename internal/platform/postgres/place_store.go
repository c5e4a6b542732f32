package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/store"
)

const placeColumns = `id, creator_id, title, description, address, lat, lng, image, created_at, updated_at`

// PostgresPlaceStore implements the store.PlaceStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPlaceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPlaceStore creates a new PostgreSQL implementation of the PlaceStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPlaceStore(db store.DBTX, logger *slog.Logger) *PostgresPlaceStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPlaceStore{
		db:     db,
		logger: logger.With(slog.String("component", "place_store")),
	}
}

// Ensure PostgresPlaceStore implements store.PlaceStore interface
var _ store.PlaceStore = (*PostgresPlaceStore)(nil)

// WithTx implements store.PlaceStore.WithTx
// It returns a new PlaceStore instance that uses the provided transaction.
func (s *PostgresPlaceStore) WithTx(tx *sql.Tx) store.PlaceStore {
	return &PostgresPlaceStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlace(row rowScanner) (*domain.Place, error) {
	var place domain.Place
	err := row.Scan(
		&place.ID,
		&place.CreatorID,
		&place.Title,
		&place.Description,
		&place.Address,
		&place.Location.Lat,
		&place.Location.Lng,
		&place.Image,
		&place.CreatedAt,
		&place.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &place, nil
}

// Create implements store.PlaceStore.Create
// Returns validation errors from the domain Place if data is invalid.
// Returns store.ErrUserNotFound if the creator does not exist.
func (s *PostgresPlaceStore) Create(ctx context.Context, place *domain.Place) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := place.Validate(); err != nil {
		log.Warn("place validation failed during create",
			slog.String("error", err.Error()),
			slog.String("place_id", place.ID.String()))
		return err
	}

	query := `
		INSERT INTO places (` + placeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		place.ID,
		place.CreatorID,
		place.Title,
		place.Description,
		place.Address,
		place.Location.Lat,
		place.Location.Lng,
		place.Image,
		place.CreatedAt,
		place.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("creator not found during place creation",
				slog.String("place_id", place.ID.String()),
				slog.String("creator_id", place.CreatorID.String()))
			return fmt.Errorf("%w: creator %s", store.ErrUserNotFound, place.CreatorID)
		}

		log.Error("failed to create place",
			slog.String("error", err.Error()),
			slog.String("place_id", place.ID.String()))
		return store.NewStoreError("place", "create", "insert failed", MapError(err))
	}

	log.Info("place created successfully",
		slog.String("place_id", place.ID.String()),
		slog.String("creator_id", place.CreatorID.String()))
	return nil
}

// GetByID implements store.PlaceStore.GetByID
// Returns store.ErrPlaceNotFound if the place does not exist.
func (s *PostgresPlaceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving place by ID", slog.String("place_id", id.String()))

	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`

	place, err := scanPlace(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("place not found", slog.String("place_id", id.String()))
			return nil, store.ErrPlaceNotFound
		}
		log.Error("failed to get place by ID",
			slog.String("error", err.Error()),
			slog.String("place_id", id.String()))
		return nil, store.NewStoreError("place", "get", "query failed", MapError(err))
	}

	return place, nil
}

// ListByCreator implements store.PlaceStore.ListByCreator
// Places come back oldest first. An empty slice is returned when the user has none.
func (s *PostgresPlaceStore) ListByCreator(
	ctx context.Context,
	creatorID uuid.UUID,
) ([]*domain.Place, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("listing places by creator", slog.String("creator_id", creatorID.String()))

	query := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE creator_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		log.Error("failed to query places by creator",
			slog.String("error", err.Error()),
			slog.String("creator_id", creatorID.String()))
		return nil, store.NewStoreError("place", "list", "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	places := []*domain.Place{}
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			log.Error("failed to scan place row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("place", "list", "scan failed", err)
		}
		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("place", "list", "row iteration failed", err)
	}

	log.Debug("listed places by creator",
		slog.String("creator_id", creatorID.String()),
		slog.Int("count", len(places)))
	return places, nil
}

// Update implements store.PlaceStore.Update
// Only title, description and updated_at are written; the rest is immutable.
// Returns store.ErrPlaceNotFound if the place does not exist.
func (s *PostgresPlaceStore) Update(ctx context.Context, place *domain.Place) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := place.Validate(); err != nil {
		log.Warn("place validation failed during update",
			slog.String("error", err.Error()),
			slog.String("place_id", place.ID.String()))
		return err
	}

	query := `
		UPDATE places
		SET title = $1, description = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		place.Title,
		place.Description,
		place.UpdatedAt,
		place.ID,
	)
	if err != nil {
		log.Error("failed to update place",
			slog.String("error", err.Error()),
			slog.String("place_id", place.ID.String()))
		return store.NewStoreError("place", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrPlaceNotFound); err != nil {
		log.Debug("place not updated",
			slog.String("place_id", place.ID.String()),
			slog.String("reason", err.Error()))
		return err
	}

	log.Info("place updated successfully", slog.String("place_id", place.ID.String()))
	return nil
}

// Delete implements store.PlaceStore.Delete
// Returns store.ErrPlaceNotFound if the place does not exist.
func (s *PostgresPlaceStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete place",
			slog.String("error", err.Error()),
			slog.String("place_id", id.String()))
		return store.NewStoreError("place", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrPlaceNotFound); err != nil {
		log.Debug("place not deleted",
			slog.String("place_id", id.String()),
			slog.String("reason", err.Error()))
		return err
	}

	log.Info("place deleted successfully", slog.String("place_id", id.String()))
	return nil
}
