package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
//
// A user's place list lives in user_places. Update rewrites it with several
// statements, so callers wanting atomicity run it inside a transaction via WithTx.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// bcryptCost is clamped to the range bcrypt accepts.
func NewPostgresUserStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:         tx,
		bcryptCost: s.bcryptCost,
		logger:     s.logger,
	}
}

// Create implements store.UserStore.Create
// It hashes user.Password, clears it, and inserts the user.
// Returns store.ErrEmailExists if the email is already registered.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password", slog.String("error", err.Error()))
			return store.NewStoreError("user", "create", "password hashing failed", err)
		}
		user.HashedPassword = string(hash)
		user.Password = ""
	}

	query := `
		INSERT INTO users (id, name, email, hashed_password, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Image,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("email already registered", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	for i, placeID := range user.PlaceIDs {
		if err := s.insertUserPlace(ctx, user.ID, placeID, i); err != nil {
			return err
		}
	}

	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, hashed_password, image, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.getOne(ctx, query, id)
}

// GetByIDForUpdate implements store.UserStore.GetByIDForUpdate
func (s *PostgresUserStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, hashed_password, image, created_at, updated_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`
	return s.getOne(ctx, query, id)
}

// GetByEmail implements store.UserStore.GetByEmail
// The lookup is case-insensitive. Returns store.ErrUserNotFound if no user matches.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, hashed_password, image, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`
	return s.getOne(ctx, query, email)
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}

	placeIDs, err := s.placeIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.PlaceIDs = placeIDs

	return &user, nil
}

func (s *PostgresUserStore) placeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT place_id FROM user_places WHERE user_id = $1 ORDER BY position ASC`,
		userID,
	)
	if err != nil {
		log.Error("failed to query user places",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("user", "get", "place list query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("user", "get", "place list scan failed", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "get", "place list iteration failed", err)
	}

	return ids, nil
}

// List implements store.UserStore.List
// Users come back oldest first, each with its place list.
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, hashed_password, image, created_at, updated_at
		FROM users
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "list", "query failed", MapError(err))
	}

	users := []*domain.User{}
	byID := make(map[uuid.UUID]*domain.User)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.HashedPassword,
			&user.Image,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			_ = rows.Close()
			return nil, store.NewStoreError("user", "list", "scan failed", err)
		}
		user.PlaceIDs = []uuid.UUID{}
		users = append(users, &user)
		byID[user.ID] = &user
	}
	iterErr := rows.Err()
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
	if iterErr != nil {
		return nil, store.NewStoreError("user", "list", "row iteration failed", iterErr)
	}

	placeRows, err := s.db.QueryContext(ctx, `
		SELECT user_id, place_id
		FROM user_places
		ORDER BY user_id, position ASC
	`)
	if err != nil {
		log.Error("failed to list user places", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "list", "place list query failed", MapError(err))
	}
	defer func() {
		if err := placeRows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for placeRows.Next() {
		var userID, placeID uuid.UUID
		if err := placeRows.Scan(&userID, &placeID); err != nil {
			return nil, store.NewStoreError("user", "list", "place list scan failed", err)
		}
		if user, ok := byID[userID]; ok {
			user.PlaceIDs = append(user.PlaceIDs, placeID)
		}
	}
	if err := placeRows.Err(); err != nil {
		return nil, store.NewStoreError("user", "list", "place list iteration failed", err)
	}

	log.Debug("listed users", slog.Int("count", len(users)))
	return users, nil
}

// Update implements store.UserStore.Update
// It writes the profile fields and replaces the stored place list with
// user.PlaceIDs. Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE users SET name = $1, email = $2, image = $3, updated_at = $4 WHERE id = $5`,
		user.Name,
		user.Email,
		user.Image,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "update", "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not updated",
			slog.String("user_id", user.ID.String()),
			slog.String("reason", err.Error()))
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_places WHERE user_id = $1`, user.ID); err != nil {
		log.Error("failed to clear user places",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "update", "place list clear failed", MapError(err))
	}

	for i, placeID := range user.PlaceIDs {
		if err := s.insertUserPlace(ctx, user.ID, placeID, i); err != nil {
			return err
		}
	}

	log.Info("user updated successfully",
		slog.String("user_id", user.ID.String()),
		slog.Int("place_count", len(user.PlaceIDs)))
	return nil
}

func (s *PostgresUserStore) insertUserPlace(
	ctx context.Context,
	userID, placeID uuid.UUID,
	position int,
) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO user_places (user_id, place_id, position) VALUES ($1, $2, $3)`,
		userID,
		placeID,
		position,
	)
	if err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Error("failed to insert user place",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("place_id", placeID.String()))
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: place %s", store.ErrPlaceNotFound, placeID)
		}
		return store.NewStoreError("user", "update", "place list insert failed", MapError(err))
	}
	return nil
}
