package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/postgres"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userRowColumns = []string{
	"id", "name", "email", "hashed_password", "image", "created_at", "updated_at",
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Max", "max@example.com", "supersecret", "uploads/images/max.png")
	require.NoError(t, err)
	return user
}

func userRow(rows *sqlmock.Rows, u *domain.User) *sqlmock.Rows {
	return rows.AddRow(
		u.ID.String(), u.Name, u.Email, u.HashedPassword, u.Image, u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password before insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
		user := testUser(t)

		mock.ExpectExec("INSERT INTO users").
			WithArgs(
				user.ID, user.Name, user.Email, sqlmock.AnyArg(), user.Image,
				sqlmock.AnyArg(), sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(ctx, user))
		assert.Empty(t, user.Password, "plaintext password should be cleared")
		require.NotEmpty(t, user.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("supersecret")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectExec("INSERT INTO users").WillReturnError(newPgError("23505"))

		err := s.Create(ctx, testUser(t))
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("invalid user", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
		user := testUser(t)
		user.Email = "not-an-email"

		assert.ErrorIs(t, s.Create(ctx, user), domain.ErrInvalidEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStoreGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("loads place list", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
		user := testUser(t)
		user.HashedPassword = "$2a$04$hash"
		p1, p2 := uuid.New(), uuid.New()

		mock.ExpectQuery("FROM users\\s+WHERE id = \\$1").
			WithArgs(user.ID).
			WillReturnRows(userRow(sqlmock.NewRows(userRowColumns), user))
		mock.ExpectQuery("SELECT place_id FROM user_places").
			WithArgs(user.ID).
			WillReturnRows(sqlmock.NewRows([]string{"place_id"}).
				AddRow(p1.String()).
				AddRow(p2.String()))

		got, err := s.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, "$2a$04$hash", got.HashedPassword)
		assert.Equal(t, []uuid.UUID{p1, p2}, got.PlaceIDs)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery("FROM users").WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreGetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
	user := testUser(t)

	mock.ExpectQuery("WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
		WithArgs("MAX@example.com").
		WillReturnRows(userRow(sqlmock.NewRows(userRowColumns), user))
	mock.ExpectQuery("FROM user_places").
		WillReturnRows(sqlmock.NewRows([]string{"place_id"}))

	got, err := s.GetByEmail(context.Background(), "MAX@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotNil(t, got.PlaceIDs)
	assert.Empty(t, got.PlaceIDs)
}

func TestUserStoreList(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
	alice := testUser(t)
	bob := testUser(t)
	placeID := uuid.New()

	rows := sqlmock.NewRows(userRowColumns)
	userRow(rows, alice)
	userRow(rows, bob)
	mock.ExpectQuery("FROM users\\s+ORDER BY").WillReturnRows(rows)
	mock.ExpectQuery("FROM user_places").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "place_id"}).
			AddRow(bob.ID.String(), placeID.String()))

	users, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Empty(t, users[0].PlaceIDs)
	assert.Equal(t, []uuid.UUID{placeID}, users[1].PlaceIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces place list", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
		user := testUser(t)
		p1, p2 := uuid.New(), uuid.New()
		user.AddPlace(p1)
		user.AddPlace(p2)

		mock.ExpectExec("UPDATE users").
			WithArgs(user.Name, user.Email, user.Image, sqlmock.AnyArg(), user.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM user_places").
			WithArgs(user.ID).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("INSERT INTO user_places").
			WithArgs(user.ID, p1, 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO user_places").
			WithArgs(user.ID, p2, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Update(ctx, testUser(t)), store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("dangling place id", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
		user := testUser(t)
		user.AddPlace(uuid.New())

		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM user_places").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO user_places").WillReturnError(newPgError("23503"))

		assert.ErrorIs(t, s.Update(ctx, user), store.ErrPlaceNotFound)
	})
}

func TestUserStoreGetByIDForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
	user := testUser(t)

	mock.ExpectQuery("WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs(user.ID).
		WillReturnRows(userRow(sqlmock.NewRows(userRowColumns), user))
	mock.ExpectQuery("FROM user_places").
		WillReturnRows(sqlmock.NewRows([]string{"place_id"}))

	got, err := s.GetByIDForUpdate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
