package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/postgres"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placeRowColumns = []string{
	"id", "creator_id", "title", "description", "address",
	"lat", "lng", "image", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func testPlace(t *testing.T, creatorID uuid.UUID) *domain.Place {
	t.Helper()
	place, err := domain.NewPlace(
		creatorID,
		"Empire State Building",
		"One of the most famous sky scrapers in the world!",
		"20 W 34th St, New York, NY 10001",
		domain.Location{Lat: 40.7484405, Lng: -73.9878584},
		"uploads/images/esb.png",
	)
	require.NoError(t, err)
	return place
}

func placeRow(rows *sqlmock.Rows, p *domain.Place) *sqlmock.Rows {
	return rows.AddRow(
		p.ID.String(), p.CreatorID.String(), p.Title, p.Description, p.Address,
		p.Location.Lat, p.Location.Lng, p.Image, p.CreatedAt, p.UpdatedAt,
	)
}

func TestNewPostgresPlaceStore(t *testing.T) {
	assert.Panics(t, func() {
		postgres.NewPostgresPlaceStore(nil, nil)
	})

	db, _ := newMockDB(t)
	assert.NotNil(t, postgres.NewPostgresPlaceStore(db, nil))
}

func TestPlaceStoreCreate(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()

	t.Run("inserts place", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)
		place := testPlace(t, creatorID)

		mock.ExpectExec("INSERT INTO places").
			WithArgs(
				place.ID, place.CreatorID, place.Title, place.Description, place.Address,
				place.Location.Lat, place.Location.Lng, place.Image,
				sqlmock.AnyArg(), sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(ctx, place))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid place never reaches the database", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)
		place := testPlace(t, creatorID)
		place.Description = "abc"

		err := s.Create(ctx, place)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown creator", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)

		mock.ExpectExec("INSERT INTO places").WillReturnError(newPgError("23503"))

		err := s.Create(ctx, testPlace(t, creatorID))
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("driver failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)

		mock.ExpectExec("INSERT INTO places").WillReturnError(errors.New("connection refused"))

		err := s.Create(ctx, testPlace(t, creatorID))
		require.Error(t, err)
		var storeErr *store.StoreError
		assert.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "create", storeErr.Operation)
	})
}

func TestPlaceStoreGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)
		place := testPlace(t, uuid.New())

		mock.ExpectQuery("SELECT (.+) FROM places WHERE id = \\$1").
			WithArgs(place.ID).
			WillReturnRows(placeRow(sqlmock.NewRows(placeRowColumns), place))

		got, err := s.GetByID(ctx, place.ID)
		require.NoError(t, err)
		assert.Equal(t, place.ID, got.ID)
		assert.Equal(t, place.CreatorID, got.CreatorID)
		assert.Equal(t, place.Title, got.Title)
		assert.Equal(t, place.Location, got.Location)
		assert.Equal(t, place.Image, got.Image)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM places").WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrPlaceNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPlaceStoreListByCreator(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()

	t.Run("returns places in order", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)
		first := testPlace(t, creatorID)
		second := testPlace(t, creatorID)
		second.CreatedAt = first.CreatedAt.Add(time.Minute)

		rows := sqlmock.NewRows(placeRowColumns)
		placeRow(rows, first)
		placeRow(rows, second)
		mock.ExpectQuery("FROM places\\s+WHERE creator_id = \\$1").
			WithArgs(creatorID).
			WillReturnRows(rows)

		places, err := s.ListByCreator(ctx, creatorID)
		require.NoError(t, err)
		require.Len(t, places, 2)
		assert.Equal(t, first.ID, places[0].ID)
		assert.Equal(t, second.ID, places[1].ID)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)

		mock.ExpectQuery("FROM places").WillReturnRows(sqlmock.NewRows(placeRowColumns))

		places, err := s.ListByCreator(ctx, creatorID)
		require.NoError(t, err)
		assert.NotNil(t, places)
		assert.Empty(t, places)
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)

		mock.ExpectQuery("FROM places").WillReturnError(errors.New("timeout"))

		_, err := s.ListByCreator(ctx, creatorID)
		assert.Error(t, err)
	})
}

func TestPlaceStoreUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates editable fields", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)
		place := testPlace(t, uuid.New())
		require.NoError(t, place.UpdateDetails("New title", "A fresh description"))

		mock.ExpectExec("UPDATE places").
			WithArgs("New title", "A fresh description", sqlmock.AnyArg(), place.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(ctx, place))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing place", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)

		mock.ExpectExec("UPDATE places").WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(ctx, testPlace(t, uuid.New()))
		assert.ErrorIs(t, err, store.ErrPlaceNotFound)
	})
}

func TestPlaceStoreDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)
		id := uuid.New()

		mock.ExpectExec("DELETE FROM places WHERE id = \\$1").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Delete(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing place", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPlaceStore(db, nil)

		mock.ExpectExec("DELETE FROM places").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(ctx, uuid.New()), store.ErrPlaceNotFound)
	})
}

func TestPlaceStoreWithTx(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresPlaceStore(db, nil)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM places").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	txStore := s.WithTx(tx)
	require.NoError(t, txStore.Delete(context.Background(), id))
	require.NoError(t, tx.Rollback())

	assert.NoError(t, mock.ExpectationsWereMet())
}
