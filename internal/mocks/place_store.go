package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockPlaceStore is a mock of store.PlaceStore interface for use with testify/mock
type TestifyMockPlaceStore struct {
	mock.Mock
}

var _ store.PlaceStore = (*TestifyMockPlaceStore)(nil)

// Create is a mock implementation of store.PlaceStore.Create
func (m *TestifyMockPlaceStore) Create(ctx context.Context, place *domain.Place) error {
	args := m.Called(ctx, place)
	return args.Error(0)
}

// GetByID is a mock implementation of store.PlaceStore.GetByID
func (m *TestifyMockPlaceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
	args := m.Called(ctx, id)
	if place, ok := args.Get(0).(*domain.Place); ok {
		return place, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByCreator is a mock implementation of store.PlaceStore.ListByCreator
func (m *TestifyMockPlaceStore) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Place, error) {
	args := m.Called(ctx, creatorID)
	if places, ok := args.Get(0).([]*domain.Place); ok {
		return places, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.PlaceStore.Update
func (m *TestifyMockPlaceStore) Update(ctx context.Context, place *domain.Place) error {
	args := m.Called(ctx, place)
	return args.Error(0)
}

// Delete is a mock implementation of store.PlaceStore.Delete
func (m *TestifyMockPlaceStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx returns the mock itself, see TestifyMockUserStore.WithTx.
func (m *TestifyMockPlaceStore) WithTx(tx *sql.Tx) store.PlaceStore {
	for _, call := range m.ExpectedCalls {
		if call.Method == "WithTx" {
			args := m.Called(tx)
			if ret, ok := args.Get(0).(store.PlaceStore); ok {
				return ret
			}
			return m
		}
	}
	return m
}
