package mocks

import (
	"context"
	"io"
	"sync"
)

// MockImageStore records image saves and deletes for testing.
// It satisfies the image store interfaces consumed by the service and api packages.
type MockImageStore struct {
	SaveImageFn func(ctx context.Context, r io.Reader, contentType string) (string, error)
	DeleteFn    func(ctx context.Context, path string) error

	// Default values used when the function fields are nil
	SavedPath string
	SaveErr   error
	DeleteErr error

	mu      sync.Mutex
	Deleted []string
}

// SaveImage stores nothing and returns SavedPath unless SaveImageFn is set.
func (m *MockImageStore) SaveImage(ctx context.Context, r io.Reader, contentType string) (string, error) {
	if m.SaveImageFn != nil {
		return m.SaveImageFn(ctx, r, contentType)
	}
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	_, _ = io.Copy(io.Discard, r)
	return m.SavedPath, nil
}

// Delete records path and returns DeleteErr unless DeleteFn is set.
func (m *MockImageStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, path)
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, path)
	}
	return m.DeleteErr
}

// DeletedPaths returns a copy of the recorded deletes.
func (m *MockImageStore) DeletedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Deleted...)
}
