package mocks

import (
	"context"

	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/geocoding"
)

// MockGeocoder implements geocoding.Geocoder for testing
type MockGeocoder struct {
	// GeocodeFn allows test cases to mock the Geocode behavior
	GeocodeFn func(ctx context.Context, address string) (domain.Location, error)

	// Default values used when GeocodeFn is nil
	Location domain.Location
	Err      error

	// Addresses records every address passed to Geocode
	Addresses []string
}

var _ geocoding.Geocoder = (*MockGeocoder)(nil)

// Geocode implements the geocoding.Geocoder interface
func (m *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	m.Addresses = append(m.Addresses, address)
	if m.GeocodeFn != nil {
		return m.GeocodeFn(ctx, address)
	}
	return m.Location, m.Err
}
