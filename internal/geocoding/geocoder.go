package geocoding

import (
	"context"
	"errors"

	"github.com/phrazzld/places-api/internal/domain"
)

// Errors returned by Geocoder implementations.
var (
	// ErrAddressNotFound is returned when the provider has no match for the address.
	// Handlers surface it as a client error.
	ErrAddressNotFound = errors.New("could not find location for the specified address")

	// ErrProviderFailure is returned for transport errors, bad responses and
	// provider-side refusals such as an invalid API key or exhausted quota.
	ErrProviderFailure = errors.New("geocoding provider failure")

	// ErrInvalidConfig is returned when a provider is constructed with bad settings.
	ErrInvalidConfig = errors.New("invalid geocoder configuration")
)

// Geocoder resolves an address to a location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Location, error)
}
