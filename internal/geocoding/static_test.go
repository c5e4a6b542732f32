package geocoding_test

import (
	"context"
	"testing"

	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticGeocode(t *testing.T) {
	t.Parallel()

	loc := domain.Location{Lat: 40.7484474, Lng: -73.9871516}
	g := geocoding.NewStatic(loc)

	got, err := g.Geocode(context.Background(), "20 W 34th St, New York")
	require.NoError(t, err)
	assert.Equal(t, loc, got)

	_, err = g.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, geocoding.ErrAddressNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Geocode(ctx, "anywhere")
	assert.ErrorIs(t, err, context.Canceled)
}
