package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/places-api/internal/config"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/geocoding"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"googlemaps.github.io/maps"
)

// Geocoder resolves addresses through the Google Maps Geocoding API.
type Geocoder struct {
	client *maps.Client
	logger *slog.Logger
}

// NewGeocoder creates a Geocoder from configuration.
// cfg.BaseURL is the API host; the client appends the geocode path.
// If httpClient is nil, one with the configured timeout is created.
func NewGeocoder(cfg config.GeocodingConfig, httpClient *http.Client, logger *slog.Logger) (*Geocoder, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key cannot be empty", geocoding.ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base url: %v", geocoding.ErrInvalidConfig, err)
	}

	if httpClient == nil {
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	client, err := maps.NewClient(
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(httpClient),
		maps.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", geocoding.ErrInvalidConfig, err)
	}

	return &Geocoder{
		client: client,
		logger: logger.With(slog.String("component", "googlemaps_geocoder")),
	}, nil
}

var _ geocoding.Geocoder = (*Geocoder)(nil)

// Geocode implements geocoding.Geocoder.
// It returns geocoding.ErrAddressNotFound when Google has no result for the
// address and wraps geocoding.ErrProviderFailure for everything else.
func (g *Geocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Location{}, geocoding.ErrAddressNotFound
	}

	start := time.Now()
	// ZERO_RESULTS comes back as an empty slice; other non-OK statuses are errors.
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		log.Error("geocoding request failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return domain.Location{}, fmt.Errorf("%w: %v", geocoding.ErrProviderFailure, err)
	}

	if len(results) == 0 {
		log.Debug("no geocoding result for address")
		return domain.Location{}, geocoding.ErrAddressNotFound
	}

	loc := results[0].Geometry.Location
	log.Debug("address geocoded",
		slog.Float64("lat", loc.Lat),
		slog.Float64("lng", loc.Lng),
		slog.Duration("elapsed", time.Since(start)))

	return domain.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
}
