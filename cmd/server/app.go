package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/places-api/internal/config"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/geocoding"
	"github.com/phrazzld/places-api/internal/platform/filestore"
	"github.com/phrazzld/places-api/internal/platform/googlemaps"
	"github.com/phrazzld/places-api/internal/platform/postgres"
	"github.com/phrazzld/places-api/internal/service"
	"github.com/phrazzld/places-api/internal/service/auth"
	"github.com/phrazzld/places-api/internal/store"
	"github.com/spf13/afero"
)

// multipartOverhead is the allowance for form fields and part headers on top
// of the image itself when bounding a multipart request body.
const multipartOverhead = 1 << 20

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore  store.UserStore
	placeStore store.PlaceStore
	images     *filestore.Store

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	geocoder         geocoding.Geocoder
	placeService     service.PlaceService
	userService      service.UserService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.placeStore = postgres.NewPostgresPlaceStore(db, logger)

	app.images, err = filestore.New(afero.NewOsFs(), cfg.Uploads.Dir, cfg.Uploads.MaxSizeBytes, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	app.geocoder, err = newGeocoder(cfg.Geocoding, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize geocoder: %w", err)
	}
	logger.Info("Geocoder initialized", "provider", cfg.Geocoding.Provider)

	app.placeService, err = service.NewPlaceService(
		app.placeStore,
		app.userStore,
		db,
		app.geocoder,
		app.images,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create place service: %w", err)
	}

	app.userService, err = service.NewUserService(
		app.userStore,
		db,
		app.jwtService,
		app.passwordVerifier,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	return app, nil
}

// newGeocoder picks the geocoding provider named in cfg.
func newGeocoder(cfg config.GeocodingConfig, logger *slog.Logger) (geocoding.Geocoder, error) {
	switch cfg.Provider {
	case "google":
		client := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
		g, err := googlemaps.NewGeocoder(cfg, client, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "static":
		return geocoding.NewStatic(domain.Location{Lat: cfg.StaticLat, Lng: cfg.StaticLng}), nil
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q", cfg.Provider)
	}
}

// maxUploadBytes bounds a multipart request carrying one image.
func (app *application) maxUploadBytes() int64 {
	return app.config.Uploads.MaxSizeBytes + multipartOverhead
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		app.logger.Info("Closing database connection")
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}
