package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/geocoding"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/redact"
	"github.com/phrazzld/places-api/internal/store"
)

// Client-facing messages.
const (
	msgInvalidInput = "Invalid inputs passed. Please check your data"

	msgPlaceNotFound = "Could not find a place for the provided id."
	msgGetFailed     = "Something went wrong. Could not find a place."

	msgListFailed     = "Fetching places failed, please try again later"
	msgPlacesNotFound = "Could not find places for the provided user id."

	msgCreateLookupFailed = "Creating place failed, please try again."
	msgCreatorNotFound    = "Could not find user for provided id."
	msgCreateFailed       = "Creating place failed, please try again"

	msgUpdateLookupFailed = "Something went wrong. Could not update place."
	msgNotAllowedToEdit   = "You are not allowed to edit this place."
	msgUpdateFailed       = "Something went wrong, could not update place"

	msgDeleteFailed       = "Something went wrong, could not delete place."
	msgDeleteNotFound     = "Could not find place for this id."
	msgNotAllowedToDelete = "You are not allowed to delete this place."
)

// ImageStore removes stored image files.
type ImageStore interface {
	Delete(ctx context.Context, path string) error
}

// CreatePlaceInput is the data a client supplies to create a place.
type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	// Creator is accepted for compatibility with existing clients and ignored;
	// the creator is always the authenticated caller.
	Creator string
	// Image is the stored path of the uploaded image.
	Image string
}

// PlaceService provides place-related operations
type PlaceService interface {
	// GetPlace retrieves a place by its ID.
	GetPlace(ctx context.Context, placeID uuid.UUID) (*domain.Place, error)

	// ListPlacesByUser retrieves every place created by userID.
	// A user without places is reported as not found.
	ListPlacesByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Place, error)

	// CreatePlace geocodes the address and stores the place together with the
	// caller's updated place list in a single transaction.
	CreatePlace(ctx context.Context, callerID uuid.UUID, input CreatePlaceInput) (*domain.Place, error)

	// UpdatePlace changes the title and description of a place the caller owns.
	UpdatePlace(
		ctx context.Context,
		callerID, placeID uuid.UUID,
		title, description string,
	) (*domain.Place, error)

	// DeletePlace removes a place the caller owns and drops it from the
	// caller's place list in a single transaction. The image file is removed
	// afterwards on a best-effort basis.
	DeletePlace(ctx context.Context, callerID, placeID uuid.UUID) error
}

// placeServiceImpl implements the PlaceService interface
type placeServiceImpl struct {
	placeStore store.PlaceStore
	userStore  store.UserStore
	db         *sql.DB
	geocoder   geocoding.Geocoder
	images     ImageStore
	logger     *slog.Logger
}

// NewPlaceService creates a new PlaceService
// It returns an error if any of the required dependencies are nil.
func NewPlaceService(
	placeStore store.PlaceStore,
	userStore store.UserStore,
	db *sql.DB,
	geocoder geocoding.Geocoder,
	images ImageStore,
	logger *slog.Logger,
) (PlaceService, error) {
	if placeStore == nil {
		return nil, domain.NewValidationError("placeStore", "cannot be nil", domain.ErrValidation)
	}
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if geocoder == nil {
		return nil, domain.NewValidationError("geocoder", "cannot be nil", domain.ErrValidation)
	}
	if images == nil {
		return nil, domain.NewValidationError("images", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &placeServiceImpl{
		placeStore: placeStore,
		userStore:  userStore,
		db:         db,
		geocoder:   geocoder,
		images:     images,
		logger:     logger.With(slog.String("component", "place_service")),
	}, nil
}

// GetPlace implements PlaceService.GetPlace
func (s *placeServiceImpl) GetPlace(ctx context.Context, placeID uuid.UUID) (*domain.Place, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	place, err := s.placeStore.GetByID(ctx, placeID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("place not found", slog.String("place_id", placeID.String()))
			return nil, NewPlaceServiceError("get", msgPlaceNotFound, ErrPlaceNotFound, err)
		}
		log.Error("failed to retrieve place",
			redact.ErrorAttr(err),
			slog.String("place_id", placeID.String()))
		return nil, NewPlaceServiceError("get", msgGetFailed, ErrUnavailable, err)
	}

	return place, nil
}

// ListPlacesByUser implements PlaceService.ListPlacesByUser
func (s *placeServiceImpl) ListPlacesByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Place, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	places, err := s.placeStore.ListByCreator(ctx, userID)
	if err != nil {
		log.Error("failed to list places",
			redact.ErrorAttr(err),
			slog.String("user_id", userID.String()))
		return nil, NewPlaceServiceError("list", msgListFailed, ErrUnavailable, err)
	}

	if len(places) == 0 {
		log.Debug("user has no places", slog.String("user_id", userID.String()))
		return nil, NewPlaceServiceError("list", msgPlacesNotFound, ErrPlacesNotFound, nil)
	}

	return places, nil
}

// CreatePlace implements PlaceService.CreatePlace
// Geocoder errors are returned unchanged.
func (s *placeServiceImpl) CreatePlace(
	ctx context.Context,
	callerID uuid.UUID,
	input CreatePlaceInput,
) (*domain.Place, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(input.Image) == "" {
		return nil, NewPlaceServiceError("create", msgInvalidInput, ErrInvalidInput,
			domain.NewValidationError("image", "is required", domain.ErrValidation))
	}

	// Location is filled in below; NewPlace only needs it to be present.
	place, err := domain.NewPlace(
		callerID,
		input.Title,
		input.Description,
		input.Address,
		domain.Location{},
		input.Image,
	)
	if err != nil {
		log.Debug("invalid place input", slog.String("error", err.Error()))
		return nil, NewPlaceServiceError("create", msgInvalidInput, ErrInvalidInput, err)
	}

	location, err := s.geocoder.Geocode(ctx, place.Address)
	if err != nil {
		log.Warn("failed to geocode address", redact.ErrorAttr(err))
		return nil, err
	}
	place.Location = location

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)
		txPlaces := s.placeStore.WithTx(tx)

		user, err := txUsers.GetByIDForUpdate(ctx, callerID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return NewPlaceServiceError("create", msgCreatorNotFound, ErrUserNotFound, err)
			}
			return NewPlaceServiceError("create", msgCreateLookupFailed, ErrUnavailable, err)
		}

		if err := txPlaces.Create(ctx, place); err != nil {
			return NewPlaceServiceError("create", msgCreateFailed, ErrUnavailable, err)
		}

		user.AddPlace(place.ID)
		if err := txUsers.Update(ctx, user); err != nil {
			return NewPlaceServiceError("create", msgCreateFailed, ErrUnavailable, err)
		}

		return nil
	})
	if err != nil {
		var svcErr *PlaceServiceError
		if !errors.As(err, &svcErr) {
			svcErr = NewPlaceServiceError("create", msgCreateFailed, ErrUnavailable, err)
		}
		if errors.Is(svcErr, ErrUnavailable) {
			log.Error("failed to create place",
				redact.ErrorAttr(err),
				slog.String("user_id", callerID.String()))
		}
		return nil, svcErr
	}

	log.Info("place created",
		slog.String("place_id", place.ID.String()),
		slog.String("user_id", callerID.String()))

	return place, nil
}

// UpdatePlace implements PlaceService.UpdatePlace
func (s *placeServiceImpl) UpdatePlace(
	ctx context.Context,
	callerID, placeID uuid.UUID,
	title, description string,
) (*domain.Place, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateDetails(title, description); err != nil {
		return nil, NewPlaceServiceError("update", msgInvalidInput, ErrInvalidInput, err)
	}

	place, err := s.placeStore.GetByID(ctx, placeID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewPlaceServiceError("update", msgPlaceNotFound, ErrPlaceNotFound, err)
		}
		log.Error("failed to retrieve place for update",
			redact.ErrorAttr(err),
			slog.String("place_id", placeID.String()))
		return nil, NewPlaceServiceError("update", msgUpdateLookupFailed, ErrUnavailable, err)
	}

	if !place.IsOwnedBy(callerID) {
		log.Warn("unauthorized place update attempt",
			slog.String("place_id", placeID.String()),
			slog.String("user_id", callerID.String()))
		return nil, NewPlaceServiceError("update", msgNotAllowedToEdit, ErrNotOwned, nil)
	}

	if err := place.UpdateDetails(title, description); err != nil {
		return nil, NewPlaceServiceError("update", msgInvalidInput, ErrInvalidInput, err)
	}

	if err := s.placeStore.Update(ctx, place); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewPlaceServiceError("update", msgPlaceNotFound, ErrPlaceNotFound, err)
		}
		log.Error("failed to update place",
			redact.ErrorAttr(err),
			slog.String("place_id", placeID.String()))
		return nil, NewPlaceServiceError("update", msgUpdateFailed, ErrUnavailable, err)
	}

	log.Info("place updated", slog.String("place_id", placeID.String()))
	return place, nil
}

// DeletePlace implements PlaceService.DeletePlace
func (s *placeServiceImpl) DeletePlace(ctx context.Context, callerID, placeID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	place, err := s.placeStore.GetByID(ctx, placeID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return NewPlaceServiceError("delete", msgDeleteNotFound, ErrPlaceNotFound, err)
		}
		log.Error("failed to retrieve place for delete",
			redact.ErrorAttr(err),
			slog.String("place_id", placeID.String()))
		return NewPlaceServiceError("delete", msgDeleteFailed, ErrUnavailable, err)
	}

	if !place.IsOwnedBy(callerID) {
		log.Warn("unauthorized place delete attempt",
			slog.String("place_id", placeID.String()),
			slog.String("user_id", callerID.String()))
		return NewPlaceServiceError("delete", msgNotAllowedToDelete, ErrNotOwned, nil)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)
		txPlaces := s.placeStore.WithTx(tx)

		creator, err := txUsers.GetByIDForUpdate(ctx, place.CreatorID)
		if err != nil {
			return NewPlaceServiceError("delete", msgDeleteFailed, ErrUnavailable, err)
		}

		if err := txPlaces.Delete(ctx, place.ID); err != nil {
			if store.IsNotFoundError(err) {
				return NewPlaceServiceError("delete", msgDeleteNotFound, ErrPlaceNotFound, err)
			}
			return NewPlaceServiceError("delete", msgDeleteFailed, ErrUnavailable, err)
		}

		creator.RemovePlace(place.ID)
		if err := txUsers.Update(ctx, creator); err != nil {
			return NewPlaceServiceError("delete", msgDeleteFailed, ErrUnavailable, err)
		}

		return nil
	})
	if err != nil {
		var svcErr *PlaceServiceError
		if !errors.As(err, &svcErr) {
			svcErr = NewPlaceServiceError("delete", msgDeleteFailed, ErrUnavailable, err)
		}
		if errors.Is(svcErr, ErrUnavailable) {
			log.Error("failed to delete place",
				redact.ErrorAttr(err),
				slog.String("place_id", placeID.String()))
		}
		return svcErr
	}

	if place.Image != "" {
		if err := s.images.Delete(ctx, place.Image); err != nil {
			log.Warn("failed to delete place image",
				redact.ErrorAttr(err),
				slog.String("place_id", placeID.String()))
		}
	}

	log.Info("place deleted", slog.String("place_id", placeID.String()))
	return nil
}
