package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/geocoding"
	"github.com/phrazzld/places-api/internal/platform/filestore"
	"github.com/phrazzld/places-api/internal/service"
	"github.com/phrazzld/places-api/internal/service/auth"
)

// Client-facing messages for errors that do not carry their own.
const (
	msgUnknownError    = "An unknown error occurred!"
	msgAddressNotFound = "Could not find location for the specified address."
	msgInvalidID       = "Invalid id."
	msgBadRequest      = "Malformed request."
	msgUnsupportedType = "Invalid mime type!"
	msgImageTooLarge   = "Image is too large."
	msgAuthFailed      = "Authentication failed!"
	msgRouteNotFound   = "Could not find this route."

	msgInvalidPlaceInput = "Invalid inputs passed. Please check your data"
	msgInvalidUserInput  = "Invalid inputs passed, please check your data."
)

// errBadRequest marks request bodies that could not be parsed at all.
var errBadRequest = errors.New("bad request")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, geocoding.ErrAddressNotFound),
		errors.Is(err, filestore.ErrUnsupportedType),
		errors.Is(err, filestore.ErrTooLarge),
		errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrPlaceNotFound),
		errors.Is(err, service.ErrPlacesNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message a client may see for err.
// Service errors carry their own message; anything unrecognised gets a
// generic one so internal details never leak.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnknownError
	}

	var placeErr *service.PlaceServiceError
	if errors.As(err, &placeErr) && placeErr.Message != "" {
		return placeErr.Message
	}
	var userErr *service.UserServiceError
	if errors.As(err, &userErr) && userErr.Message != "" {
		return userErr.Message
	}

	switch {
	case errors.Is(err, geocoding.ErrAddressNotFound):
		return msgAddressNotFound
	case errors.Is(err, domain.ErrInvalidID):
		return msgInvalidID
	case errors.Is(err, errBadRequest):
		return msgBadRequest
	case errors.Is(err, filestore.ErrUnsupportedType):
		return msgUnsupportedType
	case errors.Is(err, filestore.ErrTooLarge):
		return msgImageTooLarge
	case errors.Is(err, domain.ErrUnauthorized):
		return msgAuthFailed
	default:
		return msgUnknownError
	}
}

// HandleAPIError writes the error response for err and logs the redacted cause.
// fallback replaces the generic message when err is not recognised.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if message == msgUnknownError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// NotFoundHandler answers requests that match no route.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, msgRouteNotFound)
}
