package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/filestore"
)

// multipartMemory is the part of a multipart body kept in memory before
// the rest spills to temporary files.
const multipartMemory = 1 << 20

// ImageStore saves uploaded images and removes them again.
type ImageStore interface {
	SaveImage(ctx context.Context, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// getUserIDFromContext extracts the authenticated user's UUID from the request context.
// The user ID is expected to be placed in the context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathUUID extracts a UUID from the URL path parameters.
// A missing or malformed value wraps domain.ErrInvalidID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireCaller writes a 401 and returns false when the request carries no
// authenticated user.
func requireCaller(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// parseMultipart parses a multipart body of at most maxBytes.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: body exceeds %d bytes", filestore.ErrTooLarge, maxBytes)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// saveUploadedImage stores the "image" part of a parsed multipart form.
// It returns an empty path and no error when the part is absent, leaving the
// required-field check to the service.
func saveUploadedImage(r *http.Request, images ImageStore) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	return images.SaveImage(r.Context(), file, header.Header.Get("Content-Type"))
}

// discardImage removes an uploaded image whose owning entity was never created.
func discardImage(ctx context.Context, images ImageStore, path string, log *slog.Logger) {
	if path == "" {
		return
	}
	if err := images.Delete(ctx, path); err != nil {
		log.Warn("failed to remove orphaned upload",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}
