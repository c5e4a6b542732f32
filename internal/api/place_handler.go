package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/service"
)

// PlaceHandler handles place-related HTTP requests
type PlaceHandler struct {
	places         service.PlaceService
	images         ImageStore
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewPlaceHandler creates a new PlaceHandler.
// maxUploadBytes bounds the whole multipart body of a create request.
func NewPlaceHandler(
	places service.PlaceService,
	images ImageStore,
	maxUploadBytes int64,
	logger *slog.Logger,
) *PlaceHandler {
	if places == nil || images == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("place service and image store are required for PlaceHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PlaceHandler{
		places:         places,
		images:         images,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "place_handler")),
	}
}

// GetPlace handles GET /api/places/{pid}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := getPathUUID(r, "pid")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	place, err := h.places.GetPlace(r.Context(), placeID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PlaceEnvelope{Place: placeToResponse(place)})
}

// ListPlacesByUser handles GET /api/places/user/{uid}
func (h *PlaceHandler) ListPlacesByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "uid")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	places, err := h.places.ListPlacesByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PlacesEnvelope{Places: placesToResponse(places)})
}

// CreatePlace handles POST /api/places
// The body is multipart with title, description, address and an image file.
// The creator is always the authenticated caller.
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	callerID, ok := requireCaller(w, r, log)
	if !ok {
		return
	}

	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	req := CreatePlaceRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Address:     strings.TrimSpace(r.FormValue("address")),
		Creator:     r.FormValue("creator"),
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", service.ErrInvalidInput, err), msgInvalidPlaceInput)
		return
	}

	imagePath, err := saveUploadedImage(r, h.images)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	place, err := h.places.CreatePlace(r.Context(), callerID, service.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Creator:     req.Creator,
		Image:       imagePath,
	})
	if err != nil {
		discardImage(r.Context(), h.images, imagePath, log)
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, PlaceEnvelope{Place: placeToResponse(place)})
}

// UpdatePlace handles PATCH /api/places/{pid}
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	callerID, ok := requireCaller(w, r, log)
	if !ok {
		return
	}

	placeID, err := getPathUUID(r, "pid")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdatePlaceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", errBadRequest, err), "")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", service.ErrInvalidInput, err), msgInvalidPlaceInput)
		return
	}

	place, err := h.places.UpdatePlace(r.Context(), callerID, placeID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PlaceEnvelope{Place: placeToResponse(place)})
}

// DeletePlace handles DELETE /api/places/{pid}
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	callerID, ok := requireCaller(w, r, log)
	if !ok {
		return
	}

	placeID, err := getPathUUID(r, "pid")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.places.DeletePlace(r.Context(), callerID, placeID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Deleted place"})
}
