package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/service"
)

// UserHandler handles signup, login and user listing.
type UserHandler struct {
	users          service.UserService
	images         ImageStore
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(
	users service.UserService,
	images ImageStore,
	maxUploadBytes int64,
	logger *slog.Logger,
) *UserHandler {
	if users == nil || images == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user service and image store are required for UserHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserHandler{
		users:          users,
		images:         images,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UsersEnvelope{Users: out})
}

// Signup handles POST /api/users/signup
// The body is multipart with name, email, password and an image file.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	imagePath, err := saveUploadedImage(r, h.images)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.users.Signup(r.Context(), service.SignupInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Image:    imagePath,
	})
	if err != nil {
		discardImage(r.Context(), h.images, imagePath, log)
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID: res.User.ID,
		Email:  res.User.Email,
		Token:  res.Token,
	})
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", errBadRequest, err), "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", service.ErrInvalidInput, err), msgInvalidUserInput)
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID: res.User.ID,
		Email:  res.User.Email,
		Token:  res.Token,
	})
}
