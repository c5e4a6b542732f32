package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/redact"
	"github.com/phrazzld/places-api/internal/service/auth"
)

const msgAuthFailed = "Authentication failed!"

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the bearer token in the Authorization header and
// puts the caller's user id into the request context. Preflight requests
// pass through unauthenticated.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromContextOrDefault(r.Context(), slog.Default())

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			log.Debug("missing or malformed authorization header")
			shared.RespondWithError(w, r, http.StatusUnauthorized, msgAuthFailed)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken),
				errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid):
				log.Debug("token rejected", slog.String("reason", err.Error()))
				shared.RespondWithError(w, r, http.StatusUnauthorized, msgAuthFailed)
			default:
				log.Error("failed to validate token", redact.ErrorAttr(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
