package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by the api layer.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated caller's uuid.UUID.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey holds the per-request trace id.
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID returns a copy of ctx carrying a fresh trace ID.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, newTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithUserID returns a copy of ctx carrying the authenticated user's id.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user's id.
// The boolean is false when no id was set or the id is uuid.Nil.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// newTraceID returns 32 hex characters from a random UUID.
func newTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
