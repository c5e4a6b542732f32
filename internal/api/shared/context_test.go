package shared

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")

	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, id, other)
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	_, ok = UserIDFromContext(context.WithValue(context.Background(), UserIDContextKey, "not-a-uuid"))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
