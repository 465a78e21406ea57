package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	id := &Identity{
		Subject:   "user-42",
		Email:     "dev@vaxlabs.io",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	ctx := Set(context.Background(), id)

	got, ok := Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-42", got.Subject)
	assert.Equal(t, "dev@vaxlabs.io", got.Email)
}

func TestGetMissingIdentity(t *testing.T) {
	_, ok := Get(context.Background())
	assert.False(t, ok)
}
