package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocationList(t *testing.T) {
	list := NewRevocationList(time.Minute)
	t.Cleanup(list.Stop)

	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "token-1", time.Now().Add(time.Hour)))

	revoked, err = list.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 1, list.Size())
}

func TestRevocationListExpiredEntriesAreDropped(t *testing.T) {
	list := NewRevocationList(time.Minute)
	t.Cleanup(list.Stop)

	ctx := context.Background()

	// Already past its natural expiry; keeping it would only grow the set.
	require.NoError(t, list.Revoke(ctx, "stale", time.Now().Add(-time.Minute)))

	revoked, err := list.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)

	list.cleanup()
	assert.Equal(t, 0, list.Size())
}
