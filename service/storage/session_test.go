package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreRevoke(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "tok-1", time.Hour))

	revoked, err = s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(ctx, "tok-other")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemorySessionStoreEntryExpires(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	// A denylist entry only needs to outlive the token itself.
	require.NoError(t, s.Revoke(ctx, "tok-1", -time.Second))

	revoked, err := s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
