package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/bizdesk/erp/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_RevokesJTI(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_EntryExpires(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "short", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := blacklist.IsBlacklisted(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_UserRevocation(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	before := time.Now().Add(-time.Minute)
	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))

	invalid, err := blacklist.IsUserTokenInvalidated(ctx, "user-1", before)
	require.NoError(t, err)
	assert.True(t, invalid)

	invalid, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, invalid)

	invalid, err = blacklist.IsUserTokenInvalidated(ctx, "user-2", before)
	require.NoError(t, err)
	assert.False(t, invalid)
}
