package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/teamup-api/internal/services"
	"github.com/dimitrije/teamup-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_Integration(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTokenService(tdb.DB)
	ctx := context.Background()

	profile := fixtures.CreateProfile(t, "ana")

	t.Run("store and validate", func(t *testing.T) {
		hash := services.HashToken("refresh-1")
		require.NoError(t, svc.StoreRefreshToken(ctx, profile.ID, hash, time.Now().Add(time.Hour)))

		userID, err := svc.ValidateRefreshToken(ctx, hash)
		require.NoError(t, err)
		assert.Equal(t, profile.ID, userID)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		hash := services.HashToken("refresh-2")
		require.NoError(t, svc.StoreRefreshToken(ctx, profile.ID, hash, time.Now().Add(time.Hour)))
		require.NoError(t, svc.RevokeRefreshToken(ctx, hash))

		userID, err := svc.ValidateRefreshToken(ctx, hash)
		assert.Error(t, err)
		assert.Equal(t, uuid.Nil, userID)
	})

	t.Run("revoke all", func(t *testing.T) {
		hashes := []string{services.HashToken("refresh-3"), services.HashToken("refresh-4")}
		for _, h := range hashes {
			require.NoError(t, svc.StoreRefreshToken(ctx, profile.ID, h, time.Now().Add(time.Hour)))
		}
		require.NoError(t, svc.RevokeAllUserTokens(ctx, profile.ID))

		for _, h := range hashes {
			_, err := svc.ValidateRefreshToken(ctx, h)
			assert.Error(t, err)
		}
	})

	t.Run("cleanup removes expired tokens", func(t *testing.T) {
		expired := services.HashToken("refresh-old")
		require.NoError(t, svc.StoreRefreshToken(ctx, profile.ID, expired, time.Now().Add(-time.Hour)))

		_, err := svc.ValidateRefreshToken(ctx, expired)
		assert.Error(t, err)

		removed, err := svc.CleanupExpired(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, removed, int64(1))
		assert.Equal(t, 0, fixtures.CountRows(t, "refresh_tokens", "token_hash = $1", expired))
	})
}
