package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantis/storefront/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := config.Application{SecretKey: "test-secret"}

	t.Run("given minted token should verify to same session id", func(t *testing.T) {
		sessionID := uuid.New()
		token, err := MintToken(cfg, sessionID)
		require.NoError(t, err)

		verified, err := VerifyToken(context.Background(), cfg, token)

		require.NoError(t, err)
		assert.Equal(t, sessionID, verified)
	})

	t.Run("given token signed with other key should fail", func(t *testing.T) {
		token, err := MintToken(config.Application{SecretKey: "other-secret"}, uuid.New())
		require.NoError(t, err)

		_, err = VerifyToken(context.Background(), cfg, token)

		assert.Error(t, err)
	})

	t.Run("given garbage token should fail", func(t *testing.T) {
		_, err := VerifyToken(context.Background(), cfg, "not.a.token")

		assert.Error(t, err)
	})
}

func TestIDFromContext(t *testing.T) {
	t.Run("given attached id should return it", func(t *testing.T) {
		sessionID := uuid.New()
		c := AttachIDToContext(context.Background(), sessionID)

		assert.Equal(t, sessionID, IDFromContext(c))
	})

	t.Run("given bare context should return nil uuid", func(t *testing.T) {
		assert.Equal(t, uuid.Nil, IDFromContext(context.Background()))
	})
}
