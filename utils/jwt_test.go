package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	token, err := GenerateToken("user-1", "a@b.com", time.Hour)
	require.NoError(t, err)

	sub, err := ExtractUserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateToken("user-1", "a@b.com", -time.Minute)
	require.NoError(t, err)

	_, err = ExtractUserIDFromToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	_, err := ExtractUserIDFromToken("not.a.token")
	assert.Error(t, err)
}
