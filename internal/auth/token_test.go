package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret")

	token, err := tm.GenerateToken("session-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	id, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestTokenManager_RejectsOtherSecret(t *testing.T) {
	token, err := NewTokenManager("secret").GenerateToken("session-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = NewTokenManager("other").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret")
	token, err := tm.GenerateToken("session-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret").ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("secret").ParseToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
