package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hashed)

	assert.NoError(t, ComparePassword(hashed, "s3cret"))
	assert.Error(t, ComparePassword(hashed, "wrong"))
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
