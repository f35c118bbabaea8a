package auth_test

import (
	"strings"
	"testing"

	"github.com/Dan9191/places-service/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, h.Verify("s3cret-pass", hash))
	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("s3cret-pass", "not-a-bcrypt-hash"))
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	first, err := h.Hash("same")
	require.NoError(t, err)
	second, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	_, err := auth.NewBcryptHasher(0)
	assert.NoError(t, err)

	_, err = auth.NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
