package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse"))
	assert.Error(t, hasher.Compare(hash, "battery staple"))
}

func TestHashRejectsShortPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestNewBcryptHasherCostFallback(t *testing.T) {
	// 0 is below bcrypt.MinCost; the hasher must still produce valid hashes.
	hasher := NewBcryptHasher(0)

	hash, err := hasher.Hash("long enough password")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "long enough password"))
}
