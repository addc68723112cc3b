package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	require.NoError(t, Init(time.Hour))

	userID := uuid.New()
	token, err := CreateToken(userID)
	require.NoError(t, err)

	got, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	require.NoError(t, Init(0))

	_, err := VerifyToken("not-a-jwt")
	assert.Error(t, err)

	_, err = VerifyToken("")
	assert.Error(t, err)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	require.NoError(t, Init(0))
	token, err := CreateToken(uuid.New())
	require.NoError(t, err)

	// A fresh key pair must not validate tokens from the old one.
	require.NoError(t, Init(0))
	_, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordBadHashFormat(t *testing.T) {
	_, err := VerifyPassword("anything", "plainly not encoded")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
