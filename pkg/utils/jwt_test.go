package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")

	token, err := CreateToken(secret, 42, "user", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user", claims.Role)

	_, err = ValidateToken([]byte("other-secret"), token)
	assert.Error(t, err)

	expired, err := CreateToken(secret, 42, "user", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(secret, expired)
	assert.Error(t, err)

	anonymous, err := CreateToken(secret, 0, "user", time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(secret, anonymous)
	assert.ErrorContains(t, err, "no user id")
}
