package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", "meritrix", time.Hour)

	token, err := m.GenerateToken(42, "a@example.com", "STUDENT")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "STUDENT", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "meritrix", claims.Issuer)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", "meritrix", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewManager("other", "meritrix", time.Hour).GenerateToken(1, "a@example.com", "STUDENT")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := &Manager{secret: []byte("secret"), issuer: "meritrix", expiry: -time.Minute}
		token, err := expired.GenerateToken(1, "a@example.com", "STUDENT")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("zero user", func(t *testing.T) {
		token, err := m.GenerateToken(0, "a@example.com", "STUDENT")
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestNewManager_DefaultExpiry(t *testing.T) {
	assert.Equal(t, DefaultExpiry, NewManager("s", "i", 0).expiry)
}
