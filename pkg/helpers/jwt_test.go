package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_SignParseRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, exp, err := m.Sign("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestJWTManager_ParseWrongSecret(t *testing.T) {
	token, _, err := NewJWTManager("secret-one", time.Hour).Sign("user-123")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-two", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestJWTManager_ParseExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, _, err := m.Sign("user-123")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestJWTManager_ParseGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	_, err := m.Parse("not-a-token")
	assert.Error(t, err)
}
