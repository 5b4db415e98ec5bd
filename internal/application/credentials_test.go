package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialManager_HashAndVerify(t *testing.T) {
	cm := NewCredentialManager()

	hash, err := cm.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.False(t, strings.Contains(hash, "secret1"))

	assert.True(t, cm.Verify("secret1", hash))
	assert.False(t, cm.Verify("secret2", hash))
	assert.False(t, cm.Verify("", hash))
}

func TestCredentialManager_HashesAreSalted(t *testing.T) {
	cm := NewCredentialManager()

	first, err := cm.Hash("secret1")
	require.NoError(t, err)
	second, err := cm.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, cm.Verify("secret1", first))
	assert.True(t, cm.Verify("secret1", second))
}
