package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestAPIKey_EnvOverridesKeyring(t *testing.T) {
	keyring.MockInit()
	store := NewStore()

	require.NoError(t, store.SetAPIKey("sk-from-keyring"))
	t.Setenv(EnvAPIKey, "sk-from-env")

	key, err := store.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", key)
	assert.Equal(t, "env", store.Source())
}

func TestAPIKey_KeyringRoundTrip(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvAPIKey, "")
	store := NewStore()

	require.NoError(t, store.SetAPIKey("sk-stored"))

	key, err := store.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-stored", key)
	assert.Equal(t, "keyring", store.Source())
}

func TestAPIKey_MissingEverywhere(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvAPIKey, "")
	store := NewStore()

	_, err := store.APIKey()
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.Equal(t, "none", store.Source())
}

func TestSetAPIKey_RejectsEmpty(t *testing.T) {
	keyring.MockInit()
	store := NewStore()
	assert.Error(t, store.SetAPIKey("   "))
}

func TestDeleteAPIKey_MissingIsNotAnError(t *testing.T) {
	keyring.MockInit()
	store := NewStore()
	assert.NoError(t, store.DeleteAPIKey())
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "****", Redact("short"))
	assert.Equal(t, "sk-...wxyz", Redact("sk-abcdefghijklmnopqrstuvwxyz"))
}
