package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestStore_KeyringRoundTrip(t *testing.T) {
	keyring.MockInit()
	t.Setenv("BUCKETUSAGE_NO_KEYRING", "")

	store := NewStore(t.TempDir())
	require.True(t, store.UsingKeyring())

	require.NoError(t, store.Save("http://console:9090/", "tok-1"))

	token, err := store.Load("http://CONSOLE:9090")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "keyring store must not write credentials.json")

	require.NoError(t, store.Delete("http://console:9090"))
	_, err = store.Load("http://console:9090")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete("http://console:9090"))
}

func TestStore_FileFallback(t *testing.T) {
	t.Setenv("BUCKETUSAGE_NO_KEYRING", "1")
	dir := filepath.Join(t.TempDir(), "cfg")

	store := NewStore(dir)
	require.False(t, store.UsingKeyring())

	_, err := store.Load("http://a:9090")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save("http://a:9090", "tok-a"))
	require.NoError(t, store.Save("http://b:9090", "tok-b"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err := store.Load("http://a:9090")
	require.NoError(t, err)
	assert.Equal(t, "tok-a", token)

	require.NoError(t, store.Delete("http://a:9090"))
	_, err = store.Load("http://a:9090")
	assert.ErrorIs(t, err, ErrNotFound)

	token, err = store.Load("http://b:9090")
	require.NoError(t, err)
	assert.Equal(t, "tok-b", token)
}

func TestStore_FileFallbackCorrupt(t *testing.T) {
	t.Setenv("BUCKETUSAGE_NO_KEYRING", "1")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), []byte("{"), 0o600))

	store := NewStore(dir)
	_, err := store.Load("http://a:9090")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	err = store.Save("http://b:9090", "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing credentials")

	data, err := os.ReadFile(filepath.Join(dir, "credentials.json"))
	require.NoError(t, err)
	assert.Equal(t, "{", string(data), "corrupt file must not be overwritten")
}
