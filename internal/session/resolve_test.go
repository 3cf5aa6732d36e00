package session

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/browserutils/kooky"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("BUCKETUSAGE_NO_KEYRING", "1")
	return NewStore(t.TempDir())
}

func cookiesFor(t *testing.T, wantHost string, cookies ...*kooky.Cookie) cookieReader {
	return func(_ context.Context, host string) ([]*kooky.Cookie, error) {
		assert.Equal(t, wantHost, host)
		return cookies, nil
	}
}

func cookie(value string, expires time.Time) *kooky.Cookie {
	return &kooky.Cookie{Cookie: http.Cookie{Name: "token", Value: value, Expires: expires}}
}

func TestResolve_EnvWins(t *testing.T) {
	store := fileStore(t)
	require.NoError(t, store.Save("http://console:9090", "stored"))
	t.Setenv(tokenEnvVar, " from-env ")

	r := Resolver{Store: store, Logger: zerolog.Nop()}
	token, origin, err := r.Resolve(context.Background(), "http://console:9090")
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)
	assert.Equal(t, OriginEnv, origin)
}

func TestResolve_StoredBeforeBrowser(t *testing.T) {
	t.Setenv(tokenEnvVar, "")
	store := fileStore(t)
	require.NoError(t, store.Save("http://console:9090", "stored"))

	r := Resolver{
		Store:         store,
		BrowserCookie: true,
		readCookies: func(context.Context, string) ([]*kooky.Cookie, error) {
			t.Fatal("browser must not be consulted when a session is stored")
			return nil, nil
		},
	}
	token, origin, err := r.Resolve(context.Background(), "http://console:9090")
	require.NoError(t, err)
	assert.Equal(t, "stored", token)
	assert.Equal(t, OriginStored, origin)
}

func TestResolve_BrowserPicksLatestCookie(t *testing.T) {
	t.Setenv(tokenEnvVar, "")
	now := time.Now()

	r := Resolver{
		Store:         fileStore(t),
		BrowserCookie: true,
		readCookies: cookiesFor(t, "minio.example.com",
			cookie("old", now.Add(time.Hour)),
			cookie("", now.Add(3*time.Hour)),
			cookie("new", now.Add(2*time.Hour)),
		),
	}
	token, origin, err := r.Resolve(context.Background(), "https://minio.example.com:9443/")
	require.NoError(t, err)
	assert.Equal(t, "new", token)
	assert.Equal(t, OriginBrowser, origin)
}

func TestResolve_BrowserDisabled(t *testing.T) {
	t.Setenv(tokenEnvVar, "")

	r := Resolver{
		Store: fileStore(t),
		readCookies: func(context.Context, string) ([]*kooky.Cookie, error) {
			t.Fatal("browser lookup is opt-in")
			return nil, nil
		},
	}
	_, _, err := r.Resolve(context.Background(), "http://console:9090")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_BrowserErrorIsNotFound(t *testing.T) {
	t.Setenv(tokenEnvVar, "")

	r := Resolver{
		BrowserCookie: true,
		readCookies: func(context.Context, string) ([]*kooky.Cookie, error) {
			return nil, errors.New("profile locked")
		},
	}
	_, _, err := r.Resolve(context.Background(), "http://console:9090")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEndpointHost(t *testing.T) {
	host, err := endpointHost("http://localhost:9090")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)

	_, err = endpointHost("not a url")
	assert.Error(t, err)
}
