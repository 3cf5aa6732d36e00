package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:9090", cfg.Endpoint)
	assert.Equal(t, SourceConsole, cfg.Source)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "Catppuccin Mocha", cfg.Theme)
	assert.Equal(t, 24, cfg.UI.TileWidth)
	assert.Equal(t, 2, cfg.UI.Spacing)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_MissingFile(t *testing.T) {
	t.Setenv("BUCKETUSAGE_ENDPOINT", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_ValidFile(t *testing.T) {
	t.Setenv("BUCKETUSAGE_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "settings.json")

	content := `{
  "endpoint": "https://console.example.com/",
  "request_timeout_seconds": 5,
  "insecure_skip_verify": true,
  "theme": "Nord",
  "ui": {"tile_width": 30, "spacing": 0},
  "session": {"browser_cookie": true}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://console.example.com", cfg.Endpoint)
	assert.Equal(t, SourceConsole, cfg.Source)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Equal(t, "Nord", cfg.Theme)
	assert.Equal(t, 30, cfg.UI.TileWidth)
	assert.Equal(t, 0, cfg.UI.Spacing)
	assert.True(t, cfg.Session.BrowserCookie)
	assert.Equal(t, "MINIO_ACCESS_KEY", cfg.S3.AccessKeyEnv)
}

func TestLoadFrom_BackfillsDefaults(t *testing.T) {
	t.Setenv("BUCKETUSAGE_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint": "", "theme": " ", "ui": {"tile_width": -1, "spacing": -3}, "request_timeout_seconds": -5}`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090", cfg.Endpoint)
	assert.Equal(t, "Catppuccin Mocha", cfg.Theme)
	assert.Equal(t, 24, cfg.UI.TileWidth)
	assert.Equal(t, 2, cfg.UI.Spacing)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout())
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint": `), 0o644))

	cfg, err := LoadFrom(path)
	require.Error(t, err)
	assert.Equal(t, DefaultConfig().Endpoint, cfg.Endpoint)
}

func TestLoadFrom_UnknownSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"source": "ftp"}`), 0o644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown source "ftp"`)
}

func TestLoadFrom_S3SourceNeedsEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"source": "S3", "s3": {"endpoint": ""}}`), 0o644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires s3.endpoint")
}

func TestLoadFrom_EnvEndpointOverride(t *testing.T) {
	t.Setenv("BUCKETUSAGE_ENDPOINT", "http://override:9090/")
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint": "http://file:9090"}`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:9090", cfg.Endpoint)
}

func TestConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BUCKETUSAGE_CONFIG_DIR", dir)
	assert.Equal(t, dir, ConfigDir())
	assert.Equal(t, filepath.Join(dir, "settings.json"), ConfigPath())
}

func TestSaveThemeTo_PreservesOtherFields(t *testing.T) {
	t.Setenv("BUCKETUSAGE_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	cfg := DefaultConfig()
	cfg.Endpoint = "http://minio.internal:9090"
	require.NoError(t, SaveTo(path, cfg))

	require.NoError(t, SaveThemeTo(path, "Dracula"))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Dracula", loaded.Theme)
	assert.Equal(t, "http://minio.internal:9090", loaded.Endpoint)
}

func TestSaveEndpointTo(t *testing.T) {
	t.Setenv("BUCKETUSAGE_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "settings.json")

	require.NoError(t, SaveEndpointTo(path, " https://console.example.com/ "))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "https://console.example.com", loaded.Endpoint)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	t.Setenv("BUCKETUSAGE_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, SaveTo(path, DefaultConfig()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zerolog.Nop(), func(cfg Config) {
			select {
			case changes <- cfg:
			default:
			}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, SaveThemeTo(path, "Gruvbox"))

	select {
	case cfg := <-changes:
		assert.Equal(t, "Gruvbox", cfg.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("no config change observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
