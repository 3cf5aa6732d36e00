package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	SourceConsole = "console"
	SourceS3      = "s3"
)

const (
	defaultEndpoint       = "http://localhost:9090"
	defaultTheme          = "Catppuccin Mocha"
	defaultTileWidth      = 24
	defaultSpacing        = 2
	defaultTimeoutSeconds = 30
)

type UIConfig struct {
	TileWidth int `json:"tile_width"`
	Spacing   int `json:"spacing"`
}

// S3Config configures the direct "s3" source. Keys are read from the named
// environment variables, never from the settings file.
type S3Config struct {
	Endpoint     string `json:"endpoint"`
	UseSSL       bool   `json:"use_ssl"`
	Region       string `json:"region,omitempty"`
	AccessKeyEnv string `json:"access_key_env"`
	SecretKeyEnv string `json:"secret_key_env"`
}

type SessionConfig struct {
	// BrowserCookie allows reading the console session cookie from local browsers.
	BrowserCookie bool `json:"browser_cookie"`
}

type Config struct {
	Endpoint              string        `json:"endpoint"`
	Source                string        `json:"source"`
	RequestTimeoutSeconds int           `json:"request_timeout_seconds"`
	InsecureSkipVerify    bool          `json:"insecure_skip_verify"`
	Theme                 string        `json:"theme"`
	UI                    UIConfig      `json:"ui"`
	S3                    S3Config      `json:"s3"`
	Session               SessionConfig `json:"session"`
}

func DefaultConfig() Config {
	return Config{
		Endpoint:              defaultEndpoint,
		Source:                SourceConsole,
		RequestTimeoutSeconds: defaultTimeoutSeconds,
		Theme:                 defaultTheme,
		UI: UIConfig{
			TileWidth: defaultTileWidth,
			Spacing:   defaultSpacing,
		},
		S3: S3Config{
			Endpoint:     "localhost:9000",
			AccessKeyEnv: "MINIO_ACCESS_KEY",
			SecretKeyEnv: "MINIO_SECRET_KEY",
		},
	}
}

// RequestTimeout is the client-side timeout applied to console requests.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func ConfigDir() string {
	if dir := strings.TrimSpace(os.Getenv("BUCKETUSAGE_CONFIG_DIR")); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "bucketusage")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bucketusage")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

// LoadFrom reads the settings file at path, back-fills defaults and applies
// environment overrides. A missing file yields the defaults.
func LoadFrom(path string) (Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func readFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	def := DefaultConfig()

	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if cfg.Source == "" {
		cfg.Source = def.Source
	}
	if cfg.RequestTimeoutSeconds < 0 {
		cfg.RequestTimeoutSeconds = 0
	}
	if strings.TrimSpace(cfg.Theme) == "" {
		cfg.Theme = def.Theme
	}
	if cfg.UI.TileWidth <= 0 {
		cfg.UI.TileWidth = def.UI.TileWidth
	}
	if cfg.UI.Spacing < 0 {
		cfg.UI.Spacing = def.UI.Spacing
	}
	if cfg.S3.AccessKeyEnv == "" {
		cfg.S3.AccessKeyEnv = def.S3.AccessKeyEnv
	}
	if cfg.S3.SecretKeyEnv == "" {
		cfg.S3.SecretKeyEnv = def.S3.SecretKeyEnv
	}
}

func applyEnv(cfg *Config) {
	if endpoint := strings.TrimSpace(os.Getenv("BUCKETUSAGE_ENDPOINT")); endpoint != "" {
		cfg.Endpoint = strings.TrimRight(endpoint, "/")
	}
}

func (c Config) Validate() error {
	switch c.Source {
	case SourceConsole, SourceS3:
	default:
		return fmt.Errorf("unknown source %q (want %q or %q)", c.Source, SourceConsole, SourceS3)
	}
	if c.Source == SourceS3 && strings.TrimSpace(c.S3.Endpoint) == "" {
		return fmt.Errorf("source %q requires s3.endpoint", SourceS3)
	}
	return nil
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveThemeTo persists a theme name into the config file at path
// (read-modify-write).
func SaveThemeTo(path string, theme string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := readFile(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.Theme = theme
	return SaveTo(path, cfg)
}

// SaveEndpointTo persists the console endpoint (read-modify-write).
func SaveEndpointTo(path string, endpoint string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := readFile(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return SaveTo(path, cfg)
}
