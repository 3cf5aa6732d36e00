// Package session stores and resolves console session tokens.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const serviceName = "bucketusage"

// ErrNotFound is returned when no session is stored for an endpoint.
var ErrNotFound = errors.New("no stored session")

// credentialsFile is the plaintext fallback used when no keyring is available.
type credentialsFile struct {
	Sessions map[string]string `json:"sessions"` // endpoint → session token
}

// Store keeps session tokens per console endpoint, preferring the system
// keyring and falling back to credentials.json (mode 0600).
type Store struct {
	useKeyring bool
	path       string
	mu         sync.Mutex
}

// NewStore probes the system keyring and returns a store rooted at dir.
// BUCKETUSAGE_NO_KEYRING forces the file fallback.
func NewStore(dir string) *Store {
	path := filepath.Join(dir, "credentials.json")
	if os.Getenv("BUCKETUSAGE_NO_KEYRING") != "" {
		return &Store{path: path}
	}

	probe := serviceName + "::probe"
	if err := keyring.Set(serviceName, probe, "probe"); err != nil {
		return &Store{path: path}
	}
	_ = keyring.Delete(serviceName, probe)
	return &Store{useKeyring: true, path: path}
}

// UsingKeyring reports whether tokens go to the system keyring.
func (s *Store) UsingKeyring() bool { return s.useKeyring }

// Path is the fallback credentials file.
func (s *Store) Path() string { return s.path }

func key(endpoint string) string {
	return serviceName + "::" + normalizeEndpoint(endpoint)
}

func normalizeEndpoint(endpoint string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(endpoint), "/"))
}

func (s *Store) Load(endpoint string) (string, error) {
	if s.useKeyring {
		token, err := keyring.Get(serviceName, key(endpoint))
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		if err != nil {
			return "", fmt.Errorf("reading keyring: %w", err)
		}
		return token, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.readFile()
	if err != nil {
		return "", err
	}
	token, ok := creds.Sessions[normalizeEndpoint(endpoint)]
	if !ok || token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

// Save stores token for endpoint. An unreadable credentials file is left
// untouched so other endpoints' sessions survive.
func (s *Store) Save(endpoint, token string) error {
	if s.useKeyring {
		if err := keyring.Set(serviceName, key(endpoint), token); err != nil {
			return fmt.Errorf("writing keyring: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.readFile()
	if err != nil {
		return err
	}
	creds.Sessions[normalizeEndpoint(endpoint)] = token
	return s.writeFile(creds)
}

// Delete removes the session for endpoint. Deleting a missing session is not
// an error.
func (s *Store) Delete(endpoint string) error {
	if s.useKeyring {
		err := keyring.Delete(serviceName, key(endpoint))
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("deleting from keyring: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.readFile()
	if err != nil {
		return err
	}
	delete(creds.Sessions, normalizeEndpoint(endpoint))
	return s.writeFile(creds)
}

func (s *Store) readFile() (credentialsFile, error) {
	creds := credentialsFile{Sessions: make(map[string]string)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, fmt.Errorf("reading credentials: %w", err)
	}

	if err := json.Unmarshal(data, &creds); err != nil {
		return credentialsFile{Sessions: make(map[string]string)}, fmt.Errorf("parsing credentials %s: %w", s.path, err)
	}
	if creds.Sessions == nil {
		creds.Sessions = make(map[string]string)
	}
	return creds, nil
}

func (s *Store) writeFile(creds credentialsFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}
