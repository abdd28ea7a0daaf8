// Package profile provides the local persistent key-value store backing a
// participant's cached identity (handle, display name, color). It is the
// only state that lives outside the replicated store, and it is modeled as
// an injected capability rather than ambient global access so it can be
// mocked in tests.
package profile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store is a small persistent string-to-string map
type Store interface {
	// Get returns the stored value and whether it was present
	Get(key string) (string, bool, error)
	// Set stores a value durably
	Set(key, value string) error
}

// Well-known profile keys
const (
	KeyHandle      = "handle"
	KeyDisplayName = "display_name"
	KeyColor       = "color"
)

// FileStore persists the profile as a JSON file, one per local profile
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the conventional profile location under the user
// config directory
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sharedlist", "profile.json"), nil
}

// Get returns the stored value for key
func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set stores a value, creating the profile file and its directory on first use
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt profile is treated as empty; the next Set rewrites it
		return map[string]string{}, nil
	}
	return values, nil
}

// MemStore is an in-memory Store for tests
type MemStore struct {
	mu     sync.Mutex
	values map[string]string

	// FailWrites makes Set return an error, for degraded-path tests
	FailWrites bool
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty MemStore
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

// Get returns the stored value for key
func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok, nil
}

// Set stores a value
func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return errors.New("profile store unavailable")
	}
	s.values[key] = value
	return nil
}
