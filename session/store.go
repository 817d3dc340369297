package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed storage keys, matching what the platform hands back from the login endpoint.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// Tokens is the opaque access/refresh pair issued at login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store is the injectable session capability. The API client and the draft
// builder depend on this abstraction, never on a concrete storage mechanism.
// Last-writer-wins on concurrent Set/Clear is acceptable: one human operator
// per client instance.
type Store interface {
	// AccessToken returns the stored access token, or "" when logged out.
	AccessToken() string
	// Set stores the token pair. Empty fields leave the previous value in place.
	Set(tokens Tokens) error
	// Clear removes both tokens.
	Clear() error
}

// MemoryStore keeps the token pair in process memory. Used by tests and by
// callers that do not want durable sessions.
type MemoryStore struct {
	mu     sync.Mutex
	tokens Tokens
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Access
}

func (s *MemoryStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Refresh
}

func (s *MemoryStore) Set(tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tokens.Access != "" {
		s.tokens.Access = tokens.Access
	}
	if tokens.Refresh != "" {
		s.tokens.Refresh = tokens.Refresh
	}
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = Tokens{}
	return nil
}

// FileStore persists the token pair as a small JSON document under a fixed
// path. This is the durable equivalent of the browser's local storage.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session: empty store path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("session: prepare store dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens, err := s.read()
	if err != nil {
		return ""
	}
	return tokens[KeyAccessToken]
}

func (s *FileStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens, err := s.read()
	if err != nil {
		return ""
	}
	return tokens[KeyRefreshToken]
}

func (s *FileStore) Set(tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	if tokens.Access != "" {
		current[KeyAccessToken] = tokens.Access
	}
	if tokens.Refresh != "" {
		current[KeyRefreshToken] = tokens.Refresh
	}
	return s.write(current)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read store: %w", err)
	}

	tokens := map[string]string{}
	if err := json.Unmarshal(data, &tokens); err != nil {
		// A corrupt store is treated as logged out rather than fatal.
		return map[string]string{}, nil
	}
	return tokens, nil
}

func (s *FileStore) write(tokens map[string]string) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("session: encode store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write store: %w", err)
	}
	return nil
}
