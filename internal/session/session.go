// Package session handles persisted authentication tokens.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type tokenFile struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store holds the access and refresh tokens for the current user.
// It persists them to a file so separate invocations share one session.
type Store struct {
	path string

	mu          sync.Mutex
	access      string
	refresh     string
	subscribers []func()
}

// Open loads the session from the given path. A missing file means an
// unauthenticated session, not an error.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("token path is empty")
	}
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read tokens: %w", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		// A corrupt token file is treated as logged out.
		return s, nil
	}
	s.access = tf.Access
	s.refresh = tf.Refresh
	return s, nil
}

// Set stores a new token pair and persists it.
func (s *Store) Set(access, refresh string) error {
	s.mu.Lock()
	s.access = access
	s.refresh = refresh
	err := s.persistLocked()
	subs := append([]func(){}, s.subscribers...)
	s.mu.Unlock()
	notify(subs)
	return err
}

// Clear removes the tokens and deletes the persisted file.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.access = ""
	s.refresh = ""
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		err = nil
	}
	subs := append([]func(){}, s.subscribers...)
	s.mu.Unlock()
	notify(subs)
	if err != nil {
		return fmt.Errorf("failed to remove tokens: %w", err)
	}
	return nil
}

// AccessToken returns the current access token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// RefreshToken returns the current refresh token, or "" when logged out.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// IsAuthenticated reports whether a non-empty access token is present.
func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// Subscribe registers a callback invoked after every Set or Clear.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Store) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	data, err := json.Marshal(tokenFile{Access: s.access, Refresh: s.refresh})
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "tokens-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}
	if err := tmpFile.Chmod(0o600); err != nil {
		return fmt.Errorf("failed to chmod token file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close token file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to move token file: %w", err)
	}
	return nil
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
