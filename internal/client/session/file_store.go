// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// persistedSession is the on-disk shape of the session file.
type persistedSession struct {
	Token string `json:"token"`
}

// FileTokenStore persists the token as a JSON file in the user's
// configuration directory.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a file-backed token store at the given path.
// An empty path selects the default location under the user config dir.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("session: cannot locate config dir: %w", err)
		}
		path = filepath.Join(configDir, "inkgate", "session.json")
	}

	return &FileTokenStore{path: path}, nil
}

// Load implements [TokenStore].
func (store *FileTokenStore) Load() (string, error) {
	payload, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("session: read failed: %w", err)
	}

	var persisted persistedSession
	if err := json.Unmarshal(payload, &persisted); err != nil {
		// Corrupt session file reads as logged out.
		return "", nil
	}

	return persisted.Token, nil
}

// Save implements [TokenStore].
func (store *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("session: mkdir failed: %w", err)
	}

	payload, err := json.Marshal(persistedSession{Token: token})
	if err != nil {
		return fmt.Errorf("session: encode failed: %w", err)
	}

	// 0600: the token grants account access, keep it private.
	if err := os.WriteFile(store.path, payload, 0o600); err != nil {
		return fmt.Errorf("session: write failed: %w", err)
	}

	return nil
}

// Clear implements [TokenStore].
func (store *FileTokenStore) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: clear failed: %w", err)
	}
	return nil
}
