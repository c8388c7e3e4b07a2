// Package storage provides atomic JSON files under the user cache
// directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AppName names the nexus subdirectory of the user cache directory.
const AppName = "nexus"

// CacheDir returns <UserCacheDir>/nexus, creating it if needed.
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return dir, nil
}

// SaveJSON atomically writes data as indented JSON to path. The parent
// directory is created if missing. Concurrent writers never see a
// partially written file; the last rename wins.
func SaveJSON(path string, data any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(jsonData); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadJSON reads JSON from path into dest.
// Returns an error wrapping os.ErrNotExist if the file doesn't exist.
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
