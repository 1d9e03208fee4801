package dao

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type filePreferenceDAO struct {
	mu   sync.Mutex
	path string
}

// NewFilePreferenceDAO keeps preferences in a JSON file so they survive restarts without a database.
func NewFilePreferenceDAO(path string) PreferenceDAO {
	return &filePreferenceDAO{path: path}
}

func (f *filePreferenceDAO) load() (map[string]string, error) {
	prefs := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if len(data) == 0 {
		return prefs, nil
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return prefs, nil
}

func (f *filePreferenceDAO) GetPreferences() (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *filePreferenceDAO) SetPreference(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefs, err := f.load()
	if err != nil {
		return err
	}
	prefs[key] = value

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return os.Rename(tmp, f.path)
}
