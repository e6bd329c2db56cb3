package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the YAML settings file used by the CLI
const DefaultConfigFileName = "config.yaml"

// FileStore is a YAML-backed Preferences implementation for headless use
type FileStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]interface{}
}

// DefaultConfigPath returns <user config dir>/yt-transcriber/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), DefaultConfigFileName)
}

// LoadFileStore reads path; a missing file yields an empty store
func LoadFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, values: make(map[string]interface{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fs, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &fs.values); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if fs.values == nil {
		fs.values = make(map[string]interface{})
	}
	return fs, nil
}

// Path returns the backing file path
func (f *FileStore) Path() string {
	return f.path
}

// Save writes the store as YAML and creates parent directories
func (f *FileStore) Save() error {
	f.mu.RLock()
	data, err := yaml.Marshal(f.values)
	f.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(f.path, data, 0o600)
}

// String returns a string value or "" when unset or of another type
func (f *FileStore) String(key string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if v, ok := f.values[key].(string); ok {
		return v
	}
	return ""
}

// SetString stores a string value
func (f *FileStore) SetString(key string, value string) {
	f.set(key, value)
}

// Int returns an int value or 0 when unset
func (f *FileStore) Int(key string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	switch v := f.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// SetInt stores an int value
func (f *FileStore) SetInt(key string, value int) {
	f.set(key, value)
}

// BoolWithFallback returns a bool value or fallback when unset
func (f *FileStore) BoolWithFallback(key string, fallback bool) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if v, ok := f.values[key].(bool); ok {
		return v
	}
	return fallback
}

// SetBool stores a bool value
func (f *FileStore) SetBool(key string, value bool) {
	f.set(key, value)
}

func (f *FileStore) set(key string, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}
