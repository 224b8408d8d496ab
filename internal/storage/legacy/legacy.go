// Package legacy reads and writes the prior storage generation: a single
// flat key/value file where each collection is one serialized JSON list
// under its collection name, alongside a handful of scalar flags.
//
// Everything here is synchronous by design; the adapter exists so the
// migration controller and the session provider can keep honoring data
// written by the old format.
package legacy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys used by the old storage generation. Collection lists live under
// their plain collection names.
const (
	KeyMigrationComplete = "migrationComplete"
	KeyCurrentUser       = "currentUser"
	KeyLoggedIn          = "isLoggedIn"
	KeyUserSettings      = "userSettings"
	KeyScannedBarcodes   = "scannedBarcodes"
)

// Store is the flat key/value file. The zero value is not usable; call Open.
type Store struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

// Open loads the flat store at path. A missing file is an empty store,
// never an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]string{}}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read legacy store: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("parse legacy store: %w", err)
		}
	}
	return s, nil
}

// Get returns the raw value for key. Absent keys report ok=false.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set writes the value and persists immediately.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flush()
}

// Delete removes the key and persists immediately. Deleting an absent key
// is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// ReadList parses the key's value as a JSON array of records. An absent
// key is an empty collection, not an error.
func (s *Store) ReadList(key string) ([]json.RawMessage, error) {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parse legacy %s list: %w", key, err)
	}
	return items, nil
}

// WriteList serializes records as a JSON array under key.
func (s *Store) WriteList(key string, items []json.RawMessage) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("serialize legacy %s list: %w", key, err)
	}
	return s.Set(key, string(data))
}

// flush writes the whole map back to disk. Caller holds the lock.
//
// The write goes to a temp file renamed over the target, so a crash
// mid-write cannot corrupt the file that holds the migration flag and
// the session blob.
func (s *Store) flush() error {
	data, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("serialize legacy store: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create legacy store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write legacy store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write legacy store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write legacy store: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write legacy store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write legacy store: %w", err)
	}
	return nil
}
