package axe

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Store persists PersistentStatistics as an indented JSON file.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStatsPath returns stats.json in the per-user config directory.
func DefaultStatsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "axe", "stats.json"), nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the statistics. A missing or unparsable file yields the zero
// state.
func (s *Store) Load() PersistentStatistics {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return PersistentStatistics{}
	}
	var st PersistentStatistics
	if err := json.Unmarshal(data, &st); err != nil {
		return PersistentStatistics{}
	}
	return st
}

// Save overwrites the file with the whole structure. The write goes through
// a temporary file so a failed save leaves the previous file intact.
func (s *Store) Save(st PersistentStatistics) error {
	data, err := MarshalStats(st)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".stats-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// MarshalStats renders statistics the way Save writes them.
func MarshalStats(st PersistentStatistics) ([]byte, error) {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
