package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStore is a file-based map store for CLI usage.
// Documents are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based map store.
// If baseDir is empty, defaults to ~/.config/synapse/maps/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "synapse", "maps")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create map dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) mapPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.mapPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read map file: %w", err)
	}

	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}
	return &m, nil
}

func (s *FileStore) Put(ctx context.Context, m *Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal map: %w", err)
	}
	if err := os.WriteFile(s.mapPath(m.ID), data, 0600); err != nil {
		return fmt.Errorf("write map file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.mapPath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove map file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]*Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read map dir: %w", err)
	}

	var maps []*Map
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var m Map
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		maps = append(maps, &m)
	}
	sort.Slice(maps, func(i, j int) bool {
		return maps[i].UpdatedAt.After(maps[j].UpdatedAt)
	})
	return maps, nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the base directory for map files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
