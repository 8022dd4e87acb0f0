package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores layout and artifact entries as JSON files under a
// per-user cache directory. Entries shard into one subdirectory per key
// kind ("layout", "artifact"), so `synapse cache clear` and manual
// inspection see at a glance what is cached.
type FileCache struct {
	dir string
}

// NewFileCache opens a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk envelope around a cached payload. StoredAt is
// informational; ExpiresAt drives eviction on read.
type fileEntry struct {
	Payload   []byte    `json:"payload"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Get returns the cached payload for key. Corrupt and expired entries are
// removed and read as misses, so an interrupted write or an envelope from
// an older version never surfaces as an error.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Payload, true, nil
}

// Set stores a payload under key. A zero ttl keeps the entry until it is
// deleted or cleared. The entry lands via a temp file and rename: a CLI
// run and a serve process may share the directory, and a reader must
// never see a half-written envelope.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{
		Payload:  data,
		StoredAt: time.Now().UTC(),
	}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the entry for key. Deleting an absent key is not an
// error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; every operation opens and closes its own files.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to <dir>/<kind>/<sha256 of key>.json. Hashing the full
// key keeps filenames uniform regardless of what the keyer put in it.
func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, kindOf(key), Hash([]byte(key))+".json")
}

// kindOf extracts the leading key segment ("layout", "artifact", or a
// scope prefix) for sharding.
func kindOf(key string) string {
	kind, _, ok := strings.Cut(key, ":")
	if !ok || kind == "" {
		return "misc"
	}
	return kind
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
