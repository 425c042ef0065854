package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskLayer persists entries as JSON files so the latest report survives restarts
type DiskLayer struct {
	dir string
	ttl time.Duration
}

// NewDiskLayer stores files under dir; ttl <= 0 never expires them
func NewDiskLayer(dir string, ttl time.Duration) *DiskLayer {
	return &DiskLayer{dir: dir, ttl: ttl}
}

type diskEntry struct {
	Data      json.RawMessage `json:"data"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt time.Time       `json:"expires_at,omitempty"`
}

// Get reads an entry; expired or unreadable files count as misses
func (d *DiskLayer) Get(key string) ([]byte, bool) {
	path := d.path(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return entry.Data, true
}

// Put writes the entry to a temp file and renames it into place,
// so a reader never sees a partial report.
func (d *DiskLayer) Put(key string, value []byte) error {
	if !json.Valid(value) {
		return errors.New("disk layer stores JSON only")
	}

	now := time.Now()
	entry := diskEntry{Data: value, StoredAt: now}
	if d.ttl > 0 {
		entry.ExpiresAt = now.Add(d.ttl)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.path(key)); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}

	return nil
}

// Drop removes an entry; a missing entry is not an error
func (d *DiskLayer) Drop(key string) error {
	if err := os.Remove(d.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

func (d *DiskLayer) path(key string) string {
	return filepath.Join(d.dir, fileName(key))
}
