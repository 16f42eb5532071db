package marketplace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// CacheConfig configures the durable catalog cache.
type CacheConfig struct {
	// BasePath is the base directory for cache files
	BasePath string
}

// DefaultCacheConfig returns sensible defaults.
func DefaultCacheConfig() CacheConfig {
	homeDir, _ := os.UserHomeDir()
	return CacheConfig{
		BasePath: filepath.Join(homeDir, ".pluginscout", "cache"),
	}
}

// Cache persists one catalog document per source name, with a metadata
// sidecar recording when it was fetched. A corrupted or unreadable entry
// behaves exactly like an absent one; corruption is never fatal.
type Cache struct {
	config CacheConfig
}

// NewCache creates a new cache instance.
func NewCache(config CacheConfig) *Cache {
	return &Cache{config: config}
}

// CachedCatalog is one source's persisted catalog document.
type CachedCatalog struct {
	SourceName string
	Document   []byte
	FetchedAt  time.Time
}

// cacheMeta is the metadata sidecar for a cached document.
type cacheMeta struct {
	FetchedAt time.Time `json:"fetched_at"`
	Checksum  string    `json:"checksum"`
	BaseURL   string    `json:"base_url,omitempty"`
}

// ComputeChecksum returns the hex-encoded SHA256 of data.
func ComputeChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *Cache) documentPath(name string) string {
	return filepath.Join(c.config.BasePath, name+".json")
}

func (c *Cache) metaPath(name string) string {
	return filepath.Join(c.config.BasePath, name+".meta.json")
}

// EnsureDir ensures the cache directory exists.
func (c *Cache) EnsureDir() error {
	return os.MkdirAll(c.config.BasePath, 0o755)
}

// Read returns the cached catalog for a source regardless of age.
// Returns ErrCacheMiss when the entry is absent or corrupted.
func (c *Cache) Read(name string) (CachedCatalog, error) {
	meta, err := c.readMeta(name)
	if err != nil {
		return CachedCatalog{}, err
	}

	data, err := os.ReadFile(c.documentPath(name))
	if err != nil {
		return CachedCatalog{}, ErrCacheMiss
	}

	if ComputeChecksum(data) != meta.Checksum {
		return CachedCatalog{}, ErrCacheMiss
	}

	return CachedCatalog{
		SourceName: name,
		Document:   data,
		FetchedAt:  meta.FetchedAt,
	}, nil
}

// Age returns how long ago the source's catalog was fetched.
// Returns ErrCacheMiss when no usable entry exists.
func (c *Cache) Age(name string) (time.Duration, error) {
	meta, err := c.readMeta(name)
	if err != nil {
		return 0, err
	}
	return time.Since(meta.FetchedAt), nil
}

// Write persists a catalog document for a source. Writes are atomic
// (temp file then rename) so concurrent writers of the same key settle
// last-writer-wins without torn documents. A write stamped earlier than
// the existing entry is dropped: fetched_at never regresses.
func (c *Cache) Write(name string, document []byte, fetchedAt time.Time, baseURL string) error {
	if existing, err := c.readMeta(name); err == nil && existing.FetchedAt.After(fetchedAt) {
		return nil
	}

	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	if err := c.writeAtomic(c.documentPath(name), document); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	meta := cacheMeta{
		FetchedAt: fetchedAt,
		Checksum:  ComputeChecksum(document),
		BaseURL:   baseURL,
	}

	metaData, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	if err := c.writeAtomic(c.metaPath(name), metaData); err != nil {
		return fmt.Errorf("failed to write catalog meta: %w", err)
	}

	return nil
}

// Clear removes all cached data.
func (c *Cache) Clear() error {
	return os.RemoveAll(c.config.BasePath)
}

func (c *Cache) readMeta(name string) (cacheMeta, error) {
	metaData, err := os.ReadFile(c.metaPath(name))
	if err != nil {
		return cacheMeta{}, ErrCacheMiss
	}

	var meta cacheMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		// Corrupted sidecar, treat the entry as absent.
		return cacheMeta{}, ErrCacheMiss
	}

	if meta.FetchedAt.IsZero() {
		return cacheMeta{}, ErrCacheMiss
	}

	return meta, nil
}

func (c *Cache) writeAtomic(path string, data []byte) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
