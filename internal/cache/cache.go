// Package cache stores fetched auxiliary assets (site icons) on disk, keyed
// by origin URL, with a persistent metadata index. Lookups answer "have we
// already fetched this URL" so pipelines reuse assets instead of re-fetching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Asset is a cached copy of a remote resource.
type Asset struct {
	StoredName  string // file name within the cache directory
	Path        string // absolute local location
	OriginURL   string
	ContentType string
}

// Cache is a URL-keyed file store plus metadata index. Safe for concurrent
// lookups and concurrent store-if-absent races on the same URL: both writers
// produce the same file name and the index tolerates replays.
type Cache struct {
	dir   string
	index *Index
}

// Open creates a cache rooted at dir, creating the directory and index as
// needed. An empty dir places the cache under the user cache directory.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving cache directory: %w", err)
		}
		dir = filepath.Join(base, "dragonfly")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	index, err := OpenIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, err
	}
	return &Cache{dir: dir, index: index}, nil
}

// Close releases the metadata index.
func (c *Cache) Close() error {
	return c.index.Close()
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// Lookup returns the cached asset for url, or nil if the URL has not been
// stored (or its file has since disappeared).
func (c *Cache) Lookup(ctx context.Context, url string) (*Asset, error) {
	storedName, contentType, err := c.index.Lookup(ctx, url)
	if err != nil {
		if err == ErrNotIndexed {
			return nil, nil
		}
		return nil, err
	}

	path := filepath.Join(c.dir, storedName)
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return &Asset{
		StoredName:  storedName,
		Path:        path,
		OriginURL:   url,
		ContentType: contentType,
	}, nil
}

// Store writes data under a name derived from url and returns the stored
// location. The content type is derived from the stored file, not from any
// transport header. Store does not touch the index; callers follow up with
// RegisterMetadata once they accept the asset.
func (c *Cache) Store(ctx context.Context, url string, data []byte) (*Asset, error) {
	name := storedName(url, data)
	path := filepath.Join(c.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("storing %s: %w", url, err)
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(path); err == nil {
		contentType = mt.String()
	}

	return &Asset{
		StoredName:  name,
		Path:        path,
		OriginURL:   url,
		ContentType: contentType,
	}, nil
}

// RegisterMetadata records a stored asset in the metadata index.
func (c *Cache) RegisterMetadata(ctx context.Context, asset *Asset) error {
	return c.index.Register(ctx, asset.StoredName, asset.OriginURL, asset.ContentType)
}

// storedName derives a stable file name from the origin URL, with an
// extension matching the sniffed content. Two stores of the same URL and
// bytes land on the same file.
func storedName(url string, data []byte) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:8]) + mimetype.Detect(data).Extension()
}
