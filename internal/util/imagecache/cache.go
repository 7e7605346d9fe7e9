// Package imagecache downloads remote images and caches them on disk.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/jmylchreest/swatch/internal/security"
	httputil "github.com/jmylchreest/swatch/internal/util/http"
)

// FetchFunc retrieves the body of a URL.
type FetchFunc func(ctx context.Context, url string, opts httputil.FetchOptions) ([]byte, error)

// Cache stores downloaded images in a directory, keyed by URL.
type Cache struct {
	dir   string
	fetch FetchFunc
}

// New returns a cache rooted at dir. An empty dir selects DefaultCacheDir.
// A nil fetch uses httputil.Fetch.
func New(dir string, fetch FetchFunc) (*Cache, error) {
	if dir == "" {
		defaultDir, err := DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = defaultDir
	}
	if fetch == nil {
		fetch = httputil.Fetch
	}
	return &Cache{dir: dir, fetch: fetch}, nil
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "swatch", "images"), nil
	}
	return filepath.Join(cacheDir, "swatch", "images"), nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Filename returns the deterministic cache file name for a URL: a SHA-256
// prefix of the URL plus the extension of its path. Compression suffixes are
// kept so cached files decompress the same way as the original.
func Filename(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))

	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = path.Ext(u.Path)
		if ext == ".xz" || ext == ".zst" || ext == ".zstd" {
			ext = path.Ext(u.Path[:len(u.Path)-len(ext)]) + ext
		}
	}
	if ext == "" || len(ext) > 11 {
		ext = ".img"
	}
	return fmt.Sprintf("%x%s", hash[:16], ext)
}

// Path returns the local path for a URL, downloading it first unless it is
// already cached.
func (c *Cache) Path(ctx context.Context, rawURL string) (string, error) {
	if err := security.ValidateHTTPURL(rawURL); err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	cachedPath := filepath.Join(c.dir, Filename(rawURL))
	if _, err := os.Stat(cachedPath); err == nil {
		return cachedPath, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := c.fetch(ctx, rawURL, httputil.FetchOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	// Write to a temporary file first so readers never see a partial image.
	tmp, err := os.CreateTemp(c.dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachedPath); err != nil {
		return "", fmt.Errorf("failed to store cached image: %w", err)
	}
	return cachedPath, nil
}
