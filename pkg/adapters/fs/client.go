package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

// DefaultDirPermissions is applied to created directories
const DefaultDirPermissions os.FileMode = 0755

// Client stores blobs as files under a base directory. Keys use '/' as separator.
type Client struct {
	baseDir     string
	permissions os.FileMode
	mu          sync.RWMutex
}

// Option is a functional option for Client
type Option func(*Client)

// WithPermissions sets the mode of created directories
func WithPermissions(mode os.FileMode) Option {
	return func(c *Client) {
		c.permissions = mode
	}
}

// New creates the base directory if needed and returns a client rooted at it
func New(baseDir string, opts ...Option) (*Client, error) {
	if baseDir == "" {
		return nil, goerr.New("base directory is required", goerr.T(apperr.ErrTagInvalidInput))
	}

	absPath, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid base directory", goerr.V("base_dir", baseDir))
	}

	c := &Client{
		baseDir:     absPath,
		permissions: DefaultDirPermissions,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := os.MkdirAll(c.baseDir, c.permissions); err != nil {
		return nil, goerr.Wrap(err, "failed to create base directory",
			goerr.V("base_dir", c.baseDir), goerr.T(apperr.ErrTagStorage))
	}
	return c, nil
}

// Put writes data to the file of key, creating parent directories
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	filePath := c.filePath(key)
	if err := os.MkdirAll(filepath.Dir(filePath), c.permissions); err != nil {
		return goerr.Wrap(err, "failed to create directory",
			goerr.TV(apperr.StorageKeyKey, key), goerr.T(apperr.ErrTagStorage))
	}
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write file",
			goerr.TV(apperr.StorageKeyKey, key), goerr.T(apperr.ErrTagStorage))
	}
	return nil
}

// Get reads the file of key
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 - key is checked by validateKey
	data, err := os.ReadFile(c.filePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(interfaces.ErrStorageKeyNotFound, "file not found",
				goerr.TV(apperr.StorageKeyKey, key))
		}
		return nil, goerr.Wrap(err, "failed to read file",
			goerr.TV(apperr.StorageKeyKey, key), goerr.T(apperr.ErrTagStorage))
	}
	return data, nil
}

// List walks the base directory and returns keys starting with prefix
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := []string{}
	err := filepath.WalkDir(c.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(c.baseDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list files",
			goerr.V("prefix", prefix), goerr.T(apperr.ErrTagStorage))
	}

	slices.Sort(keys)
	return keys, nil
}

// validateKey rejects keys that could escape the base directory
func validateKey(key string) error {
	if key == "" {
		return goerr.Wrap(interfaces.ErrStorageInvalidKey, "empty storage key")
	}

	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return goerr.Wrap(interfaces.ErrStorageInvalidKey, "path traversal in storage key",
			goerr.TV(apperr.StorageKeyKey, key), goerr.T(apperr.ErrTagInvalidInput))
	}

	for _, char := range key {
		if char < 32 || char == 127 {
			return goerr.Wrap(interfaces.ErrStorageInvalidKey, "control character in storage key",
				goerr.T(apperr.ErrTagInvalidInput))
		}
	}
	return nil
}

func (c *Client) filePath(key string) string {
	return filepath.Join(c.baseDir, filepath.FromSlash(key))
}

var _ interfaces.StorageAdapter = (*Client)(nil)
