package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
)

// Client keeps blobs in process memory. Used for tests and the memory KV backend setup.
type Client struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// New creates a new memory storage client
func New() *Client {
	return &Client{
		data: make(map[string][]byte),
	}
}

// Put stores a copy of data under key
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return goerr.Wrap(interfaces.ErrStorageInvalidKey, "empty storage key")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = slices.Clone(data)
	return nil
}

// Get returns a copy of the blob stored under key
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.data[key]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrStorageKeyNotFound, "blob not found", goerr.V("key", key))
	}
	return slices.Clone(data), nil
}

// List returns stored keys starting with prefix
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := []string{}
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

var _ interfaces.StorageAdapter = (*Client)(nil)
