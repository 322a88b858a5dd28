package interfaces

import (
	"context"
	"errors"
)

var (
	// Storage errors
	ErrStorageKeyNotFound = errors.New("storage key not found")
	ErrStorageInvalidKey  = errors.New("storage key is invalid")
)

// StorageAdapter stores opaque blobs such as config snapshots
type StorageAdapter interface {
	// Put stores data with the given key
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves data by the given key
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns keys starting with prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
}
