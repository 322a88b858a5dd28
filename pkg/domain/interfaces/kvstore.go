package interfaces

import (
	"context"
	"errors"
)

//go:generate moq -out ../mock/kvstore.go -pkg mock . KVStore

var (
	// ErrRevisionMismatch is wrapped by KVStore.Put when the requested revision is not the
	// stored revision plus one. Backends must not report any other failure with it.
	ErrRevisionMismatch = errors.New("kv store revision mismatch")
)

// KVEntry is the result of KVStore.Get. An absent or deleted entry has an empty Value; its
// Revision is the revision of the last write or delete (0 if the key was never written).
type KVEntry struct {
	Namespace string
	EntryKey  string
	Value     string
	Revision  int
}

// Exists reports whether the entry holds a value.
func (e *KVEntry) Exists() bool {
	return e != nil && e.Value != ""
}

// KVStore is a remote, revisioned key-value service partitioned by account and namespace.
//
// Revisions start at 1 and grow by one on every Put or Delete of a key, deletes included, so
// they never go backwards. Values are opaque non-empty strings.
type KVStore interface {
	// Get returns the entry. Absence is not an error.
	Get(ctx context.Context, account, namespace, entryKey string) (*KVEntry, error)

	// Put stores value and returns the new revision. With revision 0 the write is
	// unconditional. Otherwise revision must equal the current revision plus one, or the call
	// fails with ErrRevisionMismatch and nothing is written.
	Put(ctx context.Context, account, namespace, entryKey, value string, revision int) (int, error)

	// Delete removes the entry. Deleting an absent entry succeeds.
	Delete(ctx context.Context, account, namespace, entryKey string) error

	// ListNamespaces returns namespaces holding at least one live entry, sorted.
	ListNamespaces(ctx context.Context, account string) ([]string, error)

	// ListEntryKeys returns keys of live entries in namespace, sorted.
	ListEntryKeys(ctx context.Context, account, namespace string) ([]string, error)
}
