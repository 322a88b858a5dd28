package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

type entry struct {
	value    string
	revision int
}

type entryID struct {
	account   string
	namespace string
	key       string
}

// Client is an in-memory implementation of interfaces.KVStore. Deleted entries are kept as
// tombstones so their revision keeps growing.
type Client struct {
	mu      sync.RWMutex
	entries map[entryID]*entry
}

var _ interfaces.KVStore = (*Client)(nil)

// New creates an empty in-memory store
func New() *Client {
	return &Client{
		entries: make(map[entryID]*entry),
	}
}

func (c *Client) Get(ctx context.Context, account, namespace, entryKey string) (*interfaces.KVEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := &interfaces.KVEntry{Namespace: namespace, EntryKey: entryKey}
	if e, ok := c.entries[entryID{account, namespace, entryKey}]; ok {
		result.Value = e.value
		result.Revision = e.revision
	}
	return result, nil
}

func (c *Client) Put(ctx context.Context, account, namespace, entryKey, value string, revision int) (int, error) {
	if value == "" {
		return 0, goerr.Wrap(apperr.ErrEmptyValue, "empty value is not storable",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey))
	}
	if revision < 0 {
		return 0, goerr.Wrap(apperr.ErrInvalidRevision, "negative revision",
			goerr.TV(apperr.RevisionKey, revision))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := entryID{account, namespace, entryKey}
	current := 0
	if e, ok := c.entries[id]; ok {
		current = e.revision
	}

	if revision != 0 && revision != current+1 {
		return 0, goerr.Wrap(interfaces.ErrRevisionMismatch, "revision mismatch",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
			goerr.TV(apperr.RevisionKey, revision),
			goerr.TV(apperr.CurrentKey, current),
			goerr.T(apperr.ErrTagRevisionConflict))
	}

	c.entries[id] = &entry{value: value, revision: current + 1}
	return current + 1, nil
}

func (c *Client) Delete(ctx context.Context, account, namespace, entryKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[entryID{account, namespace, entryKey}]
	if !ok || e.value == "" {
		return nil
	}

	e.value = ""
	e.revision++
	return nil
}

func (c *Client) ListNamespaces(ctx context.Context, account string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for id, e := range c.entries {
		if id.account == account && e.value != "" {
			seen[id.namespace] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

func (c *Client) ListEntryKeys(ctx context.Context, account, namespace string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for id, e := range c.entries {
		if id.account == account && id.namespace == namespace && e.value != "" {
			seen[id.key] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
