package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/repository/storage"
	"github.com/m-mizutani/jiraconf/pkg/utils/async"
)

// Maintenance runs bulk operations on a KV account. It talks to the KV store directly and
// neither reads nor updates any ConfigStore cache.
type Maintenance struct {
	kv        interfaces.KVStore
	account   string
	snapshots *storage.Client
	now       func() time.Time
}

// MaintenanceOption is a functional option for Maintenance
type MaintenanceOption func(*Maintenance)

// WithSnapshotStorage enables Export and LoadSnapshot
func WithSnapshotStorage(client *storage.Client) MaintenanceOption {
	return func(m *Maintenance) {
		m.snapshots = client
	}
}

// WithMaintenanceClock replaces time.Now for snapshot timestamps
func WithMaintenanceClock(now func() time.Time) MaintenanceOption {
	return func(m *Maintenance) {
		m.now = now
	}
}

// NewMaintenance creates maintenance operations for account
func NewMaintenance(kv interfaces.KVStore, account string, opts ...MaintenanceOption) *Maintenance {
	m := &Maintenance{
		kv:      kv,
		account: account,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ClearAll dispatches a delete for every live entry of the account and returns the number of
// deletes dispatched. It does not wait for them; failures are only logged.
func (m *Maintenance) ClearAll(ctx context.Context) (int, error) {
	logger := ctxlog.From(ctx)

	namespaces, err := m.kv.ListNamespaces(ctx, m.account)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list namespaces", goerr.TV(apperr.AccountKey, m.account))
	}

	dispatched := 0
	for _, namespace := range namespaces {
		keys, err := m.kv.ListEntryKeys(ctx, m.account, namespace)
		if err != nil {
			return dispatched, goerr.Wrap(err, "failed to list entry keys",
				goerr.TV(apperr.AccountKey, m.account),
				goerr.TV(apperr.NamespaceKey, namespace))
		}

		for _, key := range keys {
			async.Dispatch(ctx, func(ctx context.Context) error {
				if err := m.kv.Delete(ctx, m.account, namespace, key); err != nil {
					return goerr.Wrap(err, "failed to clear entry",
						goerr.TV(apperr.NamespaceKey, namespace),
						goerr.TV(apperr.EntryKeyKey, key))
				}
				return nil
			})
			dispatched++
		}
	}

	logger.Info("clear dispatched", "account", m.account, "namespaces", len(namespaces), "entries", dispatched)
	return dispatched, nil
}

// Export writes a snapshot of every live entry to snapshot storage and returns its key.
func (m *Maintenance) Export(ctx context.Context) (string, error) {
	if m.snapshots == nil {
		return "", goerr.New("snapshot storage is not configured", goerr.T(apperr.ErrTagInvalidInput))
	}

	snap := &config.Snapshot{
		Account:   m.account,
		CreatedAt: m.now().UTC(),
		Entries:   []config.SnapshotEntry{},
	}

	namespaces, err := m.kv.ListNamespaces(ctx, m.account)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list namespaces", goerr.TV(apperr.AccountKey, m.account))
	}

	for _, namespace := range namespaces {
		keys, err := m.kv.ListEntryKeys(ctx, m.account, namespace)
		if err != nil {
			return "", goerr.Wrap(err, "failed to list entry keys", goerr.TV(apperr.NamespaceKey, namespace))
		}

		for _, key := range keys {
			entry, err := m.kv.Get(ctx, m.account, namespace, key)
			if err != nil {
				return "", goerr.Wrap(err, "failed to read entry",
					goerr.TV(apperr.NamespaceKey, namespace),
					goerr.TV(apperr.EntryKeyKey, key))
			}
			// Deleted between listing and reading
			if !entry.Exists() {
				continue
			}
			snap.Entries = append(snap.Entries, config.SnapshotEntry{
				Namespace: namespace,
				EntryKey:  key,
				Value:     entry.Value,
				Revision:  entry.Revision,
			})
		}
	}

	storageKey, err := m.snapshots.SaveSnapshot(ctx, snap)
	if err != nil {
		return "", err
	}

	ctxlog.From(ctx).Info("snapshot exported", "account", m.account, "key", storageKey, "entries", len(snap.Entries))
	return storageKey, nil
}

// LoadSnapshot reads a snapshot written by Export
func (m *Maintenance) LoadSnapshot(ctx context.Context, key string) (*config.Snapshot, error) {
	if m.snapshots == nil {
		return nil, goerr.New("snapshot storage is not configured", goerr.T(apperr.ErrTagInvalidInput))
	}
	return m.snapshots.LoadSnapshot(ctx, key)
}

// ListSnapshots returns keys of the account's snapshots, oldest first
func (m *Maintenance) ListSnapshots(ctx context.Context) ([]string, error) {
	if m.snapshots == nil {
		return nil, goerr.New("snapshot storage is not configured", goerr.T(apperr.ErrTagInvalidInput))
	}
	return m.snapshots.ListSnapshots(ctx, m.account)
}
