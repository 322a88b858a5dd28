package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiraconf/pkg/adapters/memory"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/repository/storage"
)

func TestStorageClient_SaveAndLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	client := storage.New(memory.New())

	snap := &config.Snapshot{
		Account:   "bot",
		CreatedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		Entries: []config.SnapshotEntry{
			{Namespace: "jirabot-v1-team-acme", EntryKey: "jiraConfig", Value: `{"jiraHost":"h"}`, Revision: 3},
		},
	}

	key, err := client.SaveSnapshot(ctx, snap)
	gt.NoError(t, err)
	gt.Equal(t, key, "snapshots/bot/20240501T123000.000000000Z.json.gz")

	loaded, err := client.LoadSnapshot(ctx, key)
	gt.NoError(t, err)
	gt.Equal(t, loaded.Account, "bot")
	gt.True(t, loaded.CreatedAt.Equal(snap.CreatedAt))
	gt.Equal(t, loaded.Entries, snap.Entries)
}

func TestStorageClient_ListSnapshots(t *testing.T) {
	ctx := context.Background()
	client := storage.New(memory.New())

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		_, err := client.SaveSnapshot(ctx, &config.Snapshot{Account: "bot", CreatedAt: base.Add(offset)})
		gt.NoError(t, err)
	}
	_, err := client.SaveSnapshot(ctx, &config.Snapshot{Account: "other", CreatedAt: base})
	gt.NoError(t, err)

	keys, err := client.ListSnapshots(ctx, "bot")
	gt.NoError(t, err)
	gt.A(t, keys).Length(3)
	gt.Equal(t, keys[0], "snapshots/bot/20240501T000000.000000000Z.json.gz")
	gt.Equal(t, keys[2], "snapshots/bot/20240501T020000.000000000Z.json.gz")
}

func TestStorageClient_LoadSnapshotNotFound(t *testing.T) {
	_, err := storage.New(memory.New()).LoadSnapshot(context.Background(), "snapshots/bot/none.json.gz")
	gt.True(t, errors.Is(err, apperr.ErrSnapshotNotFound))
	gt.Equal(t, apperr.ExitCodeFromError(err), apperr.ExitNotFound)
}

func TestStorageClient_LoadSnapshotCorrupted(t *testing.T) {
	ctx := context.Background()
	adapter := memory.New()
	gt.NoError(t, adapter.Put(ctx, "snapshots/bot/bad.json.gz", []byte("not gzip")))

	_, err := storage.New(adapter).LoadSnapshot(ctx, "snapshots/bot/bad.json.gz")
	gt.True(t, errors.Is(err, apperr.ErrSnapshotCorrupted))
}
