package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

const snapshotTimeFormat = "20060102T150405.000000000Z"

// Client stores config snapshots as gzip-compressed JSON
type Client struct {
	adapter interfaces.StorageAdapter
}

// New creates a new storage client
func New(adapter interfaces.StorageAdapter) *Client {
	return &Client{
		adapter: adapter,
	}
}

// SnapshotPrefix returns the key prefix of all snapshots of account
func SnapshotPrefix(account string) string {
	return path.Join("snapshots", account) + "/"
}

// SnapshotKey returns the storage key of snap
func SnapshotKey(snap *config.Snapshot) string {
	return SnapshotPrefix(snap.Account) + snap.CreatedAt.UTC().Format(snapshotTimeFormat) + ".json.gz"
}

// SaveSnapshot stores snap and returns its key
func (c *Client) SaveSnapshot(ctx context.Context, snap *config.Snapshot) (string, error) {
	key := SnapshotKey(snap)

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal snapshot", goerr.TV(apperr.AccountKey, snap.Account))
	}

	compressed, err := compressData(jsonData)
	if err != nil {
		return "", goerr.Wrap(err, "failed to compress snapshot", goerr.TV(apperr.AccountKey, snap.Account))
	}

	if err := c.adapter.Put(ctx, key, compressed); err != nil {
		return "", goerr.Wrap(err, "failed to save snapshot",
			goerr.TV(apperr.AccountKey, snap.Account),
			goerr.TV(apperr.StorageKeyKey, key),
			goerr.T(apperr.ErrTagStorage))
	}
	return key, nil
}

// LoadSnapshot reads the snapshot stored under key
func (c *Client) LoadSnapshot(ctx context.Context, key string) (*config.Snapshot, error) {
	compressed, err := c.adapter.Get(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrStorageKeyNotFound) {
			return nil, goerr.Wrap(apperr.ErrSnapshotNotFound, "snapshot not found",
				goerr.TV(apperr.StorageKeyKey, key))
		}
		return nil, goerr.Wrap(err, "failed to load snapshot",
			goerr.TV(apperr.StorageKeyKey, key), goerr.T(apperr.ErrTagStorage))
	}

	data, err := decompressData(compressed)
	if err != nil {
		return nil, goerr.Wrap(apperr.ErrSnapshotCorrupted, "failed to decompress snapshot",
			goerr.TV(apperr.StorageKeyKey, key), goerr.V("cause", err.Error()))
	}

	var snap config.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, goerr.Wrap(apperr.ErrSnapshotCorrupted, "failed to unmarshal snapshot",
			goerr.TV(apperr.StorageKeyKey, key), goerr.V("cause", err.Error()))
	}
	return &snap, nil
}

// ListSnapshots returns snapshot keys of account, oldest first
func (c *Client) ListSnapshots(ctx context.Context, account string) ([]string, error) {
	keys, err := c.adapter.List(ctx, SnapshotPrefix(account))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list snapshots",
			goerr.TV(apperr.AccountKey, account), goerr.T(apperr.ErrTagStorage))
	}
	return keys, nil
}

func compressData(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return nil, goerr.Wrap(err, "failed to write data to gzip writer")
	}
	if err := writer.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to close gzip writer")
	}
	return buf.Bytes(), nil
}

func decompressData(compressedData []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(compressedData))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gzip reader")
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read from gzip reader")
	}
	return data, nil
}
