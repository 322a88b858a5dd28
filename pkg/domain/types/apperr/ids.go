package apperr

import "github.com/m-mizutani/goerr/v2"

// Backend errors shared by KV store implementations
var (
	ErrEmptyValue = goerr.New("empty value is not storable",
		goerr.T(ErrTagInvalidInput)).ID("ERR_KV_EMPTY_VALUE")

	ErrInvalidRevision = goerr.New("revision must not be negative",
		goerr.T(ErrTagInvalidInput)).ID("ERR_KV_INVALID_REVISION")
)

// Snapshot errors
var (
	ErrSnapshotNotFound = goerr.New("snapshot not found",
		goerr.T(ErrTagNotFound)).ID("ERR_SNAPSHOT_NOT_FOUND")

	ErrSnapshotCorrupted = goerr.New("snapshot is corrupted",
		goerr.T(ErrTagCorruptedData)).ID("ERR_SNAPSHOT_CORRUPTED")
)
