package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	account     TEXT    NOT NULL,
	namespace   TEXT    NOT NULL,
	entry_key   TEXT    NOT NULL,
	entry_value TEXT,
	revision    INTEGER NOT NULL,
	PRIMARY KEY (account, namespace, entry_key)
)`

// Client is a SQLite implementation of interfaces.KVStore. A deleted entry keeps its row with a
// NULL value.
type Client struct {
	db   *sql.DB
	path string
}

var _ interfaces.KVStore = (*Client)(nil)

// New opens (or creates) the database file at path and applies the schema
func New(ctx context.Context, path string) (*Client, error) {
	if path == "" {
		return nil, goerr.New("sqlite path is required", goerr.T(apperr.ErrTagInvalidInput))
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database",
			goerr.V("path", path), goerr.T(apperr.ErrTagSQLite))
	}
	// Revision checks run inside a read-then-write transaction.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to apply sqlite schema",
			goerr.V("path", path), goerr.T(apperr.ErrTagSQLite))
	}

	return &Client{db: db, path: path}, nil
}

// Close closes the database
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *Client) Get(ctx context.Context, account, namespace, entryKey string) (*interfaces.KVEntry, error) {
	var value sql.NullString
	var revision int

	row := c.db.QueryRowContext(ctx,
		`SELECT entry_value, revision FROM kv_entries WHERE account = ? AND namespace = ? AND entry_key = ?`,
		account, namespace, entryKey)
	err := row.Scan(&value, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return &interfaces.KVEntry{Namespace: namespace, EntryKey: entryKey}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get kv entry",
			goerr.TV(apperr.AccountKey, account),
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
			goerr.T(apperr.ErrTagSQLite))
	}

	return &interfaces.KVEntry{
		Namespace: namespace,
		EntryKey:  entryKey,
		Value:     value.String,
		Revision:  revision,
	}, nil
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

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to begin transaction", goerr.T(apperr.ErrTagSQLite))
	}
	defer func() { _ = tx.Rollback() }()

	current := 0
	err = tx.QueryRowContext(ctx,
		`SELECT revision FROM kv_entries WHERE account = ? AND namespace = ? AND entry_key = ?`,
		account, namespace, entryKey).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, goerr.Wrap(err, "failed to read current revision",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
			goerr.T(apperr.ErrTagSQLite))
	}

	if revision != 0 && revision != current+1 {
		return 0, goerr.Wrap(interfaces.ErrRevisionMismatch, "revision mismatch",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
			goerr.TV(apperr.RevisionKey, revision),
			goerr.TV(apperr.CurrentKey, current),
			goerr.T(apperr.ErrTagRevisionConflict))
	}

	next := current + 1
	_, err = tx.ExecContext(ctx, `
INSERT INTO kv_entries (account, namespace, entry_key, entry_value, revision)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (account, namespace, entry_key)
DO UPDATE SET entry_value = excluded.entry_value, revision = excluded.revision`,
		account, namespace, entryKey, value, next)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to write kv entry",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
			goerr.T(apperr.ErrTagSQLite))
	}

	if err := tx.Commit(); err != nil {
		return 0, goerr.Wrap(err, "failed to commit kv entry",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
			goerr.T(apperr.ErrTagSQLite))
	}
	return next, nil
}

func (c *Client) Delete(ctx context.Context, account, namespace, entryKey string) error {
	_, err := c.db.ExecContext(ctx, `
UPDATE kv_entries SET entry_value = NULL, revision = revision + 1
WHERE account = ? AND namespace = ? AND entry_key = ? AND entry_value IS NOT NULL`,
		account, namespace, entryKey)
	if err != nil {
		return goerr.Wrap(err, "failed to delete kv entry",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
			goerr.T(apperr.ErrTagSQLite))
	}
	return nil
}

func (c *Client) ListNamespaces(ctx context.Context, account string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT DISTINCT namespace FROM kv_entries
WHERE account = ? AND entry_value IS NOT NULL
ORDER BY namespace`, account)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list namespaces",
			goerr.TV(apperr.AccountKey, account), goerr.T(apperr.ErrTagSQLite))
	}
	return scanStrings(rows)
}

func (c *Client) ListEntryKeys(ctx context.Context, account, namespace string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT entry_key FROM kv_entries
WHERE account = ? AND namespace = ? AND entry_value IS NOT NULL
ORDER BY entry_key`, account, namespace)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list entry keys",
			goerr.TV(apperr.AccountKey, account),
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.T(apperr.ErrTagSQLite))
	}
	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, goerr.Wrap(err, "failed to scan row", goerr.T(apperr.ErrTagSQLite))
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate rows", goerr.T(apperr.ErrTagSQLite))
	}
	return result, nil
}
