package firestore

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per entry
const DefaultCollection = "kv_entries"

// Client is a Firestore implementation of interfaces.KVStore
type Client struct {
	client     *firestore.Client
	projectID  string
	databaseID string
	collection string
}

var _ interfaces.KVStore = (*Client)(nil)

type kvDocument struct {
	Account   string
	Namespace string
	EntryKey  string
	Value     string
	Revision  int
	Deleted   bool
	UpdatedAt time.Time
}

// Option configures Client
type Option func(*Client)

// WithCollection overrides the collection name, mainly for isolating tests
func WithCollection(name string) Option {
	return func(c *Client) {
		c.collection = name
	}
}

// New creates a new Firestore client using Application Default Credentials
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Client, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is required", goerr.T(apperr.ErrTagInvalidInput))
	}
	if databaseID == "" {
		databaseID = "(default)"
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
			goerr.T(apperr.ErrTagFirestore))
	}

	c := &Client{
		client:     client,
		projectID:  projectID,
		databaseID: databaseID,
		collection: DefaultCollection,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the Firestore client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// docID joins escaped parts. Escaping removes '/' so the ID is a single path segment.
func docID(account, namespace, entryKey string) string {
	return strings.Join([]string{
		url.QueryEscape(account),
		url.QueryEscape(namespace),
		url.QueryEscape(entryKey),
	}, "|")
}

func (c *Client) ref(account, namespace, entryKey string) *firestore.DocumentRef {
	return c.client.Collection(c.collection).Doc(docID(account, namespace, entryKey))
}

func readDocument(snap *firestore.DocumentSnapshot) (*kvDocument, error) {
	var doc kvDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode kv document",
			goerr.V("doc_id", snap.Ref.ID), goerr.T(apperr.ErrTagCorruptedData))
	}
	return &doc, nil
}

func (c *Client) Get(ctx context.Context, account, namespace, entryKey string) (*interfaces.KVEntry, error) {
	result := &interfaces.KVEntry{Namespace: namespace, EntryKey: entryKey}

	snap, err := c.ref(account, namespace, entryKey).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return result, nil
		}
		return nil, goerr.Wrap(err, "failed to get kv entry",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
			goerr.T(apperr.ErrTagFirestore))
	}

	doc, err := readDocument(snap)
	if err != nil {
		return nil, err
	}
	if !doc.Deleted {
		result.Value = doc.Value
	}
	result.Revision = doc.Revision
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

	// Timestamp is taken outside the transaction since the function may be retried
	now := time.Now().UTC()
	ref := c.ref(account, namespace, entryKey)
	var next int

	err := c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		current := 0
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			doc, err := readDocument(snap)
			if err != nil {
				return err
			}
			current = doc.Revision
		case status.Code(err) == codes.NotFound:
		default:
			return goerr.Wrap(err, "failed to read kv document", goerr.T(apperr.ErrTagFirestore))
		}

		if revision != 0 && revision != current+1 {
			return goerr.Wrap(interfaces.ErrRevisionMismatch, "revision mismatch",
				goerr.TV(apperr.RevisionKey, revision),
				goerr.TV(apperr.CurrentKey, current),
				goerr.T(apperr.ErrTagRevisionConflict))
		}

		next = current + 1
		return tx.Set(ref, &kvDocument{
			Account:   account,
			Namespace: namespace,
			EntryKey:  entryKey,
			Value:     value,
			Revision:  next,
			UpdatedAt: now,
		})
	})
	if err != nil {
		opts := []goerr.Option{
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
		}
		if !errors.Is(err, interfaces.ErrRevisionMismatch) {
			opts = append(opts, goerr.T(apperr.ErrTagFirestore))
		}
		return 0, goerr.Wrap(err, "failed to put kv entry", opts...)
	}
	return next, nil
}

func (c *Client) Delete(ctx context.Context, account, namespace, entryKey string) error {
	now := time.Now().UTC()
	ref := c.ref(account, namespace, entryKey)

	err := c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return goerr.Wrap(err, "failed to read kv document", goerr.T(apperr.ErrTagFirestore))
		}

		doc, err := readDocument(snap)
		if err != nil {
			return err
		}
		if doc.Deleted {
			return nil
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "Value", Value: ""},
			{Path: "Deleted", Value: true},
			{Path: "Revision", Value: doc.Revision + 1},
			{Path: "UpdatedAt", Value: now},
		})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete kv entry",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, entryKey),
			goerr.T(apperr.ErrTagFirestore))
	}
	return nil
}

func (c *Client) ListNamespaces(ctx context.Context, account string) ([]string, error) {
	iter := c.client.Collection(c.collection).
		Where("Account", "==", account).
		Where("Deleted", "==", false).
		Documents(ctx)

	seen := make(map[string]struct{})
	if err := c.scan(iter, func(doc *kvDocument) {
		seen[doc.Namespace] = struct{}{}
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to list namespaces", goerr.TV(apperr.AccountKey, account))
	}

	result := make([]string, 0, len(seen))
	for ns := range seen {
		result = append(result, ns)
	}
	sort.Strings(result)
	return result, nil
}

func (c *Client) ListEntryKeys(ctx context.Context, account, namespace string) ([]string, error) {
	iter := c.client.Collection(c.collection).
		Where("Account", "==", account).
		Where("Namespace", "==", namespace).
		Where("Deleted", "==", false).
		Documents(ctx)

	result := []string{}
	if err := c.scan(iter, func(doc *kvDocument) {
		result = append(result, doc.EntryKey)
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to list entry keys",
			goerr.TV(apperr.AccountKey, account),
			goerr.TV(apperr.NamespaceKey, namespace))
	}
	sort.Strings(result)
	return result, nil
}

func (c *Client) scan(iter *firestore.DocumentIterator, fn func(doc *kvDocument)) error {
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate kv documents", goerr.T(apperr.ErrTagFirestore))
		}

		doc, err := readDocument(snap)
		if err != nil {
			return err
		}
		fn(doc)
	}
}
