package cs

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"google.golang.org/api/iterator"
)

// Client provides Google Cloud Storage implementation
type Client struct {
	client *storage.Client
	bucket string
	prefix string
}

// Option is a functional option for Client
type Option func(*Client)

// WithPrefix sets the prefix for all object names
func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = prefix
	}
}

// New creates a new Cloud Storage client using Application Default Credentials
func New(ctx context.Context, bucketName string, opts ...Option) (*Client, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required", goerr.T(apperr.ErrTagInvalidInput))
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.T(apperr.ErrTagStorage))
	}

	c := &Client{
		client: client,
		bucket: bucketName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the Cloud Storage client
func (c *Client) Close() error {
	return c.client.Close()
}

// ObjectName returns the object name of key, with the configured prefix
func (c *Client) ObjectName(key string) string {
	return c.prefix + key
}

// Put uploads data as the object of key
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	name := c.ObjectName(key)
	w := c.client.Bucket(c.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/gzip"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object",
			goerr.TV(apperr.StorageKeyKey, key),
			goerr.V("bucket", c.bucket),
			goerr.V("object", name),
			goerr.T(apperr.ErrTagStorage))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to close object writer",
			goerr.TV(apperr.StorageKeyKey, key),
			goerr.V("bucket", c.bucket),
			goerr.V("object", name),
			goerr.T(apperr.ErrTagStorage))
	}
	return nil
}

// Get downloads the object of key
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	name := c.ObjectName(key)
	r, err := c.client.Bucket(c.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(interfaces.ErrStorageKeyNotFound, "object not found",
				goerr.TV(apperr.StorageKeyKey, key), goerr.V("bucket", c.bucket))
		}
		return nil, goerr.Wrap(err, "failed to open object",
			goerr.TV(apperr.StorageKeyKey, key),
			goerr.V("bucket", c.bucket),
			goerr.T(apperr.ErrTagStorage))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object",
			goerr.TV(apperr.StorageKeyKey, key),
			goerr.V("bucket", c.bucket),
			goerr.T(apperr.ErrTagStorage))
	}
	return data, nil
}

// List returns keys (without the client prefix) of objects starting with prefix
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	it := c.client.Bucket(c.bucket).Objects(ctx, &storage.Query{Prefix: c.ObjectName(prefix)})

	keys := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list objects",
				goerr.V("bucket", c.bucket),
				goerr.V("prefix", prefix),
				goerr.T(apperr.ErrTagStorage))
		}
		keys = append(keys, strings.TrimPrefix(attrs.Name, c.prefix))
	}

	slices.Sort(keys)
	return keys, nil
}

var _ interfaces.StorageAdapter = (*Client)(nil)
