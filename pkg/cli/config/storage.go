package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/adapters/cs"
	"github.com/m-mizutani/jiraconf/pkg/adapters/fs"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// Storage contains configuration of the snapshot storage
type Storage struct {
	// Cloud Storage configuration
	Bucket string
	Prefix string

	// File System storage configuration
	FSPath string
}

// Flags returns CLI flags for Storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cloud-storage-bucket",
			Category:    "snapshot storage",
			Sources:     cli.EnvVars("JIRACONF_CLOUD_STORAGE_BUCKET"),
			Usage:       "Cloud Storage bucket for snapshots",
			Destination: &s.Bucket,
		},
		&cli.StringFlag{
			Name:        "cloud-storage-prefix",
			Category:    "snapshot storage",
			Sources:     cli.EnvVars("JIRACONF_CLOUD_STORAGE_PREFIX"),
			Usage:       "Prefix for Cloud Storage objects",
			Destination: &s.Prefix,
		},
		&cli.StringFlag{
			Name:        "file-storage-path",
			Category:    "snapshot storage",
			Usage:       "Directory for snapshots on the local file system",
			Sources:     cli.EnvVars("JIRACONF_FILE_STORAGE_PATH"),
			Destination: &s.FSPath,
		},
	}
}

// LogValue returns the storage configuration for logging
func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", s.Bucket),
		slog.String("prefix", s.Prefix),
		slog.String("fs_path", s.FSPath),
	)
}

// Validate validates the Storage configuration
func (s *Storage) Validate() error {
	if s.Bucket == "" && s.FSPath == "" {
		return goerr.New("snapshot storage is not configured: use --cloud-storage-bucket or --file-storage-path",
			goerr.T(apperr.ErrTagInvalidInput))
	}
	return nil
}

// CreateAdapter creates the storage adapter. Cloud Storage wins when both are set.
func (s *Storage) CreateAdapter(ctx context.Context) (interfaces.StorageAdapter, func(), error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	if s.Bucket != "" {
		opts := []cs.Option{}
		if s.Prefix != "" {
			opts = append(opts, cs.WithPrefix(s.Prefix))
		}

		csClient, err := cs.New(ctx, s.Bucket, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create Cloud Storage client")
		}
		return csClient, func() { safe.Close(ctx, csClient) }, nil
	}

	fsClient, err := fs.New(s.FSPath)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create file system storage adapter")
	}
	return fsClient, func() {}, nil
}
