package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/repository/kvstore/firestore"
	"github.com/urfave/cli/v3"
)

// Firestore contains configuration for the Firestore KV backend
type Firestore struct {
	ProjectID  string
	DatabaseID string
	Collection string
}

// Flags returns CLI flags for Firestore configuration
func (f *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "firestore",
			Usage:       "Google Cloud Project ID for Firestore",
			Sources:     cli.EnvVars("JIRACONF_FIRESTORE_PROJECT_ID"),
			Destination: &f.ProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "firestore",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("JIRACONF_FIRESTORE_DATABASE_ID"),
			Value:       "(default)",
			Destination: &f.DatabaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Category:    "firestore",
			Usage:       "Collection holding KV entries",
			Sources:     cli.EnvVars("JIRACONF_FIRESTORE_COLLECTION"),
			Value:       firestore.DefaultCollection,
			Destination: &f.Collection,
		},
	}
}

// LogValue returns the Firestore configuration for logging
func (f Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", f.ProjectID),
		slog.String("database_id", f.DatabaseID),
		slog.String("collection", f.Collection),
	)
}

// Validate checks the Firestore configuration
func (f *Firestore) Validate() error {
	if f.ProjectID == "" {
		return goerr.New("--firestore-project-id is required for firestore backend",
			goerr.T(apperr.ErrTagInvalidInput))
	}
	return nil
}

// Configure creates the Firestore KV client
func (f *Firestore) Configure(ctx context.Context) (*firestore.Client, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	opts := []firestore.Option{}
	if f.Collection != "" {
		opts = append(opts, firestore.WithCollection(f.Collection))
	}
	return firestore.New(ctx, f.ProjectID, f.DatabaseID, opts...)
}
