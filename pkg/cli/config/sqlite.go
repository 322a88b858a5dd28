package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/repository/kvstore/sqlite"
	"github.com/urfave/cli/v3"
)

// SQLite contains configuration for the SQLite KV backend
type SQLite struct {
	Path string
}

func (s *SQLite) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sqlite-path",
			Category:    "sqlite",
			Usage:       "Database file of the sqlite backend",
			Sources:     cli.EnvVars("JIRACONF_SQLITE_PATH"),
			Value:       "jiraconf.db",
			Destination: &s.Path,
		},
	}
}

func (s SQLite) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", s.Path))
}

func (s *SQLite) Configure(ctx context.Context) (*sqlite.Client, error) {
	if s.Path == "" {
		return nil, goerr.New("--sqlite-path is required for sqlite backend", goerr.T(apperr.ErrTagInvalidInput))
	}
	return sqlite.New(ctx, s.Path)
}
