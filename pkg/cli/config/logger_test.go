package config_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiraconf/pkg/cli/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/urfave/cli/v3"
)

func configureLogger(t *testing.T, args ...string) (*slog.Logger, func(), error) {
	t.Helper()
	var logCfg config.Logger
	var (
		logger *slog.Logger
		closer func()
	)
	cmd := &cli.Command{
		Name:  "jiraconf",
		Flags: logCfg.Flags(),
		Action: func(_ context.Context, _ *cli.Command) error {
			var err error
			logger, closer, err = logCfg.Configure()
			return err
		},
	}
	err := cmd.Run(context.Background(), append([]string{"jiraconf"}, args...))
	return logger, closer, err
}

func TestLogger_WritesJSONToFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	path := filepath.Join(t.TempDir(), "jiraconf.log")

	logger, closer, err := configureLogger(t, "--log-format", "json", "--log-output", path)
	gt.NoError(t, err).Required()
	logger.Info("seeded", "team", "acme")
	closer()

	raw, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	gt.S(t, string(raw)).Contains(`"team":"acme"`)
}

func TestLogger_RejectsUnknownFormat(t *testing.T) {
	_, _, err := configureLogger(t, "--log-format", "text")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, apperr.ErrTagInvalidInput))
}

func TestLogger_RejectsUnknownLevel(t *testing.T) {
	_, _, err := configureLogger(t, "--log-level", "trace")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, apperr.ErrTagInvalidInput))
}
