package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/cli/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/utils/errors"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string) error {
	if err := newApp(os.Stdout).Run(ctx, args); err != nil {
		errors.Handle(ctx, goerr.Wrap(err, "failed to run app"))
		return err
	}

	return nil
}

// app holds state shared by subcommands of one invocation
type app struct {
	w     io.Writer
	kvCfg config.KVStore

	kv      interfaces.KVStore
	closers []func()
}

// store connects the configured KV backend on first use
func (a *app) store(ctx context.Context) (interfaces.KVStore, error) {
	if a.kv != nil {
		return a.kv, nil
	}

	kv, closer, err := a.kvCfg.Configure(ctx)
	if err != nil {
		return nil, err
	}
	ctxlog.From(ctx).Debug("kv store connected", "kv", a.kvCfg)

	a.kv = kv
	a.closers = append(a.closers, closer)
	return kv, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to write output")
	}
	return nil
}

func newApp(w io.Writer) *cli.Command {
	var loggerCfg config.Logger
	a := &app{w: w}

	var flags []cli.Flag
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, a.kvCfg.Flags()...)

	return &cli.Command{
		Name:   "jiraconf",
		Usage:  "Inspect and maintain the config store of the Jira chat bot",
		Flags:  flags,
		Writer: w,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			a.closers = append(a.closers, closer)

			ctx = ctxlog.With(ctx, logger)
			ctxlog.From(ctx).Debug("base options", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			a.close()
			return nil
		},
		Commands: []*cli.Command{
			cmdListIndex(a),
			cmdShow(a),
			cmdSeed(a),
			cmdClear(a),
			cmdExport(a),
			cmdSnapshots(a),
			cmdServe(a),
			cmdTool(),
		},
	}
}
