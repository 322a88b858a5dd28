package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/cli/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/repository/storage"
	"github.com/m-mizutani/jiraconf/pkg/usecase"
	"github.com/m-mizutani/jiraconf/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdClear(a *app) *cli.Command {
	var yes bool

	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every entry of the account",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Usage:       "Confirm deleting every entry",
				Destination: &yes,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !yes {
				return goerr.New("clear deletes every entry of the account, pass --yes to proceed",
					goerr.TV(apperr.AccountKey, a.kvCfg.Account),
					goerr.T(apperr.ErrTagInvalidInput))
			}

			kv, err := a.store(ctx)
			if err != nil {
				return err
			}

			// Deletes must finish before the process exits
			n, err := usecase.NewMaintenance(kv, a.kvCfg.Account).ClearAll(async.WithSyncMode(ctx))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(a.w, "cleared %d entries\n", n)
			return err
		},
	}
}

// maintenance connects both the KV store and snapshot storage
func (a *app) maintenance(ctx context.Context, storageCfg *config.Storage) (*usecase.Maintenance, error) {
	kv, err := a.store(ctx)
	if err != nil {
		return nil, err
	}

	adapter, closer, err := storageCfg.CreateAdapter(ctx)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closer)

	return usecase.NewMaintenance(kv, a.kvCfg.Account,
		usecase.WithSnapshotStorage(storage.New(adapter)),
	), nil
}

func cmdExport(a *app) *cli.Command {
	var storageCfg config.Storage

	return &cli.Command{
		Name:  "export",
		Usage: "Write a snapshot of every entry to snapshot storage",
		Flags: storageCfg.Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			m, err := a.maintenance(ctx, &storageCfg)
			if err != nil {
				return err
			}

			key, err := m.Export(ctx)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(a.w, key)
			return err
		},
	}
}

type snapshotEntryView struct {
	Namespace string `json:"namespace"`
	EntryKey  string `json:"entryKey"`
	Revision  int    `json:"revision"`
	Size      int    `json:"size"`
}

func cmdSnapshots(a *app) *cli.Command {
	var (
		storageCfg config.Storage
		key        string
	)

	return &cli.Command{
		Name:  "snapshots",
		Usage: "Inspect exported snapshots",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print snapshot keys of the account, oldest first",
				Flags: storageCfg.Flags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					m, err := a.maintenance(ctx, &storageCfg)
					if err != nil {
						return err
					}

					keys, err := m.ListSnapshots(ctx)
					if err != nil {
						return err
					}
					for _, k := range keys {
						if _, err := fmt.Fprintln(a.w, k); err != nil {
							return goerr.Wrap(err, "failed to write output")
						}
					}
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Print entries of a snapshot without their values",
				Flags: append(storageCfg.Flags(), &cli.StringFlag{
					Name:        "key",
					Usage:       "Snapshot key printed by export or snapshots list",
					Required:    true,
					Destination: &key,
				}),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					m, err := a.maintenance(ctx, &storageCfg)
					if err != nil {
						return err
					}

					snap, err := m.LoadSnapshot(ctx, key)
					if err != nil {
						return err
					}

					entries := make([]snapshotEntryView, 0, len(snap.Entries))
					for _, e := range snap.Entries {
						entries = append(entries, snapshotEntryView{
							Namespace: e.Namespace,
							EntryKey:  e.EntryKey,
							Revision:  e.Revision,
							Size:      len(e.Value),
						})
					}
					return a.printJSON(map[string]any{
						"account":   snap.Account,
						"createdAt": snap.CreatedAt,
						"entries":   entries,
					})
				},
			},
		},
	}
}
