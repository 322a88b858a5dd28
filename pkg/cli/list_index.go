package cli

import (
	"context"

	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

type indexView struct {
	URLToken string                `json:"urlToken"`
	Teamname string                `json:"teamname"`
	ID       config.SubscriptionID `json:"id"`
	Revision int                   `json:"revision"`
}

func cmdListIndex(a *app) *cli.Command {
	return &cli.Command{
		Name:    "list-index",
		Aliases: []string{"li"},
		Usage:   "Print every subscription index entry",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kv, err := a.store(ctx)
			if err != nil {
				return err
			}

			entries, err := a.kvCfg.NewConfigStore(kv).ListAllSubscriptionIndices(ctx)
			if err != nil {
				return err
			}

			views := make([]indexView, 0, len(entries))
			for _, e := range entries {
				views = append(views, indexView{
					URLToken: e.URLToken,
					Teamname: e.Index.Teamname,
					ID:       e.Index.ID,
					Revision: e.Revision,
				})
			}
			return a.printJSON(views)
		},
	}
}
