package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type recordView struct {
	Revision int `json:"revision"`
	Value    any `json:"value"`
}

type subscriptionView struct {
	ID           config.SubscriptionID       `json:"id"`
	Subscription config.TeamJiraSubscription `json:"subscription"`
}

type teamView struct {
	Team          string      `json:"team"`
	JiraConfig    *recordView `json:"jiraConfig,omitempty"`
	Subscriptions *recordView `json:"subscriptions,omitempty"`
	User          *recordView `json:"user,omitempty"`
	Channel       *recordView `json:"channel,omitempty"`
}

// view converts a fetched record for printing. An absent record yields nil.
func view[T any](cached *config.Cached[T], err error) (*recordView, error) {
	switch config.KindOf(err) {
	case config.KindNone:
		return &recordView{Revision: cached.Revision, Value: logging.Mask(cached.Value)}, nil
	case config.KindNotFound:
		return nil, nil
	default:
		return nil, err
	}
}

func cmdShow(a *app) *cli.Command {
	var team, user, channel string

	return &cli.Command{
		Name:  "show",
		Usage: "Print records of a team with credentials masked",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "team",
				Usage:       "Team name",
				Required:    true,
				Destination: &team,
			},
			&cli.StringFlag{
				Name:        "user",
				Usage:       "Also print the config of this user",
				Destination: &user,
			},
			&cli.StringFlag{
				Name:        "channel",
				Usage:       "Also print the config of this conversation",
				Destination: &channel,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if team == "" {
				return goerr.New("--team must not be empty", goerr.T(apperr.ErrTagInvalidInput))
			}

			kv, err := a.store(ctx)
			if err != nil {
				return err
			}
			store := a.kvCfg.NewConfigStore(kv)
			out := teamView{Team: team}

			jira, err := store.GetTeamJiraConfig(ctx, team)
			if out.JiraConfig, err = view(jira, err); err != nil {
				return err
			}

			subs, err := store.GetTeamJiraSubscriptions(ctx, team)
			if config.KindOf(err) == config.KindNone {
				list := make([]subscriptionView, 0, len(subs.Value))
				for _, id := range subs.Value.IDs() {
					list = append(list, subscriptionView{ID: id, Subscription: subs.Value[id]})
				}
				out.Subscriptions = &recordView{Revision: subs.Revision, Value: list}
			} else if config.KindOf(err) != config.KindNotFound {
				return err
			}

			if user != "" {
				cached, err := store.GetTeamUserConfig(ctx, team, user)
				if out.User, err = view(cached, err); err != nil {
					return err
				}
			}
			if channel != "" {
				cached, err := store.GetTeamChannelConfig(ctx, team, channel)
				if out.Channel, err = view(cached, err); err != nil {
					return err
				}
			}

			return a.printJSON(out)
		},
	}
}
