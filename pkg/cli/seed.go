package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/cli/config"
	model "github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// overwrite writes value on top of the latest stored revision
func overwrite[T any](ctx context.Context,
	refresh func(context.Context) (*model.Cached[T], error),
	update func(context.Context, *model.Cached[T], T) (*model.Cached[T], error),
	value T,
) (int, error) {
	current, err := refresh(ctx)
	if err != nil && model.KindOf(err) != model.KindNotFound {
		return 0, err
	}

	stored, err := update(ctx, current, value)
	if err != nil {
		return 0, err
	}
	return stored.Revision, nil
}

func seedTeam(ctx context.Context, store *usecase.ConfigStore, team config.SeedTeam) (int, error) {
	logger := ctxlog.From(ctx)
	written := 0
	name := team.Name

	if team.Jira != nil {
		rev, err := overwrite(ctx,
			func(ctx context.Context) (*model.Cached[model.TeamJiraConfig], error) {
				return store.RefreshTeamJiraConfig(ctx, name)
			},
			func(ctx context.Context, old *model.Cached[model.TeamJiraConfig], v model.TeamJiraConfig) (*model.Cached[model.TeamJiraConfig], error) {
				return store.UpdateTeamJiraConfig(ctx, name, old, v)
			},
			team.Jira.Config())
		if err != nil {
			return written, goerr.Wrap(err, "failed to seed jira config", goerr.TV(apperr.TeamKey, name))
		}
		logger.Info("seeded jira config", "team", name, "revision", rev)
		written++
	}

	for _, u := range team.Users {
		rev, err := overwrite(ctx,
			func(ctx context.Context) (*model.Cached[model.TeamUserConfig], error) {
				return store.RefreshTeamUserConfig(ctx, name, u.Username)
			},
			func(ctx context.Context, old *model.Cached[model.TeamUserConfig], v model.TeamUserConfig) (*model.Cached[model.TeamUserConfig], error) {
				return store.UpdateTeamUserConfig(ctx, name, u.Username, old, v)
			},
			u.Config())
		if err != nil {
			return written, goerr.Wrap(err, "failed to seed user config",
				goerr.TV(apperr.TeamKey, name),
				goerr.TV(apperr.UsernameKey, u.Username))
		}
		logger.Info("seeded user config", "team", name, "username", u.Username, "revision", rev)
		written++
	}

	for _, c := range team.Channels {
		rev, err := overwrite(ctx,
			func(ctx context.Context) (*model.Cached[model.TeamChannelConfig], error) {
				return store.RefreshTeamChannelConfig(ctx, name, c.ConversationID)
			},
			func(ctx context.Context, old *model.Cached[model.TeamChannelConfig], v model.TeamChannelConfig) (*model.Cached[model.TeamChannelConfig], error) {
				return store.UpdateTeamChannelConfig(ctx, name, c.ConversationID, old, v)
			},
			c.Config())
		if err != nil {
			return written, goerr.Wrap(err, "failed to seed channel config",
				goerr.TV(apperr.TeamKey, name),
				goerr.TV(apperr.ConversationIDKey, c.ConversationID))
		}
		logger.Info("seeded channel config", "team", name, "conversation_id", c.ConversationID, "revision", rev)
		written++
	}

	for _, s := range team.Subscriptions {
		sub := s.Subscription()
		if sub.URLToken != "" {
			current, err := store.RefreshTeamJiraSubscriptions(ctx, name)
			if err != nil && model.KindOf(err) != model.KindNotFound {
				return written, err
			}
			if current != nil {
				if id, _, found := current.Value.FindByURLToken(sub.URLToken); found {
					logger.Info("subscription already seeded", "team", name, "id", id)
					continue
				}
			}
		}

		id, _, err := store.Subscribe(ctx, name, sub)
		if err != nil {
			return written, goerr.Wrap(err, "failed to seed subscription", goerr.TV(apperr.TeamKey, name))
		}
		logger.Info("seeded subscription", "team", name, "id", id)
		written++
	}

	return written, nil
}

func cmdSeed(a *app) *cli.Command {
	var seedCfg config.Seed

	return &cli.Command{
		Name:  "seed",
		Usage: "Write team records from a YAML seed file",
		Flags: seedCfg.Flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seed, err := seedCfg.Load()
			if err != nil {
				return err
			}

			kv, err := a.store(ctx)
			if err != nil {
				return err
			}
			store := a.kvCfg.NewConfigStore(kv)

			total := 0
			for _, team := range seed.Teams {
				n, err := seedTeam(ctx, store, team)
				total += n
				if err != nil {
					return err
				}
			}

			_, err = fmt.Fprintf(a.w, "seeded %d records of %d teams\n", total, len(seed.Teams))
			return err
		},
	}
}
