package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

// maxSubscriptionAttempts is the number of optimistic writes tried before giving up on a
// contended subscription registry
const maxSubscriptionAttempts = 3

// modifySubscriptions applies fn to the registry of team with the optimistic protocol. After a
// revision conflict the registry is re-read from the KV store and fn is applied again. A
// missing registry is created conditionally too, so concurrent first subscriptions conflict
// instead of overwriting each other.
func (s *ConfigStore) modifySubscriptions(ctx context.Context, team string, fn func(config.TeamJiraSubscriptions) (config.TeamJiraSubscriptions, error)) error {
	namespace := s.prefix.TeamNamespace(team)

	for attempt := 0; attempt < maxSubscriptionAttempts; attempt++ {
		current, err := fetch(ctx, s, s.subscriptions, namespace, config.JiraSubscriptionsKey, attempt > 0)
		if err != nil && !errors.Is(err, config.ErrNotFound) {
			return err
		}

		var subs config.TeamJiraSubscriptions
		revision := current.NextRevision()
		if current != nil {
			subs = current.Value
		} else if revision, err = s.createRevision(ctx, namespace, config.JiraSubscriptionsKey); err != nil {
			return err
		}

		next, err := fn(subs)
		if err != nil {
			return err
		}

		_, err = put(ctx, s, s.subscriptions, namespace, config.JiraSubscriptionsKey, revision, next)
		if err == nil {
			return nil
		}
		if config.KindOf(err) != config.KindRevisionConflict {
			return err
		}

		ctxlog.From(ctx).Debug("retrying subscription update", "team", team, "attempt", attempt+1)
	}

	return goerr.Wrap(config.ErrRevisionConflict, "subscription registry is contended",
		goerr.TV(apperr.TeamKey, team),
		goerr.TV(apperr.RetryCountKey, maxSubscriptionAttempts))
}

// Subscribe registers sub for team under a new subscription ID and stores its reverse index.
// A random URL token is assigned when sub has none. It returns the stored subscription.
func (s *ConfigStore) Subscribe(ctx context.Context, team string, sub config.TeamJiraSubscription) (config.SubscriptionID, config.TeamJiraSubscription, error) {
	if sub.URLToken == "" {
		sub.URLToken = types.NewURLToken().String()
	}

	var id config.SubscriptionID
	err := s.modifySubscriptions(ctx, team, func(subs config.TeamJiraSubscriptions) (config.TeamJiraSubscriptions, error) {
		if existing, _, found := subs.FindByURLToken(sub.URLToken); found {
			return nil, goerr.New("url token is already used",
				goerr.TV(apperr.TeamKey, team),
				goerr.TV(apperr.SubscriptionIDKey, int64(existing)),
				goerr.TV(apperr.URLTokenKey, sub.URLToken),
				goerr.T(apperr.ErrTagInvalidInput))
		}
		id = subs.NextID()
		return subs.With(id, sub), nil
	})
	if err != nil {
		return 0, config.TeamJiraSubscription{}, err
	}

	index := config.JiraSubscriptionIndex{Teamname: team, ID: id}
	if err := s.SetOrDeleteSubscriptionIndex(ctx, sub.URLToken, &index); err != nil {
		return 0, config.TeamJiraSubscription{}, goerr.Wrap(err, "subscription stored without index",
			goerr.TV(apperr.TeamKey, team),
			goerr.TV(apperr.SubscriptionIDKey, int64(id)))
	}

	ctxlog.From(ctx).Info("subscribed", "team", team, "id", id, "conversation_id", sub.ConversationID)
	return id, sub, nil
}

// Unsubscribe removes subscription id of team and its reverse index. It returns the removed
// subscription so the caller can unregister the Jira webhook.
func (s *ConfigStore) Unsubscribe(ctx context.Context, team string, id config.SubscriptionID) (config.TeamJiraSubscription, error) {
	var removed config.TeamJiraSubscription
	err := s.modifySubscriptions(ctx, team, func(subs config.TeamJiraSubscriptions) (config.TeamJiraSubscriptions, error) {
		sub, ok := subs[id]
		if !ok {
			return nil, goerr.Wrap(config.ErrNotFound, "subscription not found",
				goerr.TV(apperr.TeamKey, team),
				goerr.TV(apperr.SubscriptionIDKey, int64(id)))
		}
		removed = sub
		return subs.Without(id), nil
	})
	if err != nil {
		return config.TeamJiraSubscription{}, err
	}

	if err := s.SetOrDeleteSubscriptionIndex(ctx, removed.URLToken, nil); err != nil {
		return config.TeamJiraSubscription{}, goerr.Wrap(err, "subscription removed but index remains",
			goerr.TV(apperr.TeamKey, team),
			goerr.TV(apperr.SubscriptionIDKey, int64(id)))
	}

	ctxlog.From(ctx).Info("unsubscribed", "team", team, "id", id)
	return removed, nil
}
