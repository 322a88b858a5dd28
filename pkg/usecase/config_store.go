package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/service/configcache"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// indexFetchConcurrency bounds parallel remote reads in ListAllSubscriptionIndices
const indexFetchConcurrency = 8

// ConfigStore reads and writes the bot configuration in a KV store. Reads are served from a
// per-kind cache while fresh; writes are checked against the revision of the read they are
// based on and written through to the cache.
//
// Errors are classified with config.KindOf: config.ErrNotFound, config.ErrRevisionConflict or
// config.ErrUnknown.
type ConfigStore struct {
	kv      interfaces.KVStore
	account string
	prefix  config.Prefix

	cacheTTL      time.Duration
	cacheCapacity uint64
	now           func() time.Time

	jiraConfigs    record[config.TeamJiraConfig]
	userConfigs    record[config.TeamUserConfig]
	channelConfigs record[config.TeamChannelConfig]
	subscriptions  record[config.TeamJiraSubscriptions]
	indices        record[config.JiraSubscriptionIndex]
}

// record binds one entity kind to its cache, validator and serializer
type record[T any] struct {
	cache     *configcache.Cache[T]
	validate  func(gjson.Result) (T, bool)
	serialize func(T) (string, error)
}

// ConfigStoreOption is a functional option for ConfigStore
type ConfigStoreOption func(*ConfigStore)

// WithPrefix sets the namespace prefix (default "jirabot-v1")
func WithPrefix(prefix string) ConfigStoreOption {
	return func(s *ConfigStore) {
		s.prefix = config.Prefix(prefix)
	}
}

// WithCacheTTL sets how long a read stays fresh (default 60s)
func WithCacheTTL(ttl time.Duration) ConfigStoreOption {
	return func(s *ConfigStore) {
		s.cacheTTL = ttl
	}
}

// WithCacheCapacity bounds each per-kind cache. Zero means unbounded.
func WithCacheCapacity(capacity uint64) ConfigStoreOption {
	return func(s *ConfigStore) {
		s.cacheCapacity = capacity
	}
}

// WithClock replaces time.Now for cache freshness
func WithClock(now func() time.Time) ConfigStoreOption {
	return func(s *ConfigStore) {
		s.now = now
	}
}

// NewConfigStore creates a store for account backed by kv
func NewConfigStore(kv interfaces.KVStore, account string, opts ...ConfigStoreOption) *ConfigStore {
	s := &ConfigStore{
		kv:       kv,
		account:  account,
		prefix:   config.DefaultPrefix,
		cacheTTL: configcache.DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	cacheOpts := []configcache.Option{
		configcache.WithTTL(s.cacheTTL),
		configcache.WithCapacity(s.cacheCapacity),
		configcache.WithClock(s.now),
	}

	s.jiraConfigs = record[config.TeamJiraConfig]{
		cache:     configcache.New[config.TeamJiraConfig](cacheOpts...),
		validate:  config.ValidateTeamJiraConfig,
		serialize: config.Serialize[config.TeamJiraConfig],
	}
	s.userConfigs = record[config.TeamUserConfig]{
		cache:     configcache.New[config.TeamUserConfig](cacheOpts...),
		validate:  config.ValidateTeamUserConfig,
		serialize: config.Serialize[config.TeamUserConfig],
	}
	s.channelConfigs = record[config.TeamChannelConfig]{
		cache:     configcache.New[config.TeamChannelConfig](cacheOpts...),
		validate:  config.ValidateTeamChannelConfig,
		serialize: config.Serialize[config.TeamChannelConfig],
	}
	s.subscriptions = record[config.TeamJiraSubscriptions]{
		cache:     configcache.New[config.TeamJiraSubscriptions](cacheOpts...),
		validate:  config.ValidateTeamJiraSubscriptions,
		serialize: config.SerializeTeamJiraSubscriptions,
	}
	s.indices = record[config.JiraSubscriptionIndex]{
		cache:     configcache.New[config.JiraSubscriptionIndex](cacheOpts...),
		validate:  config.ValidateJiraSubscriptionIndex,
		serialize: config.Serialize[config.JiraSubscriptionIndex],
	}

	return s
}

// Account returns the KV account the store writes to
func (s *ConfigStore) Account() string {
	return s.account
}

// Prefix returns the namespace prefix
func (s *ConfigStore) Prefix() config.Prefix {
	return s.prefix
}

func fetch[T any](ctx context.Context, s *ConfigStore, r record[T], namespace, key string, refresh bool) (*config.Cached[T], error) {
	logger := ctxlog.From(ctx)
	keyOpts := []goerr.Option{
		goerr.TV(apperr.NamespaceKey, namespace),
		goerr.TV(apperr.EntryKeyKey, key),
	}

	if !refresh {
		if cached, ok := r.cache.Get(namespace, key); ok {
			logger.Debug("config cache hit", "namespace", namespace, "key", key, "revision", cached.Revision)
			return cached, nil
		}
	}
	logger.Debug("config cache miss", "namespace", namespace, "key", key, "refresh", refresh)

	entry, err := s.kv.Get(ctx, s.account, namespace, key)
	if err != nil {
		return nil, config.Unknown(err, "failed to get config entry", keyOpts...)
	}
	if !entry.Exists() {
		return nil, goerr.Wrap(config.ErrNotFound, "config entry is absent", keyOpts...)
	}

	raw, ok := config.Parse(entry.Value)
	if !ok {
		logger.Warn("purging unparseable config entry", "namespace", namespace, "key", key, "revision", entry.Revision)
		if err := s.kv.Delete(ctx, s.account, namespace, key); err != nil {
			return nil, config.Unknown(err, "failed to purge unparseable config entry", keyOpts...)
		}
		r.cache.Delete(namespace, key)
		return nil, goerr.Wrap(config.ErrNotFound, "config entry is not parseable", keyOpts...)
	}

	value, ok := r.validate(raw)
	if !ok {
		logger.Warn("config entry failed validation", "namespace", namespace, "key", key, "revision", entry.Revision)
		r.cache.Delete(namespace, key)
		return nil, goerr.Wrap(config.ErrNotFound, "config entry is invalid", keyOpts...)
	}

	return r.cache.Set(namespace, key, value, entry.Revision), nil
}

func update[T any](ctx context.Context, s *ConfigStore, r record[T], namespace, key string, old *config.Cached[T], value T) (*config.Cached[T], error) {
	return put(ctx, s, r, namespace, key, old.NextRevision(), value)
}

// put writes value expecting the KV store to assign revision. Zero makes the write
// unconditional.
func put[T any](ctx context.Context, s *ConfigStore, r record[T], namespace, key string, revision int, value T) (*config.Cached[T], error) {
	keyOpts := []goerr.Option{
		goerr.TV(apperr.NamespaceKey, namespace),
		goerr.TV(apperr.EntryKeyKey, key),
		goerr.TV(apperr.RevisionKey, revision),
	}

	payload, err := r.serialize(value)
	if err != nil {
		return nil, config.Unknown(err, "failed to serialize config", keyOpts...)
	}

	newRevision, err := s.kv.Put(ctx, s.account, namespace, key, payload, revision)
	if err != nil {
		if errors.Is(err, interfaces.ErrRevisionMismatch) {
			ctxlog.From(ctx).Debug("config revision conflict", "namespace", namespace, "key", key, "revision", revision)
			return nil, goerr.Wrap(config.ErrRevisionConflict, "config was updated by another writer", keyOpts...)
		}
		return nil, config.Unknown(err, "failed to put config entry", keyOpts...)
	}

	ctxlog.From(ctx).Debug("config updated", "namespace", namespace, "key", key, "revision", newRevision)
	return r.cache.Set(namespace, key, value, newRevision), nil
}

// createRevision returns the revision that creates namespace/key only if it is still absent:
// one past the tombstone, or 1 for a key never written.
func (s *ConfigStore) createRevision(ctx context.Context, namespace, key string) (int, error) {
	entry, err := s.kv.Get(ctx, s.account, namespace, key)
	if err != nil {
		return 0, config.Unknown(err, "failed to get config entry",
			goerr.TV(apperr.NamespaceKey, namespace),
			goerr.TV(apperr.EntryKeyKey, key))
	}
	return entry.Revision + 1, nil
}

// GetTeamJiraConfig returns the Jira host and OAuth credentials of team
func (s *ConfigStore) GetTeamJiraConfig(ctx context.Context, team string) (*config.Cached[config.TeamJiraConfig], error) {
	return fetch(ctx, s, s.jiraConfigs, s.prefix.TeamNamespace(team), config.JiraConfigKey, false)
}

// RefreshTeamJiraConfig is GetTeamJiraConfig bypassing the cache
func (s *ConfigStore) RefreshTeamJiraConfig(ctx context.Context, team string) (*config.Cached[config.TeamJiraConfig], error) {
	return fetch(ctx, s, s.jiraConfigs, s.prefix.TeamNamespace(team), config.JiraConfigKey, true)
}

// UpdateTeamJiraConfig writes value based on old. Pass nil old for the first write.
func (s *ConfigStore) UpdateTeamJiraConfig(ctx context.Context, team string, old *config.Cached[config.TeamJiraConfig], value config.TeamJiraConfig) (*config.Cached[config.TeamJiraConfig], error) {
	return update(ctx, s, s.jiraConfigs, s.prefix.TeamNamespace(team), config.JiraConfigKey, old, value)
}

func (s *ConfigStore) GetTeamUserConfig(ctx context.Context, team, username string) (*config.Cached[config.TeamUserConfig], error) {
	return fetch(ctx, s, s.userConfigs, s.prefix.TeamNamespace(team), config.UserConfigKey(username), false)
}

func (s *ConfigStore) RefreshTeamUserConfig(ctx context.Context, team, username string) (*config.Cached[config.TeamUserConfig], error) {
	return fetch(ctx, s, s.userConfigs, s.prefix.TeamNamespace(team), config.UserConfigKey(username), true)
}

func (s *ConfigStore) UpdateTeamUserConfig(ctx context.Context, team, username string, old *config.Cached[config.TeamUserConfig], value config.TeamUserConfig) (*config.Cached[config.TeamUserConfig], error) {
	return update(ctx, s, s.userConfigs, s.prefix.TeamNamespace(team), config.UserConfigKey(username), old, value)
}

func (s *ConfigStore) GetTeamChannelConfig(ctx context.Context, team, conversationID string) (*config.Cached[config.TeamChannelConfig], error) {
	return fetch(ctx, s, s.channelConfigs, s.prefix.TeamNamespace(team), config.ChannelConfigKey(conversationID), false)
}

func (s *ConfigStore) RefreshTeamChannelConfig(ctx context.Context, team, conversationID string) (*config.Cached[config.TeamChannelConfig], error) {
	return fetch(ctx, s, s.channelConfigs, s.prefix.TeamNamespace(team), config.ChannelConfigKey(conversationID), true)
}

func (s *ConfigStore) UpdateTeamChannelConfig(ctx context.Context, team, conversationID string, old *config.Cached[config.TeamChannelConfig], value config.TeamChannelConfig) (*config.Cached[config.TeamChannelConfig], error) {
	return update(ctx, s, s.channelConfigs, s.prefix.TeamNamespace(team), config.ChannelConfigKey(conversationID), old, value)
}

// GetTeamJiraSubscriptions returns the subscription registry of team
func (s *ConfigStore) GetTeamJiraSubscriptions(ctx context.Context, team string) (*config.Cached[config.TeamJiraSubscriptions], error) {
	return fetch(ctx, s, s.subscriptions, s.prefix.TeamNamespace(team), config.JiraSubscriptionsKey, false)
}

func (s *ConfigStore) RefreshTeamJiraSubscriptions(ctx context.Context, team string) (*config.Cached[config.TeamJiraSubscriptions], error) {
	return fetch(ctx, s, s.subscriptions, s.prefix.TeamNamespace(team), config.JiraSubscriptionsKey, true)
}

func (s *ConfigStore) UpdateTeamJiraSubscriptions(ctx context.Context, team string, old *config.Cached[config.TeamJiraSubscriptions], value config.TeamJiraSubscriptions) (*config.Cached[config.TeamJiraSubscriptions], error) {
	return update(ctx, s, s.subscriptions, s.prefix.TeamNamespace(team), config.JiraSubscriptionsKey, old, value)
}

// GetJiraSubscriptionIndex resolves a webhook callback token
func (s *ConfigStore) GetJiraSubscriptionIndex(ctx context.Context, urlToken string) (*config.Cached[config.JiraSubscriptionIndex], error) {
	return fetch(ctx, s, s.indices, s.prefix.SubscriptionIndexNamespace(), urlToken, false)
}

// ListAllSubscriptionIndices returns every index entry ordered by token. The first failing
// entry fails the whole call.
func (s *ConfigStore) ListAllSubscriptionIndices(ctx context.Context) ([]config.JiraSubscriptionIndexEntry, error) {
	namespace := s.prefix.SubscriptionIndexNamespace()

	tokens, err := s.kv.ListEntryKeys(ctx, s.account, namespace)
	if err != nil {
		return nil, config.Unknown(err, "failed to list subscription index",
			goerr.TV(apperr.NamespaceKey, namespace))
	}

	entries := make([]config.JiraSubscriptionIndexEntry, len(tokens))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(indexFetchConcurrency)

	for i, token := range tokens {
		eg.Go(func() error {
			cached, err := fetch(egCtx, s, s.indices, namespace, token, false)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch subscription index", goerr.TV(apperr.URLTokenKey, token))
			}
			entries[i] = config.JiraSubscriptionIndexEntry{
				URLToken: token,
				Index:    cached.Value,
				Revision: cached.Revision,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetOrDeleteSubscriptionIndex overwrites the index entry of urlToken, or deletes it when index
// is nil. The write is unconditional. The cached entry is evicted in both cases.
func (s *ConfigStore) SetOrDeleteSubscriptionIndex(ctx context.Context, urlToken string, index *config.JiraSubscriptionIndex) error {
	namespace := s.prefix.SubscriptionIndexNamespace()
	defer s.indices.cache.Delete(namespace, urlToken)

	if index == nil {
		if err := s.kv.Delete(ctx, s.account, namespace, urlToken); err != nil {
			return config.Unknown(err, "failed to delete subscription index",
				goerr.TV(apperr.URLTokenKey, urlToken))
		}
		ctxlog.From(ctx).Debug("subscription index deleted", "url_token", urlToken)
		return nil
	}

	payload, err := s.indices.serialize(*index)
	if err != nil {
		return config.Unknown(err, "failed to serialize subscription index",
			goerr.TV(apperr.URLTokenKey, urlToken))
	}
	if _, err := s.kv.Put(ctx, s.account, namespace, urlToken, payload, 0); err != nil {
		return config.Unknown(err, "failed to put subscription index",
			goerr.TV(apperr.URLTokenKey, urlToken))
	}

	ctxlog.From(ctx).Debug("subscription index stored", "url_token", urlToken, "team", index.Teamname, "id", index.ID)
	return nil
}

// InvalidateCache drops every cached record
func (s *ConfigStore) InvalidateCache() {
	s.jiraConfigs.cache.Purge()
	s.userConfigs.cache.Purge()
	s.channelConfigs.cache.Purge()
	s.subscriptions.cache.Purge()
	s.indices.cache.Purge()
}
