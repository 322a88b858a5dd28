package config

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/repository/kvstore/memory"
	"github.com/m-mizutani/jiraconf/pkg/service/configcache"
	"github.com/m-mizutani/jiraconf/pkg/usecase"
	"github.com/m-mizutani/jiraconf/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// KV backend names
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendRedis     = "redis"
	BackendFirestore = "firestore"
)

var backends = []string{BackendMemory, BackendSQLite, BackendRedis, BackendFirestore}

// KVStore selects the KV backend and holds the settings of the config store on top of it
type KVStore struct {
	Backend       string
	Account       string
	Prefix        string
	CacheTTL      time.Duration
	CacheCapacity uint64

	SQLite    SQLite
	Redis     Redis
	Firestore Firestore
}

// Flags returns CLI flags of the store and of every backend
func (k *KVStore) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "kv-backend",
			Category:    "kv store",
			Usage:       "KV backend [memory|sqlite|redis|firestore]",
			Sources:     cli.EnvVars("JIRACONF_KV_BACKEND"),
			Value:       BackendSQLite,
			Destination: &k.Backend,
		},
		&cli.StringFlag{
			Name:        "kv-account",
			Category:    "kv store",
			Usage:       "Account owning the entries",
			Sources:     cli.EnvVars("JIRACONF_KV_ACCOUNT"),
			Value:       "jirabot",
			Destination: &k.Account,
		},
		&cli.StringFlag{
			Name:        "kv-prefix",
			Category:    "kv store",
			Usage:       "Namespace prefix",
			Sources:     cli.EnvVars("JIRACONF_KV_PREFIX"),
			Value:       config.DefaultPrefix,
			Destination: &k.Prefix,
		},
		&cli.DurationFlag{
			Name:        "cache-ttl",
			Category:    "kv store",
			Usage:       "How long a read record is served from memory",
			Sources:     cli.EnvVars("JIRACONF_CACHE_TTL"),
			Value:       configcache.DefaultTTL,
			Destination: &k.CacheTTL,
		},
		&cli.Uint64Flag{
			Name:        "cache-capacity",
			Category:    "kv store",
			Usage:       "Max cached records per kind (0 = unbounded)",
			Sources:     cli.EnvVars("JIRACONF_CACHE_CAPACITY"),
			Destination: &k.CacheCapacity,
		},
	}

	flags = append(flags, k.SQLite.Flags()...)
	flags = append(flags, k.Redis.Flags()...)
	flags = append(flags, k.Firestore.Flags()...)
	return flags
}

// LogValue returns the configuration for logging
func (k KVStore) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("backend", k.Backend),
		slog.String("account", k.Account),
		slog.String("prefix", k.Prefix),
		slog.Duration("cache_ttl", k.CacheTTL),
		slog.Uint64("cache_capacity", k.CacheCapacity),
	}
	switch k.Backend {
	case BackendSQLite:
		attrs = append(attrs, slog.Any("sqlite", k.SQLite))
	case BackendRedis:
		attrs = append(attrs, slog.Any("redis", k.Redis))
	case BackendFirestore:
		attrs = append(attrs, slog.Any("firestore", k.Firestore))
	}
	return slog.GroupValue(attrs...)
}

// Validate checks the backend name and account
func (k *KVStore) Validate() error {
	if !slices.Contains(backends, k.Backend) {
		return goerr.New("unknown kv backend",
			goerr.V("backend", k.Backend),
			goerr.V("valid_backends", backends),
			goerr.T(apperr.ErrTagInvalidInput))
	}
	if k.Account == "" {
		return goerr.New("--kv-account is required", goerr.T(apperr.ErrTagInvalidInput))
	}
	return nil
}

// Configure connects to the selected backend. Call the returned cleanup when done.
func (k *KVStore) Configure(ctx context.Context) (interfaces.KVStore, func(), error) {
	if err := k.Validate(); err != nil {
		return nil, nil, err
	}

	switch k.Backend {
	case BackendMemory:
		return memory.New(), func() {}, nil

	case BackendSQLite:
		client, err := k.SQLite.Configure(ctx)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to configure sqlite backend")
		}
		return client, func() { safe.Close(ctx, client) }, nil

	case BackendRedis:
		client, err := k.Redis.Configure(ctx)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to configure redis backend")
		}
		return client, func() { safe.Close(ctx, client) }, nil

	case BackendFirestore:
		client, err := k.Firestore.Configure(ctx)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to configure firestore backend")
		}
		return client, func() { safe.Close(ctx, client) }, nil
	}

	return nil, nil, goerr.New("unknown kv backend", goerr.V("backend", k.Backend))
}

// NewConfigStore builds the config store over kv with the configured prefix and cache
func (k *KVStore) NewConfigStore(kv interfaces.KVStore) *usecase.ConfigStore {
	return usecase.NewConfigStore(kv, k.Account,
		usecase.WithPrefix(k.Prefix),
		usecase.WithCacheTTL(k.CacheTTL),
		usecase.WithCacheCapacity(k.CacheCapacity),
	)
}
