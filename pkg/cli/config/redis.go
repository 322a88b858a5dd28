package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/repository/kvstore/redis"
	"github.com/urfave/cli/v3"
)

// Redis contains configuration for the Redis KV backend
type Redis struct {
	RedisURL  string `masq:"secret"`
	KeyPrefix string
}

func (r *Redis) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-url",
			Category:    "redis",
			Usage:       "Redis URL, e.g. redis://:password@localhost:6379/0",
			Sources:     cli.EnvVars("JIRACONF_REDIS_URL"),
			Destination: &r.RedisURL,
		},
		&cli.StringFlag{
			Name:        "redis-key-prefix",
			Category:    "redis",
			Usage:       "Prefix of every redis key",
			Sources:     cli.EnvVars("JIRACONF_REDIS_KEY_PREFIX"),
			Value:       redis.DefaultKeyPrefix,
			Destination: &r.KeyPrefix,
		},
	}
}

func (r Redis) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("url_set", r.RedisURL != ""),
		slog.String("key_prefix", r.KeyPrefix),
	)
}

func (r *Redis) Configure(ctx context.Context) (*redis.Client, error) {
	if r.RedisURL == "" {
		return nil, goerr.New("--redis-url is required for redis backend", goerr.T(apperr.ErrTagInvalidInput))
	}
	return redis.New(ctx, r.RedisURL, r.KeyPrefix)
}
