// Package store persists the fraud model artifact between the trainer and
// the scorer.
package store

import (
	"context"
	"fmt"

	"github.com/mohamkz/banking-app/internal/fraud/model"
	"github.com/mohamkz/banking-app/internal/pkg/pkgconfig"
	"github.com/redis/go-redis/v9"
)

// Kinds accepted by config key model.store.
const (
	KindFile   = "file"
	KindRedis  = "redis"
	KindMemory = "memory"
)

// Store saves and loads the single current artifact. Load returns an error
// wrapping pkgerror.ErrNotFound when nothing has been saved yet.
type Store interface {
	Save(ctx context.Context, artifact model.Artifact) error
	Load(ctx context.Context) (model.Artifact, error)
	// Location describes where the artifact lives, for logs and reports.
	Location() string
}

// Open builds the store selected by config key model.store (file when
// unset). The returned closer releases its connections.
func Open(cfg pkgconfig.Config) (Store, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	kind := cfg.GetString("model.store")
	switch kind {
	case "", KindFile:
		return NewFileStore(cfg.GetString("model.path")), noop, nil
	case KindRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetString("redis.address"),
			Password: cfg.GetString("redis.password"),
			DB:       int(cfg.GetInt("redis.db")),
		})
		closer := func(context.Context) error { return client.Close() }
		return NewRedisStore(client, cfg.GetString("model.redis_key")), closer, nil
	case KindMemory:
		return NewMemoryStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown model store %q", kind)
	}
}
