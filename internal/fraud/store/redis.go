package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohamkz/banking-app/internal/fraud/model"
	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey holds the artifact JSON when the redis store is selected.
const DefaultRedisKey = "fraud:model"

// RedisStore keeps the artifact JSON under a single key, for deployments
// where trainer and scorer share no filesystem.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Location() string {
	return "redis://" + s.key
}

func (s *RedisStore) Save(ctx context.Context, artifact model.Artifact) error {
	data, err := artifact.Marshal()
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save model to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (model.Artifact, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Artifact{}, fmt.Errorf("redis key %s: %w", s.key, pkgerror.ErrNotFound)
	}
	if err != nil {
		return model.Artifact{}, fmt.Errorf("load model from redis: %w", err)
	}

	return model.UnmarshalArtifact(data)
}
