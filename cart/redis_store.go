package cart

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotStore keeps snapshots as plain string values.
type RedisSnapshotStore struct {
	Client redis.Cmdable
	Prefix string
	TTL    time.Duration // zero keeps snapshots forever
}

func (s *RedisSnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.Client.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (s *RedisSnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	return s.Client.Set(ctx, s.Prefix+key, data, s.TTL).Err()
}
