package menustore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Diva-jaw/Frontend--sub001/core/menu"
)

const keyPrefix = "menu:state:"

// RedisStore keeps states as JSON values that expire after the TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ menu.Store = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// DialRedis connects to `addr` and checks the connection.
func DialRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", addr)
	}
	return rdb, nil
}

func (s *RedisStore) Load(ctx context.Context, visitorID string) (menu.State, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+visitorID).Bytes()
	if err == redis.Nil {
		return menu.State{}, nil
	} else if err != nil {
		return menu.State{}, errors.Wrap(err, "loading menu state")
	}

	var st menu.State
	if err = json.Unmarshal(raw, &st); err != nil {
		return menu.State{}, errors.Wrap(err, "decoding menu state")
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, visitorID string, st menu.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(err, "encoding menu state")
	}
	return errors.Wrap(s.rdb.Set(ctx, keyPrefix+visitorID, raw, s.ttl).Err(), "saving menu state")
}
