package matchmaker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// key 约定：match:session:{userId} -> MatchedSession JSON，TTL 即缓存窗口
type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) SessionCache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func sessionKey(userID string) string {
	return "match:session:" + userID
}

func (r *redisCache) Put(ctx context.Context, s *MatchedSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	p := r.rdb.Pipeline()
	p.Set(ctx, sessionKey(s.Users[0]), data, r.ttl)
	p.Set(ctx, sessionKey(s.Users[1]), data, r.ttl)
	_, err = p.Exec(ctx)
	return err
}

func (r *redisCache) Get(ctx context.Context, userID string) (*MatchedSession, error) {
	val, err := r.rdb.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s MatchedSession
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Redis 设置了原生过期，无需扫描
func (r *redisCache) Sweep(ctx context.Context) {}
