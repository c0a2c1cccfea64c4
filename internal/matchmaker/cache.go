package matchmaker

import "context"

// SessionCache 短 TTL 的配对结果缓存。被动一方不会收到任何推送，
// 只能靠轮询自己的 status 命中这里；TTL 必须留出轮询间隔的余量。
type SessionCache interface {
	// Put 以双方 userId 各存一份
	Put(ctx context.Context, s *MatchedSession) error
	// Get 未命中返回 (nil, nil)
	Get(ctx context.Context, userID string) (*MatchedSession, error)
	// Sweep 惰性清理过期条目（Redis 实现为空操作，靠原生过期）
	Sweep(ctx context.Context)
}
