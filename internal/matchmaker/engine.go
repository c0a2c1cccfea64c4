package matchmaker

import (
	"errors"
	"sort"
	"sync"
	"time"

	"PeerMatch/internal/metrics"
)

var ErrNotQueued = errors.New("user is not in the matching queue")

type poolRef struct {
	difficulty string
	topicKey   string
}

func (p poolRef) label() string {
	return p.difficulty + ":" + p.topicKey
}

// Engine 内存匹配引擎：difficulty -> topicKey -> FIFO 队列，
// 外加 userId -> 所在池的反向索引。所有操作共用一把锁，
// 判定阶段（查重 + 跨池扫描 + 出队/入队）对其它请求原子。
type Engine struct {
	mu       sync.Mutex
	queueTTL time.Duration
	now      func() time.Time
	pools    map[string]map[string][]*WaitingRequest
	pending  map[string]poolRef
}

func NewEngine(queueTTL time.Duration) *Engine {
	return &Engine{
		queueTTL: queueTTL,
		now:      time.Now,
		pools:    make(map[string]map[string][]*WaitingRequest),
		pending:  make(map[string]poolRef),
	}
}

// Decision 一次持锁判定的结果
type Decision struct {
	Already bool            // 用户已在队列中，本次为幂等空操作
	Pool    string          // Already 或入队时的池标识 "difficulty:topicKey"
	Mate    *WaitingRequest // 命中伙伴时非空；伙伴已移出池和索引
}

// Match 执行一次完整的匹配判定：
//   - 已排队 -> Already
//   - topic 非空（Case A）：在 [topic, all] 两个池里取最老者
//   - topic 为空（Case B）：在该难度下所有池里取最老者
//   - 无人可配 -> 入队
func (e *Engine) Match(userID, difficulty, topic string) Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ref, ok := e.pending[userID]; ok {
		return Decision{Already: true, Pool: ref.label()}
	}

	tm := e.topicMapLocked(difficulty)

	var keys []string
	if topic != "" {
		keys = []string{topic, TopicAll}
	} else {
		for k := range tm {
			keys = append(keys, k)
		}
		// 仅影响相同时间戳的并列，排序让扫描顺序可复现
		sort.Strings(keys)
	}

	if key, best := e.oldestLocked(difficulty, keys, userID); best != nil {
		e.takeFrontLocked(difficulty, key)
		return Decision{Mate: best}
	}

	key := topicKey(topic)
	entry := &WaitingRequest{UserID: userID, Topic: topic, EnqueuedAt: e.now()}
	tm[key] = append(tm[key], entry)
	ref := poolRef{difficulty: difficulty, topicKey: key}
	e.pending[userID] = ref
	return Decision{Pool: ref.label()}
}

// Requeue 把因收尾失败而已出队的伙伴放回原池首部，保留原时间戳。
// 伙伴此前是该池最老的条目，插回队首即维持 FIFO。
func (e *Engine) Requeue(difficulty string, entry *WaitingRequest) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.pending[entry.UserID]; ok {
		return
	}
	tm := e.topicMapLocked(difficulty)
	key := topicKey(entry.Topic)
	tm[key] = append([]*WaitingRequest{entry}, tm[key]...)
	e.pending[entry.UserID] = poolRef{difficulty: difficulty, topicKey: key}
}

// Remove 取消排队；用户不在索引中时返回 ErrNotQueued
func (e *Engine) Remove(userID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ref, ok := e.pending[userID]
	if !ok {
		return ErrNotQueued
	}
	q := e.pools[ref.difficulty][ref.topicKey]
	for i, entry := range q {
		if entry.UserID == userID {
			e.pools[ref.difficulty][ref.topicKey] = append(q[:i], q[i+1:]...)
			break
		}
	}
	delete(e.pending, userID)
	return nil
}

// Waiting 查询用户是否仍在排队；先对其所在池做一次惰性清理，
// 保证过期后第一次查询就能报告 EXPIRED
func (e *Engine) Waiting(userID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ref, ok := e.pending[userID]
	if !ok {
		return false
	}
	e.pruneLocked(ref.difficulty, ref.topicKey)
	_, ok = e.pending[userID]
	return ok
}

// PendingCount 当前登记在索引中的等待人数
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// PoolSize 某个池的当前长度（含尚未被惰性清理的过期条目）
func (e *Engine) PoolSize(difficulty, key string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pools[difficulty][key])
}

// topicMapLocked 确保该难度的池表和 "all" 池存在
func (e *Engine) topicMapLocked(difficulty string) map[string][]*WaitingRequest {
	tm, ok := e.pools[difficulty]
	if !ok {
		tm = make(map[string][]*WaitingRequest)
		e.pools[difficulty] = tm
	}
	if _, ok := tm[TopicAll]; !ok {
		tm[TopicAll] = nil
	}
	return tm
}

// pruneLocked 过期条目一定是队首前缀（FIFO 不重排），
// 从队首删到第一个未过期条目为止，同步清反向索引
func (e *Engine) pruneLocked(difficulty, key string) int {
	q := e.pools[difficulty][key]
	cut := 0
	for cut < len(q) && e.now().Sub(q[cut].EnqueuedAt) > e.queueTTL {
		delete(e.pending, q[cut].UserID)
		cut++
	}
	if cut > 0 {
		e.pools[difficulty][key] = q[cut:]
		metrics.ExpiredTotal.Add(float64(cut))
	}
	return cut
}

// oldestLocked 清理后在给定池集合中取 EnqueuedAt 最小的队首条目
func (e *Engine) oldestLocked(difficulty string, keys []string, exclude string) (string, *WaitingRequest) {
	var bestKey string
	var best *WaitingRequest
	for _, k := range keys {
		e.pruneLocked(difficulty, k)
		q := e.pools[difficulty][k]
		if len(q) == 0 {
			continue
		}
		front := q[0]
		if front.UserID == exclude {
			continue
		}
		if best == nil || front.EnqueuedAt.Before(best.EnqueuedAt) {
			best, bestKey = front, k
		}
	}
	return bestKey, best
}

func (e *Engine) takeFrontLocked(difficulty, key string) *WaitingRequest {
	q := e.pools[difficulty][key]
	entry := q[0]
	e.pools[difficulty][key] = q[1:]
	delete(e.pending, entry.UserID)
	return entry
}
