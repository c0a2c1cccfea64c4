package matchmaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestEngine(ttl time.Duration) (*Engine, *testClock) {
	clock := &testClock{t: time.Date(2025, 11, 13, 12, 0, 0, 0, time.UTC)}
	e := NewEngine(ttl)
	e.now = clock.now
	return e, clock
}

func Test_Engine_EnqueueAndDedup(t *testing.T) {
	e, _ := newTestEngine(20 * time.Second)

	d := e.Match("u1", "easy", "arrays")
	assert.False(t, d.Already)
	assert.Nil(t, d.Mate)
	assert.Equal(t, "easy:arrays", d.Pool)
	assert.Equal(t, 1, e.PoolSize("easy", "arrays"))

	// 重复提交是幂等空操作，不产生第二条记录
	d = e.Match("u1", "easy", "arrays")
	assert.True(t, d.Already)
	assert.Equal(t, "easy:arrays", d.Pool)
	assert.Equal(t, 1, e.PoolSize("easy", "arrays"))
	assert.Equal(t, 1, e.PendingCount())
}

func Test_Engine_NoTopicGoesToAllPool(t *testing.T) {
	e, _ := newTestEngine(20 * time.Second)

	d := e.Match("u1", "easy", "")
	assert.Equal(t, "easy:all", d.Pool)
	assert.Equal(t, 1, e.PoolSize("easy", TopicAll))
}

func Test_Engine_CaseA_ScansExactAndAllOnly(t *testing.T) {
	e, clock := newTestEngine(20 * time.Second)

	// graphs 池和 all 池之外的等待者不应被带主题的请求匹配到
	e.Match("other", "easy", "trees")
	clock.advance(time.Second)

	d := e.Match("u1", "easy", "graphs")
	assert.Nil(t, d.Mate)
	assert.Equal(t, "easy:graphs", d.Pool)
	assert.Equal(t, 1, e.PoolSize("easy", "trees"))
}

func Test_Engine_CaseA_OldestWinsBetweenExactAndAll(t *testing.T) {
	e, clock := newTestEngine(20 * time.Second)

	e.Match("flex", "easy", "") // t=0，进 all 池
	clock.advance(time.Second)
	e.Match("strict", "easy", "graphs") // t=1
	clock.advance(time.Second)

	// 两个池都有人时取全局最老者，即 all 池里的 flex
	d := e.Match("u1", "easy", "graphs")
	assert.NotNil(t, d.Mate)
	assert.Equal(t, "flex", d.Mate.UserID)
	assert.Equal(t, 1, e.PoolSize("easy", "graphs"))
	assert.Equal(t, 0, e.PoolSize("easy", TopicAll))
}

func Test_Engine_CaseB_OldestWinsAcrossAllPools(t *testing.T) {
	e, clock := newTestEngine(20 * time.Second)

	e.Match("a", "easy", "arrays") // t=0
	clock.advance(time.Second)
	e.Match("b", "easy", "graphs") // t=1
	clock.advance(time.Second)

	d := e.Match("u1", "easy", "")
	assert.NotNil(t, d.Mate)
	assert.Equal(t, "a", d.Mate.UserID)
	assert.Equal(t, "arrays", d.Mate.Topic)
	assert.Equal(t, 1, e.PendingCount()) // 只剩 b
}

func Test_Engine_PruneExpiredPrefix(t *testing.T) {
	e, clock := newTestEngine(20 * time.Second)

	e.Match("old", "easy", "arrays")
	clock.advance(10 * time.Second)
	e.Match("fresh", "easy", "arrays")
	clock.advance(11 * time.Second)

	// old 已过期（21s > 20s），fresh 还没有（11s）；
	// 匹配扫描触发惰性清理，剔除过期前缀后命中 fresh
	assert.Equal(t, 2, e.PoolSize("easy", "arrays"))
	d := e.Match("u1", "easy", "arrays")
	assert.NotNil(t, d.Mate)
	assert.Equal(t, "fresh", d.Mate.UserID)
	assert.Equal(t, 0, e.PoolSize("easy", "arrays"))
	assert.Equal(t, 0, e.PendingCount())
}

func Test_Engine_WaitingSelfPrunes(t *testing.T) {
	e, clock := newTestEngine(20 * time.Second)

	e.Match("u1", "easy", "graphs")
	assert.True(t, e.Waiting("u1"))

	clock.advance(21 * time.Second)
	// 没有任何别的请求碰过这个池，自查也要能发现过期
	assert.False(t, e.Waiting("u1"))
	assert.Equal(t, 0, e.PoolSize("easy", "graphs"))
	assert.Equal(t, 0, e.PendingCount())
}

func Test_Engine_RemoveMidQueue(t *testing.T) {
	e, clock := newTestEngine(20 * time.Second)

	e.Match("a", "easy", "arrays")
	clock.advance(time.Second)
	e.Match("b", "easy", "arrays")
	clock.advance(time.Second)
	e.Match("c", "easy", "arrays")

	assert.NoError(t, e.Remove("b"))
	assert.Equal(t, 2, e.PoolSize("easy", "arrays"))
	assert.False(t, e.Waiting("b"))

	// 被取消的用户不会再被选中
	d := e.Match("u1", "easy", "arrays")
	assert.Equal(t, "a", d.Mate.UserID)

	// 再次取消保持同样的失败，不破坏状态
	assert.ErrorIs(t, e.Remove("b"), ErrNotQueued)
}

func Test_Engine_RemoveNotQueued(t *testing.T) {
	e, _ := newTestEngine(20 * time.Second)
	assert.ErrorIs(t, e.Remove("ghost"), ErrNotQueued)
}

func Test_Engine_RequeueRestoresFrontWithOriginalTimestamp(t *testing.T) {
	e, clock := newTestEngine(20 * time.Second)

	e.Match("a", "easy", "graphs") // t=0
	clock.advance(time.Second)
	e.Match("b", "easy", "graphs") // t=1
	clock.advance(time.Second)

	d := e.Match("u1", "easy", "graphs")
	assert.Equal(t, "a", d.Mate.UserID)

	e.Requeue("easy", d.Mate)
	assert.True(t, e.Waiting("a"))
	assert.Equal(t, 2, e.PoolSize("easy", "graphs"))

	// 放回队首后 a 仍是最老者
	d = e.Match("u2", "easy", "graphs")
	assert.Equal(t, "a", d.Mate.UserID)
}
