package matchmaker

import (
	"encoding/json"
	"time"
)

// MatchRequest 前端提交的匹配请求
type MatchRequest struct {
	UserID     string `json:"userId"`
	Difficulty string `json:"difficulty"` // easy / medium / hard
	Topic      string `json:"topic"`      // 可选；空或 "all" 表示不限主题
}

// CancelRequest 取消匹配
type CancelRequest struct {
	UserID string `json:"userId"`
}

// MatchResponse 匹配与状态查询的统一响应体
type MatchResponse struct {
	Matched   bool            `json:"matched"`
	Message   string          `json:"message,omitempty"`
	Pool      string          `json:"pool,omitempty"` // "difficulty:topicKey"
	Status    string          `json:"status,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	PartnerID string          `json:"partnerId,omitempty"`
	Question  json.RawMessage `json:"question,omitempty"`
}

// WaitingRequest 池中的一条等待记录；一个用户同一时刻至多占一条
type WaitingRequest struct {
	UserID     string
	Topic      string // "" 表示不限主题
	EnqueuedAt time.Time
}

// MatchedSession 配对结果，按双方 userId 各缓存一份，供被动方轮询发现
type MatchedSession struct {
	SessionID string          `json:"sessionId"`
	Users     [2]string       `json:"users"`
	Question  json.RawMessage `json:"question"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PartnerOf 返回会话中另一方的 userId
func (s *MatchedSession) PartnerOf(userID string) string {
	if s.Users[0] == userID {
		return s.Users[1]
	}
	return s.Users[0]
}

const (
	StatusWaiting = "WAITING"
	StatusExpired = "EXPIRED" // 超时与从未排队无法区分，二者都返回 EXPIRED
)
