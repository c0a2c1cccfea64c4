package matchmaker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"PeerMatch/internal/metrics"
	"PeerMatch/internal/utils"
)

var (
	// ErrNoQuestion 预检失败：当前过滤条件下题库无题
	ErrNoQuestion = errors.New("no question for the requested filters")
	// ErrQuestionFetch 收尾阶段取题失败
	ErrQuestionFetch = errors.New("failed to fetch question for match")
	// ErrSetupFailed 收尾阶段创建协作会话或写缓存失败
	ErrSetupFailed = errors.New("match setup failed")
)

// QuestionProvider 题库服务
type QuestionProvider interface {
	Random(ctx context.Context, difficulty, topic string) (json.RawMessage, error)
}

// SessionProvider 协作会话服务
type SessionProvider interface {
	CreateSession(ctx context.Context) (string, error)
}

type Service struct {
	engine    *Engine
	cache     SessionCache
	questions QuestionProvider
	sessions  SessionProvider
	now       func() time.Time
}

func NewService(engine *Engine, cache SessionCache, questions QuestionProvider, sessions SessionProvider) *Service {
	return &Service{
		engine:    engine,
		cache:     cache,
		questions: questions,
		sessions:  sessions,
		now:       time.Now,
	}
}

// FindMatch 先探测题库（无题直接失败，避免无意义排队），再做持锁判定：
// 命中伙伴则收尾，否则入队等待。Case A 用请求方主题取题，Case B 用伙伴主题。
func (s *Service) FindMatch(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	diff := NormalizeDifficulty(req.Difficulty)
	topic := NormalizeTopic(req.Topic)

	if _, err := s.questions.Random(ctx, diff, topic); err != nil {
		metrics.RequestsTotal.WithLabelValues("no_question").Inc()
		return nil, fmt.Errorf("%w: %v", ErrNoQuestion, err)
	}

	d := s.engine.Match(req.UserID, diff, topic)
	metrics.QueueSize.Set(float64(s.engine.PendingCount()))

	switch {
	case d.Already:
		metrics.RequestsTotal.WithLabelValues("already_queued").Inc()
		return &MatchResponse{Matched: false, Message: "Already queued, waiting for a partner.", Pool: d.Pool}, nil
	case d.Mate == nil:
		metrics.RequestsTotal.WithLabelValues("queued").Inc()
		utils.Info.Printf("queued %s in %s", req.UserID, d.Pool)
		return &MatchResponse{Matched: false, Message: "Queued, waiting for a partner.", Pool: d.Pool}, nil
	}

	selectedTopic := topic
	if selectedTopic == "" {
		selectedTopic = d.Mate.Topic
	}

	resp, err := s.finalize(ctx, req.UserID, d.Mate, diff, selectedTopic)
	if err != nil {
		// 伙伴已被出队；放回原池首部，不能让外部故障悄悄吞掉它
		s.engine.Requeue(diff, d.Mate)
		metrics.RequestsTotal.WithLabelValues("provider_error").Inc()
		metrics.QueueSize.Set(float64(s.engine.PendingCount()))
		utils.Error.Printf("finalize %s/%s failed, partner %s requeued: %v", req.UserID, d.Mate.UserID, d.Mate.UserID, err)
		return nil, err
	}

	metrics.RequestsTotal.WithLabelValues("matched").Inc()
	metrics.WaitDuration.Observe(s.now().Sub(d.Mate.EnqueuedAt).Seconds())
	utils.Info.Printf("matched %s with %s session=%s", req.UserID, d.Mate.UserID, resp.SessionID)
	return resp, nil
}

// finalize 取题 -> 建会话 -> 写缓存 -> 同步响应请求方。
// 被动方只能通过轮询 status 命中缓存拿到结果。
func (s *Service) finalize(ctx context.Context, userID string, mate *WaitingRequest, difficulty, selectedTopic string) (*MatchResponse, error) {
	s.cache.Sweep(ctx)

	question, err := s.questions.Random(ctx, difficulty, selectedTopic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuestionFetch, err)
	}

	sessionID, err := s.sessions.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetupFailed, err)
	}

	cached := &MatchedSession{
		SessionID: sessionID,
		Users:     [2]string{userID, mate.UserID},
		Question:  question,
		CreatedAt: s.now(),
	}
	if err := s.cache.Put(ctx, cached); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetupFailed, err)
	}

	return &MatchResponse{
		Matched:   true,
		SessionID: sessionID,
		PartnerID: mate.UserID,
		Question:  question,
	}, nil
}

// Status 仍在排队返回 WAITING（查询前先对自己所在池做惰性清理）；
// 否则查缓存，命中返回 MATCHED；都没有返回 EXPIRED
func (s *Service) Status(ctx context.Context, userID string) (*MatchResponse, error) {
	if s.engine.Waiting(userID) {
		return &MatchResponse{Matched: false, Status: StatusWaiting}, nil
	}
	metrics.QueueSize.Set(float64(s.engine.PendingCount()))

	s.cache.Sweep(ctx)
	cached, err := s.cache.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return &MatchResponse{
			Matched:   true,
			SessionID: cached.SessionID,
			PartnerID: cached.PartnerOf(userID),
			Question:  cached.Question,
		}, nil
	}
	return &MatchResponse{Matched: false, Status: StatusExpired}, nil
}

func (s *Service) Cancel(ctx context.Context, userID string) error {
	err := s.engine.Remove(userID)
	metrics.QueueSize.Set(float64(s.engine.PendingCount()))
	if err == nil {
		utils.Info.Printf("cancelled %s", userID)
	}
	return err
}
