package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// QuestionClient 调用题库服务 GET /questions/random
type QuestionClient struct {
	base string
	hc   *http.Client
}

func NewQuestionClient(base string, hc *http.Client) *QuestionClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &QuestionClient{base: strings.TrimRight(base, "/"), hc: hc}
}

// Random 按 difficulty/topic 随机取一题；topic 为空表示不限主题。
// 返回原始 JSON，题目内容对本服务不透明。
func (q *QuestionClient) Random(ctx context.Context, difficulty, topic string) (json.RawMessage, error) {
	params := url.Values{}
	if difficulty != "" {
		params.Set("difficulty", difficulty)
	}
	if topic != "" {
		params.Set("topic", topic)
	}
	u := q.base + "/questions/random"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := q.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("question service returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
