package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// CollabClient 调用协作服务 POST /matches 创建会话
type CollabClient struct {
	base string
	hc   *http.Client
}

func NewCollabClient(base string, hc *http.Client) *CollabClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &CollabClient{base: strings.TrimRight(base, "/"), hc: hc}
}

// CreateSession 创建一个空的协作会话，返回 matchId
func (c *CollabClient) CreateSession(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/matches", strings.NewReader("{}"))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("collab service returned %d", resp.StatusCode)
	}

	var out struct {
		MatchID string `json:"matchId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.MatchID == "" {
		return "", fmt.Errorf("collab service returned empty matchId")
	}
	return out.MatchID, nil
}
