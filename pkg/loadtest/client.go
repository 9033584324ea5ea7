package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client 博客 API 客户端，只覆盖压测用到的接口
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient 连接数按高并发调大
func NewClient(baseURL string) *Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Transport: t, Timeout: 10 * time.Second},
	}
}

// StatusError 非预期的 HTTP 状态码
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// Health 健康检查
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, http.StatusOK, nil)
}

// Register 注册并返回 token
func (c *Client) Register(ctx context.Context, username, email string) (string, error) {
	q := url.Values{"username": {username}, "email": {email}}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/register?"+q.Encode(), "", nil, http.StatusOK, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// CreatePost 发布文章并返回 ID
func (c *Client) CreatePost(ctx context.Context, token, content string, tags []string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	body := map[string]any{"content": content, "tags": tags}
	if err := c.do(ctx, http.MethodPost, "/posts", token, body, http.StatusCreated, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ReactionCounts 文章的反应统计
func (c *Client) ReactionCounts(ctx context.Context, postID string) (map[string]int64, error) {
	var out []struct {
		Reaction string `json:"reaction"`
		Count    int64  `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/posts/"+postID+"/reactions", "", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(out))
	for _, rc := range out {
		counts[rc.Reaction] = rc.Count
	}
	return counts, nil
}

// HealthRequest 以下为压测请求
func (c *Client) HealthRequest() RequestFunc {
	return c.Health
}

func (c *Client) ListPostsRequest(tag string) RequestFunc {
	path := "/posts?limit=20"
	if tag != "" {
		path += "&tag=" + url.QueryEscape(tag)
	}
	return func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, path, "", nil, http.StatusOK, nil)
	}
}

func (c *Client) TopTagsRequest() RequestFunc {
	return func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/analytics/top-tags", "", nil, http.StatusOK, nil)
	}
}

func (c *Client) ReactRequest(token, postID, kind string) RequestFunc {
	path := "/posts/" + postID + "/reactions?reaction_type=" + url.QueryEscape(kind)
	return func(ctx context.Context) error {
		return c.do(ctx, http.MethodPost, path, token, nil, http.StatusOK, nil)
	}
}

func (c *Client) ViewRequest(token, postID string) RequestFunc {
	return func(ctx context.Context) error {
		return c.do(ctx, http.MethodPut, "/posts/"+postID, token, map[string]any{"inc_views": 1}, http.StatusOK, nil)
	}
}
