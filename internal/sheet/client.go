// Package sheet 封装对表格型 HTTP 存储（sheet.best 风格）的读、追加和按条件更新操作。
// 每个操作只发起一次请求，不重试，也不缓存任何结果。
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient 使用调用方提供的 http.Client，客户端会被复制，之后的选项不会修改调用方的值
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.httpClient = &clone
	}
}

// WithTimeout 为每次请求设置超时，0 表示不设置
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) buildURL(filters map[string]string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	for k, v := range filters {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// FetchAll 读取所有满足等值过滤条件的行
func (c *Client) FetchAll(ctx context.Context, filters map[string]string) ([]domain.RawRow, error) {
	rows := []domain.RawRow{}
	if err := c.do(ctx, http.MethodGet, filters, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateRow 追加一行，返回内容不可靠，调用方自行维护本地状态
func (c *Client) CreateRow(ctx context.Context, row domain.RawRow) error {
	return c.do(ctx, http.MethodPost, nil, []domain.RawRow{row}, nil)
}

// UpdateRows 对所有匹配 match 的行应用 patch，远端不返回受影响的行数
func (c *Client) UpdateRows(ctx context.Context, match map[string]string, patch domain.RawRow) error {
	return c.do(ctx, http.MethodPatch, match, []domain.RawRow{patch}, nil)
}

func (c *Client) do(ctx context.Context, method string, query map[string]string, body any, out any) error {
	target, err := c.buildURL(query)
	if err != nil {
		return &domain.RemoteError{Op: method, Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &domain.RemoteError{Op: method, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &domain.RemoteError{Op: method, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 不解析错误响应体，只记录状态码
		_, _ = io.Copy(io.Discard, resp.Body)
		return &domain.RemoteError{Op: method, StatusCode: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RemoteError{Op: method, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
