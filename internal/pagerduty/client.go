package pagerduty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pdexport/internal/metrics"
)

const (
	// DefaultBaseURL 是 PagerDuty REST API 地址。
	DefaultBaseURL = "https://api.pagerduty.com"
	// DefaultAccept 固定请求 v2 API。
	DefaultAccept = "application/vnd.pagerduty+json;version=2.0"
	// DefaultPageSize 为每页条数，offset 按此步进。
	DefaultPageSize = 100
)

// Client 抽象 PagerDuty 数据源。
type Client interface {
	// List 拉取资源的全部分页并按原顺序拼接。
	List(ctx context.Context, res Resource) ([]Record, error)
}

// StaticClient 用于测试或离线演示，按资源 Key 返回内存中的记录。
type StaticClient struct {
	Data map[string][]Record
	Err  map[string]error
}

// List 返回预设记录。
func (c *StaticClient) List(_ context.Context, res Resource) ([]Record, error) {
	if err := c.Err[res.Key]; err != nil {
		return nil, err
	}
	return c.Data[res.Key], nil
}

// HTTPConfig 配置 HTTP 客户端。
type HTTPConfig struct {
	BaseURL      string
	TokenSource  TokenSource
	Accept       string
	PageSize     int
	Timeout      time.Duration
	CustomClient *http.Client
}

// HTTPClient 实现 Client，通过 HTTP 与 PagerDuty 通信。
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource TokenSource
	accept      string
	pageSize    int
}

// NewHTTPClient 根据配置创建 HTTP 客户端。Timeout 为 0 时不设超时。
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if cfg.TokenSource == nil {
		return nil, errors.New("token source is required")
	}
	client := cfg.CustomClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	accept := cfg.Accept
	if strings.TrimSpace(accept) == "" {
		accept = DefaultAccept
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  client,
		tokenSource: cfg.TokenSource,
		accept:      accept,
		pageSize:    pageSize,
	}, nil
}

// List 按 offset 分页拉取，直到响应中 more 不为 true。
// 任一页失败立即返回，不重试。
func (c *HTTPClient) List(ctx context.Context, res Resource) ([]Record, error) {
	if c == nil {
		return nil, errors.New("pagerduty http client is not initialized")
	}
	parsed, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(res.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse request url: %w", err)
	}
	query := parsed.Query()
	for k, vs := range res.Params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("limit", strconv.Itoa(c.pageSize))

	var (
		all    []Record
		offset = 0
	)
	for {
		query.Set("offset", strconv.Itoa(offset))
		parsed.RawQuery = query.Encode()

		chunk, more, err := c.fetchPage(ctx, parsed.String(), res.Key)
		if err != nil {
			return nil, err
		}
		metrics.PagesFetched.WithLabelValues(res.Key).Inc()
		metrics.RecordsFetched.WithLabelValues(res.Key).Add(float64(len(chunk)))

		all = append(all, chunk...)
		if !more {
			break
		}
		offset += c.pageSize
	}
	return all, nil
}

func (c *HTTPClient) fetchPage(ctx context.Context, endpoint, key string) ([]Record, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", c.accept)
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("get token: %w", err)
	}
	req.Header.Set("Authorization", "Token token="+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("request %s: %w", redact(endpoint), err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, false, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := string(body)
		if len(text) > 512 {
			text = text[:512]
		}
		return nil, false, &HTTPError{StatusCode: resp.StatusCode, URL: redact(endpoint), Body: strings.TrimSpace(text)}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}

	var more bool
	if raw, ok := payload["more"]; ok {
		// 非布尔值按 false 处理
		_ = json.Unmarshal(raw, &more)
	}

	raw, ok := payload[key]
	if !ok {
		return nil, more, nil
	}
	records, err := decodeRecords(raw, key)
	if err != nil {
		return nil, false, err
	}
	return records, more, nil
}

func decodeRecords(raw json.RawMessage, key string) ([]Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &UnexpectedResponseShapeError{Key: key, Got: jsonKind(trimmed)}
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &UnexpectedResponseShapeError{Key: key, Got: "list of " + kindOf(item)}
		}
		out = append(out, Record(m))
	}
	return out, nil
}

func jsonKind(raw []byte) string {
	if len(raw) == 0 {
		return "empty"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "bool"
	default:
		return "number"
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// redact 去掉 URL 中的查询串，避免日志与错误中出现过长参数。
func redact(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}
