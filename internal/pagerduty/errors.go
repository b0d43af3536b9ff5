package pagerduty

import "fmt"

// CredentialMissingError 表示指定的环境变量未设置或为空。
type CredentialMissingError struct {
	EnvVar string
}

func (e *CredentialMissingError) Error() string {
	return fmt.Sprintf("environment variable %s is not set or empty", e.EnvVar)
}

// HTTPError 表示 API 返回了非 2xx 状态码。
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string // 最多 512 字节
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// UnexpectedResponseShapeError 表示列表字段存在但不是数组。
type UnexpectedResponseShapeError struct {
	Key string
	Got string
}

func (e *UnexpectedResponseShapeError) Error() string {
	return fmt.Sprintf("expected a list for key %q, got: %s", e.Key, e.Got)
}
