package pagerduty

import (
	"context"
	"os"
	"strings"
)

// DefaultTokenEnv 是未显式指定凭据时读取的环境变量。
const DefaultTokenEnv = "PAGERDUTY_API_TOKEN"

// TokenSource 用于提供调用 API 所需的 Token。
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource 返回固定 Token。
type StaticTokenSource struct {
	Value string
}

// Token 返回固定值。
func (s *StaticTokenSource) Token(context.Context) (string, error) {
	return s.Value, nil
}

// LookupFunc 与 os.LookupEnv 同签名，便于测试替换。
type LookupFunc func(string) (string, bool)

// ResolveToken 在直接给定的 token 与环境变量名之间二选一。
// token 非空时直接使用；否则读取 envName（为空时取 DefaultTokenEnv），
// 变量不存在或为空返回 *CredentialMissingError。
func ResolveToken(token, envName string, lookup LookupFunc) (string, error) {
	if token != "" {
		return token, nil
	}
	if strings.TrimSpace(envName) == "" {
		envName = DefaultTokenEnv
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(envName)
	if !ok || strings.TrimSpace(value) == "" {
		return "", &CredentialMissingError{EnvVar: envName}
	}
	return value, nil
}
