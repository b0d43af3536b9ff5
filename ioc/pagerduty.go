package ioc

import (
	"time"

	"pdexport/internal/app"
	"pdexport/internal/pagerduty"
)

// InitPagerDutyClient 构建 PagerDuty 数据源客户端，token 取自配置或环境变量。
func InitPagerDutyClient(cfg app.Config) (pagerduty.Client, error) {
	token, err := pagerduty.ResolveToken(cfg.PagerDuty.Token, cfg.PagerDuty.TokenEnv, nil)
	if err != nil {
		return nil, err
	}
	return pagerduty.NewHTTPClient(pagerduty.HTTPConfig{
		BaseURL:     cfg.PagerDuty.BaseURL,
		TokenSource: &pagerduty.StaticTokenSource{Value: token},
		Accept:      cfg.PagerDuty.Accept,
		PageSize:    cfg.PagerDuty.PageSize,
		Timeout:     time.Duration(cfg.PagerDuty.TimeoutSeconds) * time.Second,
	})
}
