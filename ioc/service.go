package ioc

import (
	"pdexport/internal/app"
	"pdexport/internal/pagerduty"
	"go.uber.org/zap"
)

// InitAppService 构建导出服务。
func InitAppService(cfg app.Config, client pagerduty.Client, graph app.GraphLoader, logger *zap.Logger) (*app.Service, error) {
	return app.NewService(cfg, client, graph, logger)
}
