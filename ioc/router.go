package ioc

import (
	"pdexport/internal/app"
	"pdexport/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// InitExportHandler 构建导出 HTTP 处理器。
func InitExportHandler(svc *app.Service, logger *zap.Logger) *router.ExportHandler {
	return router.NewExportHandler(svc, logger)
}

// InitGinEngine 构建 gin 引擎。
func InitGinEngine(exportHandler *router.ExportHandler, gatherer prometheus.Gatherer) *gin.Engine {
	return router.NewEngine(exportHandler, gatherer)
}
