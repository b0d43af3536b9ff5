package router

import (
	"context"
	"errors"
	"io"
	"net/http"

	"pdexport/internal/app"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Exporter 是 HTTP 层依赖的导出能力，由 *app.Service 实现。
type Exporter interface {
	Export(ctx context.Context, opts app.ExportOptions) (app.ExportResult, error)
}

// ExportHandler 负责处理导出相关的 HTTP 请求。
type ExportHandler struct {
	exporter Exporter
	logger   *zap.Logger
}

// NewExportHandler 构建一个新的 ExportHandler。
func NewExportHandler(exporter Exporter, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exporter: exporter, logger: logger}
}

// RegisterRoutes 将导出路由注册到给定的路由组。
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.handleExport)
}

type exportRequest struct {
	Anonymize *bool `json:"anonymize"`
}

type exportResponse struct {
	RunID  string         `json:"run_id"`
	Dir    string         `json:"dir"`
	Counts map[string]int `json:"counts"`
}

func (h *ExportHandler) handleExport(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	result, err := h.exporter.Export(c.Request.Context(), app.ExportOptions{Anonymize: req.Anonymize})
	if errors.Is(err, app.ErrExportRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, exportResponse{RunID: result.RunID, Dir: result.Dir, Counts: result.Counts})
}
