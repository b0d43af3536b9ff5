package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pdexport/internal/app"
	"pdexport/internal/job"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPServer 封装 daemon 模式运行所需的依赖。
type HTTPServer struct {
	Engine  *gin.Engine
	Logger  *zap.Logger
	Config  app.Config
	Service *app.Service
	Job     *job.Scheduler
	Pruner  *job.Pruner
}

// NewHTTPServer 构建 HTTPServer。
func NewHTTPServer(engine *gin.Engine, logger *zap.Logger, cfg app.Config, svc *app.Service, scheduler *job.Scheduler, pruner *job.Pruner) *HTTPServer {
	return &HTTPServer{
		Engine:  engine,
		Logger:  logger,
		Config:  cfg,
		Service: svc,
		Job:     scheduler,
		Pruner:  pruner,
	}
}

// Run 启动 HTTP 服务及相关后台任务，ctx 结束时优雅退出。
func (s *HTTPServer) Run(ctx context.Context) error {
	listen := strings.TrimSpace(s.Config.HTTP.Listen)
	if listen == "" {
		listen = ":8080"
	}

	cancelJob := s.Job.Start(ctx)
	defer cancelJob()
	cancelPrune := s.Pruner.Start(ctx)
	defer cancelPrune()

	if s.Config.Job.InitialExport && s.Service != nil {
		if result, err := s.Service.Export(ctx, app.ExportOptions{}); err != nil {
			s.Logger.Error("initial export failed", zap.Error(err))
		} else {
			s.Logger.Info("initial export completed", zap.String("dir", result.Dir))
		}
	} else {
		s.Logger.Info("initial export skipped by configuration")
	}

	srv := &http.Server{Addr: listen, Handler: s.Engine}
	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("http server starting", zap.String("listen", listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warn("http server shutdown failed", zap.Error(err))
		}
		s.Shutdown(shutdownCtx)
		return nil
	}
}

// Shutdown 释放资源。
func (s *HTTPServer) Shutdown(ctx context.Context) {
	if s.Service != nil {
		if err := s.Service.Close(ctx); err != nil {
			s.Logger.Warn("close app service failed", zap.Error(err))
		}
	}
	_ = s.Logger.Sync()
}
