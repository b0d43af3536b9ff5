package ioc

import (
	"context"

	"pdexport/internal/app"
	"pdexport/internal/job"
	"go.uber.org/zap"
)

// InitScheduler 构建定时导出调度器。
func InitScheduler(cfg app.Config, svc *app.Service, logger *zap.Logger) *job.Scheduler {
	var exportFn func(context.Context) error
	if svc != nil {
		exportFn = func(ctx context.Context) error {
			_, err := svc.Export(ctx, app.ExportOptions{})
			return err
		}
	}
	return job.NewScheduler(cfg, exportFn, logger)
}

// InitPruner 构建导出目录清理任务。
func InitPruner(cfg app.Config, logger *zap.Logger) *job.Pruner {
	return job.NewPruner(cfg, logger)
}
