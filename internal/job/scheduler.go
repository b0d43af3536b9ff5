package job

import (
	"context"
	"strings"
	"sync"
	"time"

	"pdexport/internal/app"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler 按 cron 表达式定时触发导出。
type Scheduler struct {
	cronExpr   string
	logger     *zap.Logger
	cron       *cron.Cron
	exportFunc func(context.Context) error
	parent     context.Context
	mu         sync.Mutex
	running    bool
}

// NewScheduler 根据配置构建调度器，job.cron 为空时返回 nil（不定时导出）。
func NewScheduler(cfg app.Config, exportFunc func(context.Context) error, logger *zap.Logger) *Scheduler {
	spec := strings.TrimSpace(cfg.Job.Cron)
	if spec == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cronExpr: spec, logger: logger, exportFunc: exportFunc}
}

// Start 启动调度器，返回用于停止任务的函数。
func (s *Scheduler) Start(parent context.Context) context.CancelFunc {
	if s == nil {
		return func() {}
	}
	s.parent = parent
	c := cron.New()
	id, err := c.AddFunc(s.cronExpr, s.runOnce)
	if err != nil {
		s.logger.Error("failed to register export job", zap.String("cron", s.cronExpr), zap.Error(err))
		return func() {}
	}
	s.cron = c
	c.Start()
	s.logger.Info("export scheduler started", zap.String("cron", s.cronExpr), zap.Time("next", c.Entry(id).Next))

	var once sync.Once
	stop := func() {
		once.Do(func() {
			ctx := s.cron.Stop()
			<-ctx.Done()
			s.logger.Info("export scheduler stopped")
		})
	}

	go func() {
		<-parent.Done()
		stop()
	}()

	return stop
}

func (s *Scheduler) runOnce() {
	if s.exportFunc == nil {
		s.logger.Warn("export function not configured")
		return
	}
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("previous export still running, skip current schedule")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runCtx := context.Background()
	if s.parent != nil {
		if s.parent.Err() != nil {
			s.logger.Info("scheduler context cancelled, skip export")
			return
		}
		runCtx = s.parent
	}
	start := time.Now()
	err := s.exportFunc(runCtx)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error("scheduled export failed", zap.Duration("duration", elapsed), zap.Error(err))
		return
	}
	s.logger.Info("scheduled export completed", zap.Duration("duration", elapsed))
}
