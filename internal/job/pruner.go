package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pdexport/internal/app"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pruner 定时清理旧的导出目录，只保留最新的 keep 个。
type Pruner struct {
	root   string
	prefix string
	keep   int
	spec   string
	logger *zap.Logger
	cron   *cron.Cron
}

// NewPruner 根据 export.retain_runs 构建清理任务，retain_runs 为 0 时返回 nil。
func NewPruner(cfg app.Config, logger *zap.Logger) *Pruner {
	if cfg.Export.RetainRuns <= 0 {
		return nil
	}
	spec := strings.TrimSpace(cfg.Job.PruneCron)
	if spec == "" {
		spec = "@hourly"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pruner{
		root:   cfg.Export.OutputRoot,
		prefix: cfg.Export.DirPrefix,
		keep:   cfg.Export.RetainRuns,
		spec:   spec,
		logger: logger,
	}
}

// Start 启动清理任务，返回停止函数。
func (p *Pruner) Start(parent context.Context) context.CancelFunc {
	if p == nil {
		return func() {}
	}
	c := cron.New()
	_, err := c.AddFunc(p.spec, func() {
		if _, err := p.Prune(); err != nil {
			p.logger.Error("prune export dirs failed", zap.Error(err))
		}
	})
	if err != nil {
		p.logger.Error("failed to register prune job", zap.String("cron", p.spec), zap.Error(err))
		return func() {}
	}
	p.cron = c
	c.Start()
	p.logger.Info("prune job started", zap.String("cron", p.spec), zap.Int("keep", p.keep))

	stop := func() {
		ctx := p.cron.Stop()
		<-ctx.Done()
		p.logger.Info("prune job stopped")
	}

	go func() {
		<-parent.Done()
		stop()
	}()

	return stop
}

// Prune 删除多余的导出目录，返回被删除的路径。
// 目录名中的时间戳定长，按名称排序即按时间排序。
func (p *Pruner) Prune() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(p.root, p.prefix+"_*"))
	if err != nil {
		return nil, fmt.Errorf("匹配导出目录失败: %w", err)
	}
	dirs := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	if len(dirs) <= p.keep {
		return nil, nil
	}
	sort.Strings(dirs)

	var removed []string
	for _, dir := range dirs[:len(dirs)-p.keep] {
		if err := os.RemoveAll(dir); err != nil {
			return removed, fmt.Errorf("删除导出目录失败 %s: %w", dir, err)
		}
		removed = append(removed, dir)
		p.logger.Info("export dir pruned", zap.String("dir", dir))
	}
	return removed, nil
}
