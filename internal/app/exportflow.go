package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"pdexport/internal/anonymize"
	"pdexport/internal/domain"
	"pdexport/internal/loader"
	"pdexport/internal/metrics"
	"pdexport/internal/pagerduty"
	"go.uber.org/zap"
)

const (
	// DirTimestampLayout 为输出目录的分钟级时间戳。
	DirTimestampLayout = "20060102_1504"
	runIDLayout        = "20060102T150405Z"
)

// GraphLoader 接收一次导出的图数据，nil 表示不同步图谱。
type GraphLoader interface {
	Load(ctx context.Context, runID string, nodes []domain.NodeRow, rels []domain.RelRow) error
}

// ExportResult 汇总一次导出。
type ExportResult struct {
	RunID    string         `json:"run_id"`
	Dir      string         `json:"dir"`
	Counts   map[string]int `json:"counts"`
	Files    []string       `json:"files"`
	Duration time.Duration  `json:"duration"`
	Tables   []domain.Table `json:"-"`
}

// ExportFlow 负责一次完整导出：建目录 -> 按阶段拉取转换写 CSV -> 可选同步图谱。
type ExportFlow struct {
	Client     pagerduty.Client
	Writer     *loader.CSVWriter
	Graph      GraphLoader
	Pipeline   *Pipeline
	Progress   io.Writer
	Logger     *zap.Logger
	OutputRoot string
	DirPrefix  string
	Anonymize  bool
	Now        func() time.Time
}

// Run 执行导出。任一阶段失败立即返回，此前已写出的文件保留。
func (f *ExportFlow) Run(ctx context.Context) (result ExportResult, err error) {
	if f.Client == nil {
		return result, fmt.Errorf("export flow 依赖未注入完整")
	}
	f.defaults()

	start := f.Now()
	defer func() {
		if err != nil {
			metrics.ExportErrors.Inc()
			return
		}
		metrics.ExportDuration.Observe(time.Since(start).Seconds())
		metrics.LastSuccess.SetToCurrentTime()
	}()

	result = ExportResult{
		RunID:  start.UTC().Format(runIDLayout),
		Dir:    filepath.Join(f.OutputRoot, f.DirPrefix+"_"+start.Format(DirTimestampLayout)),
		Counts: make(map[string]int),
	}
	if err := os.MkdirAll(result.Dir, 0o755); err != nil {
		return result, fmt.Errorf("创建输出目录失败: %w", err)
	}
	f.Logger.Info("export started", zap.String("run_id", result.RunID), zap.String("dir", result.Dir), zap.Bool("anonymize", f.Anonymize))

	in := StageInput{Client: f.Client, Registry: anonymize.NewRegistry(), Anonymize: f.Anonymize}
	for _, stage := range f.Pipeline.Stages() {
		fmt.Fprintf(f.Progress, "🔍 Fetching %s...\n", stage.Label)
		tables, err := stage.Run(ctx, in)
		if err != nil {
			f.Logger.Error("export stage failed", zap.String("stage", stage.Label), zap.Error(err))
			return result, fmt.Errorf("export %s: %w", stage.Label, err)
		}
		for _, table := range tables {
			path, err := f.Writer.WriteTable(result.Dir, table)
			if err != nil {
				return result, err
			}
			metrics.RowsWritten.WithLabelValues(table.File).Set(float64(len(table.Rows)))
			result.Counts[table.Name] = len(table.Rows)
			result.Files = append(result.Files, path)
			result.Tables = append(result.Tables, table)
			f.Logger.Debug("table written", zap.String("file", path), zap.Int("rows", len(table.Rows)))
		}
	}

	if f.Graph != nil {
		nodes, rels := pagerduty.BuildGraphRows(result.Tables, result.RunID)
		if err := f.Graph.Load(ctx, result.RunID, nodes, rels); err != nil {
			return result, fmt.Errorf("同步图谱失败: %w", err)
		}
	}

	result.Duration = time.Since(start)
	fmt.Fprintf(f.Progress, "\n✅ Export complete! Files saved to %s\n\n", result.Dir)
	f.Logger.Info("export completed", zap.String("run_id", result.RunID), zap.Duration("duration", result.Duration))
	return result, nil
}

func (f *ExportFlow) defaults() {
	if f.Writer == nil {
		f.Writer = loader.NewCSVWriter()
	}
	if f.Pipeline == nil {
		f.Pipeline = DefaultPipeline()
	}
	if f.Progress == nil {
		f.Progress = io.Discard
	}
	if f.Logger == nil {
		f.Logger = zap.NewNop()
	}
	if f.OutputRoot == "" {
		f.OutputRoot = "."
	}
	if f.DirPrefix == "" {
		f.DirPrefix = "pagerduty_export"
	}
	if f.Now == nil {
		f.Now = time.Now
	}
}
