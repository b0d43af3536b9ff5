package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"pdexport/internal/loader"
	"pdexport/internal/pagerduty"
	"go.uber.org/zap"
)

// ErrExportRunning 表示已有导出在进行中。
var ErrExportRunning = errors.New("an export is already running")

// ExportOptions 覆盖单次导出的配置项，零值表示沿用配置。
type ExportOptions struct {
	Anonymize  *bool
	OutputRoot string
}

// Service 负责装配 ExportFlow 并保证同一时刻只有一次导出。
type Service struct {
	cfg      Config
	client   pagerduty.Client
	graph    GraphLoader
	writer   *loader.CSVWriter
	progress io.Writer
	logger   *zap.Logger

	mu sync.Mutex
}

// NewService 根据配置构建 Service，graph 可以为 nil。
func NewService(cfg Config, client pagerduty.Client, graph GraphLoader, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("必须提供 pagerduty client")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		client:   client,
		graph:    graph,
		writer:   loader.NewCSVWriter(),
		progress: os.Stdout,
		logger:   logger,
	}, nil
}

// SetProgress 设置进度输出，nil 表示丢弃。
func (s *Service) SetProgress(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.progress = w
}

// Config 返回服务使用的配置。
func (s *Service) Config() Config {
	return s.cfg
}

// Export 执行一次导出；已有导出在进行时返回 ErrExportRunning。
func (s *Service) Export(ctx context.Context, opts ExportOptions) (ExportResult, error) {
	if !s.mu.TryLock() {
		return ExportResult{}, ErrExportRunning
	}
	defer s.mu.Unlock()

	anonymizeNames := s.cfg.Export.Anonymize
	if opts.Anonymize != nil {
		anonymizeNames = *opts.Anonymize
	}
	root := s.cfg.Export.OutputRoot
	if opts.OutputRoot != "" {
		root = opts.OutputRoot
	}

	flow := &ExportFlow{
		Client:     s.client,
		Writer:     s.writer,
		Graph:      s.graph,
		Pipeline:   DefaultPipeline(),
		Progress:   s.progress,
		Logger:     s.logger,
		OutputRoot: root,
		DirPrefix:  s.cfg.Export.DirPrefix,
		Anonymize:  anonymizeNames,
	}
	return flow.Run(ctx)
}

// Close 释放资源。
func (s *Service) Close(context.Context) error {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	return nil
}
