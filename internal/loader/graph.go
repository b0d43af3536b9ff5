package loader

import (
	"context"
	"fmt"

	"pdexport/internal/domain"
	"go.uber.org/zap"
)

// GraphSink 把一次导出的节点与关系同步进 Neo4j：建 schema -> 写节点 -> 写关系 -> 清理过期数据。
type GraphSink struct {
	Schema  *SchemaManager
	Nodes   *NodeUpserter
	Rels    *RelUpserter
	Cleaner *Cleaner
	Logger  *zap.Logger
}

// NewGraphSink 基于同一个 Writer 装配各组件。
func NewGraphSink(client Writer, batchSize int, logger *zap.Logger) *GraphSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphSink{
		Schema:  NewSchemaManager(client),
		Nodes:   NewNodeUpserter(client, batchSize),
		Rels:    NewRelUpserter(client, batchSize),
		Cleaner: NewCleaner(client),
		Logger:  logger,
	}
}

// Load 写入本次导出的图数据。
func (s *GraphSink) Load(ctx context.Context, runID string, nodes []domain.NodeRow, rels []domain.RelRow) error {
	if s == nil || s.Nodes == nil || s.Rels == nil {
		return fmt.Errorf("graph sink 依赖未注入完整")
	}
	if s.Schema != nil {
		if err := s.Schema.Ensure(ctx); err != nil {
			return err
		}
	}
	if err := s.Nodes.UpsertNodes(ctx, nodes); err != nil {
		return err
	}
	if err := s.Rels.UpsertRels(ctx, rels); err != nil {
		return err
	}
	if s.Cleaner != nil {
		if err := s.Cleaner.HardDeleteRelationships(ctx, runID); err != nil {
			return fmt.Errorf("删除过期关系失败: %w", err)
		}
		if err := s.Cleaner.HardDeleteNodes(ctx, runID); err != nil {
			return fmt.Errorf("删除过期节点失败: %w", err)
		}
	}
	s.Logger.Info("graph sync completed", zap.String("run_id", runID), zap.Int("nodes", len(nodes)), zap.Int("rels", len(rels)))
	return nil
}
