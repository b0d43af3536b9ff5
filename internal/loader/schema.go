package loader

import (
	"context"
	"fmt"

	"pdexport/internal/cypher"
)

// SchemaManager 负责初始化约束和索引。
type SchemaManager struct {
	client Writer
}

func NewSchemaManager(client Writer) *SchemaManager {
	return &SchemaManager{client: client}
}

// Ensure 幂等地创建唯一约束与索引。
func (m *SchemaManager) Ensure(ctx context.Context) error {
	for _, query := range cypher.MustStatements("init_schema.cql") {
		if err := m.client.RunRaw(ctx, query, nil); err != nil {
			return fmt.Errorf("执行 schema 语句失败: %w", err)
		}
	}
	return nil
}
