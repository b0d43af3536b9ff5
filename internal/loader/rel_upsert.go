package loader

import (
	"context"
	"fmt"
	"sort"

	"pdexport/internal/cypher"
	"pdexport/internal/domain"
	"pdexport/pkg/util"
)

// RelUpserter 负责关系批量写入。
type RelUpserter struct {
	client    Writer
	batchSize int
}

func NewRelUpserter(client Writer, batchSize int) *RelUpserter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &RelUpserter{client: client, batchSize: batchSize}
}

// UpsertRels 按关系类型分组后批量 MERGE，两端节点必须已存在。
func (u *RelUpserter) UpsertRels(ctx context.Context, rows []domain.RelRow) error {
	if len(rows) == 0 {
		return nil
	}
	grouped := make(map[string][]domain.RelRow)
	for _, row := range rows {
		grouped[row.Type] = append(grouped[row.Type], row)
	}
	types := make([]string, 0, len(grouped))
	for t := range grouped {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, relType := range types {
		query := cypher.MustTemplate("upsert_rels.cql", map[string]string{"RelType": ":" + relType})
		for _, chunk := range util.Batch(grouped[relType], u.batchSize) {
			params := map[string]any{"rows": toRelParameters(chunk)}
			if err := u.client.RunWrite(ctx, query, params); err != nil {
				return fmt.Errorf("写入关系失败 type=%s: %w", relType, err)
			}
		}
	}
	return nil
}

func toRelParameters(rows []domain.RelRow) []map[string]any {
	res := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		res = append(res, map[string]any{
			"start_key":  row.StartKey,
			"end_key":    row.EndKey,
			"properties": row.Properties,
			"run_id":     row.RunID,
		})
	}
	return res
}
