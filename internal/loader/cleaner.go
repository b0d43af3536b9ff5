package loader

import "context"

// Cleaner 负责删除上一轮导出之后已不存在的节点和关系。
type Cleaner struct {
	client Writer
}

func NewCleaner(client Writer) *Cleaner {
	return &Cleaner{client: client}
}

// HardDeleteNodes 删除 last_seen_run_id 小于 runID 的节点。run id 为 UTC 时间戳，可按字典序比较。
func (c *Cleaner) HardDeleteNodes(ctx context.Context, runID string) error {
	query := `MATCH (n:PagerDuty) WHERE n.last_seen_run_id < $run_id DETACH DELETE n`
	return c.client.RunWrite(ctx, query, map[string]any{"run_id": runID})
}

// HardDeleteRelationships 删除 last_seen_run_id 小于 runID 的关系。
func (c *Cleaner) HardDeleteRelationships(ctx context.Context, runID string) error {
	query := `MATCH (:PagerDuty)-[r]->(:PagerDuty) WHERE r.last_seen_run_id < $run_id DELETE r`
	return c.client.RunWrite(ctx, query, map[string]any{"run_id": runID})
}
