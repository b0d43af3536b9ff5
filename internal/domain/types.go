package domain

import "time"

// Row 是一行扁平化输出，列名到字符串值。
type Row map[string]string

// Get 返回列值，缺失时为空串。
func (r Row) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// Table 是一个 CSV 文件的完整内容：文件名、固定列顺序和行。
type Table struct {
	Name    string
	File    string
	Columns []string
	Rows    []Row
}

// NodeRow 是批量 upsert 的统一 DTO。
type NodeRow struct {
	Key        string         `json:"pd_key"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
	RunID      string         `json:"run_id"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// RelRow 代表一条关系需要的信息。
type RelRow struct {
	StartKey   string         `json:"start_key"`
	EndKey     string         `json:"end_key"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	RunID      string         `json:"run_id"`
}
