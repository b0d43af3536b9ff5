package pagerduty

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Record 是 API 返回的一条原始实体，不做 schema 约束。
type Record map[string]any

// String 读取字符串字段，缺失或为 null 时返回空串。
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Map 读取嵌套对象，不存在或类型不符时返回 nil。
func (r Record) Map(key string) Record {
	switch v := r[key].(type) {
	case map[string]any:
		return Record(v)
	case Record:
		return v
	default:
		return nil
	}
}

// Records 读取对象数组，非对象元素被忽略。
func (r Record) Records(key string) []Record {
	switch v := r[key].(type) {
	case []any:
		out := make([]Record, 0, len(v))
		for _, item := range v {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, Record(m))
			case Record:
				out = append(out, m)
			}
		}
		return out
	case []Record:
		return v
	case []map[string]any:
		out := make([]Record, 0, len(v))
		for _, m := range v {
			out = append(out, Record(m))
		}
		return out
	default:
		return nil
	}
}

// Len 返回数组字段的元素个数（含非对象元素）。
func (r Record) Len(key string) int {
	switch v := r[key].(type) {
	case []any:
		return len(v)
	case []Record:
		return len(v)
	case []map[string]any:
		return len(v)
	default:
		return 0
	}
}

// FirstTeamID 返回 teams 列表中第一个团队的 id，没有则为空串。
func (r Record) FirstTeamID() string {
	teams := r.Records("teams")
	if len(teams) == 0 {
		return ""
	}
	return teams[0].String("id")
}

// Resource 描述一个分页资源集合。
type Resource struct {
	// Path 是相对 base url 的路径，如 "teams"。
	Path string
	// Key 是响应体中承载列表的字段名。
	Key string
	// Params 为额外查询参数。
	Params url.Values
}

// 导出涉及的资源。
var (
	TeamsResource              = Resource{Path: "teams", Key: "teams"}
	UsersResource              = Resource{Path: "users", Key: "users"}
	SchedulesResource          = Resource{Path: "schedules", Key: "schedules"}
	EscalationPoliciesResource = Resource{Path: "escalation_policies", Key: "escalation_policies"}
	ServicesResource           = Resource{Path: "services", Key: "services", Params: url.Values{"include[]": {"integrations"}}}
)
