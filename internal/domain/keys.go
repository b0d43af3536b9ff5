package domain

import (
	"fmt"
	"sort"
	"strings"
)

// 实体类型，同时也是 API 资源名和注册表的分组键。
const (
	EntityTeams              = "teams"
	EntityUsers              = "users"
	EntitySchedules          = "schedules"
	EntityEscalationPolicies = "escalation_policies"
	EntityServices           = "services"
	EntityIntegrations       = "integrations"
	EntityIntegrationTypes   = "integration_types"
)

// 输出文件名。
const (
	FileTeams              = "teams.csv"
	FileUsers              = "users.csv"
	FileSchedules          = "schedules.csv"
	FileEscalationPolicies = "escalation_policies.csv"
	FileServices           = "services.csv"
	FileIntegrationDetails = "integration_details.csv"
	FileIntegrationTypes   = "integration_types.csv"
)

var (
	TeamColumns             = []string{"id", "name", "description"}
	UserColumns             = []string{"id", "name", "email", "role", "team_id"}
	ScheduleColumns         = []string{"id", "name", "time_zone", "num_layers", "total_users", "team_id"}
	EscalationPolicyColumns = []string{"id", "name", "user_ids", "schedule_ids", "team_id"}
	ServiceColumns          = []string{"id", "name", "escalation_policy_id", "integrations", "team_id"}
	IntegrationColumns      = []string{"id", "summary", "integration_type", "vendor", "service"}
	IntegrationTypeColumns  = []string{"integration_type", "count"}
)

// ListSeparator 用于把列表类关系拍平成单个字段。
const ListSeparator = ", "

// RedactedEmail 替换所有用户邮箱。
const RedactedEmail = "hidden@example.com"

// 图模型的标签与关系类型。
const (
	LabelTeam             = "Team"
	LabelUser             = "User"
	LabelSchedule         = "Schedule"
	LabelEscalationPolicy = "EscalationPolicy"
	LabelService          = "Service"
	LabelIntegration      = "Integration"
	LabelPagerDuty        = "PagerDuty"

	RelMemberOf        = "MEMBER_OF"
	RelOwnedBy         = "OWNED_BY"
	RelTargetsUser     = "TARGETS_USER"
	RelTargetsSchedule = "TARGETS_SCHEDULE"
	RelEscalatesVia    = "ESCALATES_VIA"
	RelHasIntegration  = "HAS_INTEGRATION"
)

const (
	PrefixTeam             = "TEAM"
	PrefixUser             = "USER"
	PrefixSchedule         = "SCHED"
	PrefixEscalationPolicy = "EP"
	PrefixService          = "SVC"
	PrefixIntegration      = "INT"
)

// MakeKey 统一生成 pd_key，带上前缀以避免不同实体的 id 冲突。
func MakeKey(prefix string, rawID any) string {
	return fmt.Sprintf("%s_%v", prefix, rawID)
}

// SplitList 是 ListSeparator 拼接的逆操作，空串返回 nil。
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ListSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LabelPattern 根据标签集合拼成 Cypher 模板所需的字符串，如 ":A:B"。
func LabelPattern(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	return ":" + strings.Join(sorted, ":")
}

// JoinLabels 简单拼接标签用于 map key（内部使用）。
func JoinLabels(labels []string) string {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	return strings.Join(sorted, ":")
}
