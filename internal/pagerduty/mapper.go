package pagerduty

import (
	"sort"
	"strconv"
	"strings"

	"pdexport/internal/anonymize"
	"pdexport/internal/domain"
)

const (
	targetUserReference     = "user_reference"
	targetScheduleReference = "schedule_reference"
)

// BuildTeamRows 生成 teams.csv 的行；匿名化时名称换成假名、描述清空。
func BuildTeamRows(records []Record, reg *anonymize.Registry, anonymizeNames bool) domain.Table {
	rows := make([]domain.Row, 0, len(records))
	for _, t := range records {
		id, name := t.String("id"), t.String("name")
		reg.Observe(domain.EntityTeams, id, name)
		row := domain.Row{"id": id, "name": name, "description": t.String("description")}
		if anonymizeNames {
			row["name"] = reg.Pseudonym(domain.EntityTeams, name)
			row["description"] = ""
		}
		rows = append(rows, row)
	}
	return domain.Table{Name: domain.EntityTeams, File: domain.FileTeams, Columns: domain.TeamColumns, Rows: rows}
}

// BuildUserRows 生成 users.csv 的行。用户名总是匿名、邮箱总是脱敏，与开关无关。
func BuildUserRows(records []Record, reg *anonymize.Registry) domain.Table {
	rows := make([]domain.Row, 0, len(records))
	for _, u := range records {
		id, name := u.String("id"), u.String("name")
		reg.Observe(domain.EntityUsers, id, name)
		rows = append(rows, domain.Row{
			"id":      id,
			"name":    reg.Pseudonym(domain.EntityUsers, name),
			"email":   domain.RedactedEmail,
			"role":    u.String("role"),
			"team_id": u.FirstTeamID(),
		})
	}
	return domain.Table{Name: domain.EntityUsers, File: domain.FileUsers, Columns: domain.UserColumns, Rows: rows}
}

// BuildScheduleRows 生成 schedules.csv 的行。
// total_users 是各层用户数之和，同一用户出现在多层时会重复计数。
func BuildScheduleRows(records []Record, reg *anonymize.Registry, anonymizeNames bool) domain.Table {
	rows := make([]domain.Row, 0, len(records))
	for _, s := range records {
		id, name := s.String("id"), s.String("name")
		reg.Observe(domain.EntitySchedules, id, name)
		layers := s.Records("schedule_layers")
		totalUsers := 0
		for _, layer := range layers {
			totalUsers += layer.Len("users")
		}
		if anonymizeNames {
			name = reg.Pseudonym(domain.EntitySchedules, name)
		}
		rows = append(rows, domain.Row{
			"id":          id,
			"name":        name,
			"time_zone":   s.String("time_zone"),
			"num_layers":  strconv.Itoa(len(layers)),
			"total_users": strconv.Itoa(totalUsers),
			"team_id":     s.FirstTeamID(),
		})
	}
	return domain.Table{Name: domain.EntitySchedules, File: domain.FileSchedules, Columns: domain.ScheduleColumns, Rows: rows}
}

// BuildEscalationPolicyRows 生成 escalation_policies.csv 的行。
// 规则目标只有在对应的用户/排班已登记时才会保留，因此必须在两者之后调用。
func BuildEscalationPolicyRows(records []Record, reg *anonymize.Registry, anonymizeNames bool) domain.Table {
	rows := make([]domain.Row, 0, len(records))
	for _, p := range records {
		id, name := p.String("id"), p.String("name")
		reg.Observe(domain.EntityEscalationPolicies, id, name)

		var userIDs, scheduleIDs []string
		for _, rule := range p.Records("escalation_rules") {
			for _, target := range rule.Records("targets") {
				targetID := target.String("id")
				switch target.String("type") {
				case targetUserReference:
					if reg.Seen(domain.EntityUsers, targetID) {
						userIDs = append(userIDs, targetID)
					}
				case targetScheduleReference:
					if reg.Seen(domain.EntitySchedules, targetID) {
						scheduleIDs = append(scheduleIDs, targetID)
					}
				}
			}
		}
		if anonymizeNames {
			name = reg.Pseudonym(domain.EntityEscalationPolicies, name)
		}
		rows = append(rows, domain.Row{
			"id":           id,
			"name":         name,
			"user_ids":     strings.Join(userIDs, domain.ListSeparator),
			"schedule_ids": strings.Join(scheduleIDs, domain.ListSeparator),
			"team_id":      p.FirstTeamID(),
		})
	}
	return domain.Table{Name: domain.EntityEscalationPolicies, File: domain.FileEscalationPolicies, Columns: domain.EscalationPolicyColumns, Rows: rows}
}

// BuildServiceRows 生成 services.csv 以及从服务内联集成中抽取的 integration_details.csv。
// 集成行额外携带 service_id（不在列中），供图谱建边使用。
func BuildServiceRows(records []Record, reg *anonymize.Registry, anonymizeNames bool) (domain.Table, domain.Table) {
	services := make([]domain.Row, 0, len(records))
	var integrations []domain.Row
	for _, svc := range records {
		id, name := svc.String("id"), svc.String("name")
		reg.Observe(domain.EntityServices, id, name)
		if anonymizeNames {
			name = reg.Pseudonym(domain.EntityServices, name)
		}

		items := svc.Records("integrations")
		summaries := make([]string, 0, len(items))
		for _, in := range items {
			summary := in.String("summary")
			summaries = append(summaries, summary)
			integrations = append(integrations, domain.Row{
				"id":               in.String("id"),
				"summary":          summary,
				"integration_type": in.String("type"),
				"vendor":           in.Map("vendor").String("summary"),
				"service":          name,
				"service_id":       id,
			})
		}

		services = append(services, domain.Row{
			"id":                   id,
			"name":                 name,
			"escalation_policy_id": svc.Map("escalation_policy").String("id"),
			"integrations":         strings.Join(summaries, domain.ListSeparator),
			"team_id":              svc.FirstTeamID(),
		})
	}
	return domain.Table{Name: domain.EntityServices, File: domain.FileServices, Columns: domain.ServiceColumns, Rows: services},
		domain.Table{Name: domain.EntityIntegrations, File: domain.FileIntegrationDetails, Columns: domain.IntegrationColumns, Rows: integrations}
}

// BuildIntegrationTypeRows 统计各集成类型出现次数，按类型名升序输出。
func BuildIntegrationTypeRows(integrations domain.Table) domain.Table {
	counts := make(map[string]int)
	for _, row := range integrations.Rows {
		counts[row.Get("integration_type")]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	rows := make([]domain.Row, 0, len(types))
	for _, t := range types {
		rows = append(rows, domain.Row{"integration_type": t, "count": strconv.Itoa(counts[t])})
	}
	return domain.Table{Name: domain.EntityIntegrationTypes, File: domain.FileIntegrationTypes, Columns: domain.IntegrationTypeColumns, Rows: rows}
}
