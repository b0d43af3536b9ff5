package pagerduty

import (
	"time"

	"pdexport/internal/domain"
	"pdexport/pkg/util"
)

type nodeSpec struct {
	label  string
	prefix string
}

var nodeSpecs = map[string]nodeSpec{
	domain.EntityTeams:              {domain.LabelTeam, domain.PrefixTeam},
	domain.EntityUsers:              {domain.LabelUser, domain.PrefixUser},
	domain.EntitySchedules:          {domain.LabelSchedule, domain.PrefixSchedule},
	domain.EntityEscalationPolicies: {domain.LabelEscalationPolicy, domain.PrefixEscalationPolicy},
	domain.EntityServices:           {domain.LabelService, domain.PrefixService},
	domain.EntityIntegrations:       {domain.LabelIntegration, domain.PrefixIntegration},
}

// BuildGraphRows 把导出的表转换成图节点和关系。属性取自已匿名化的行，
// 因此图中的内容与 CSV 一致。关系只连向本次导出中存在的节点。
func BuildGraphRows(tables []domain.Table, runID string) ([]domain.NodeRow, []domain.RelRow) {
	now := time.Now().UTC()
	if runID == "" {
		runID = now.Format("20060102T150405Z")
	}

	var nodes []domain.NodeRow
	known := make(map[string]bool)
	for _, table := range tables {
		spec, ok := nodeSpecs[table.Name]
		if !ok {
			continue
		}
		for _, row := range table.Rows {
			id := row.Get("id")
			if id == "" {
				continue
			}
			key := domain.MakeKey(spec.prefix, id)
			if known[key] {
				continue
			}
			known[key] = true
			props := make(map[string]any, len(table.Columns)+1)
			for _, col := range table.Columns {
				props[col] = row.Get(col)
			}
			props["content_hash"] = util.HashMap(props, "content_hash")
			nodes = append(nodes, domain.NodeRow{
				Key:        key,
				Labels:     []string{spec.label, domain.LabelPagerDuty},
				Properties: props,
				RunID:      runID,
				UpdatedAt:  now,
			})
		}
	}

	var rels []domain.RelRow
	link := func(startPrefix, startID, endPrefix, endID, relType string) {
		if startID == "" || endID == "" {
			return
		}
		start, end := domain.MakeKey(startPrefix, startID), domain.MakeKey(endPrefix, endID)
		if !known[start] || !known[end] {
			return
		}
		rels = append(rels, domain.RelRow{
			StartKey:   start,
			EndKey:     end,
			Type:       relType,
			Properties: map[string]any{"source": "pagerduty"},
			RunID:      runID,
		})
	}

	for _, table := range tables {
		for _, row := range table.Rows {
			id := row.Get("id")
			switch table.Name {
			case domain.EntityUsers:
				link(domain.PrefixUser, id, domain.PrefixTeam, row.Get("team_id"), domain.RelMemberOf)
			case domain.EntitySchedules:
				link(domain.PrefixSchedule, id, domain.PrefixTeam, row.Get("team_id"), domain.RelOwnedBy)
			case domain.EntityEscalationPolicies:
				link(domain.PrefixEscalationPolicy, id, domain.PrefixTeam, row.Get("team_id"), domain.RelOwnedBy)
				for _, uid := range domain.SplitList(row.Get("user_ids")) {
					link(domain.PrefixEscalationPolicy, id, domain.PrefixUser, uid, domain.RelTargetsUser)
				}
				for _, sid := range domain.SplitList(row.Get("schedule_ids")) {
					link(domain.PrefixEscalationPolicy, id, domain.PrefixSchedule, sid, domain.RelTargetsSchedule)
				}
			case domain.EntityServices:
				link(domain.PrefixService, id, domain.PrefixTeam, row.Get("team_id"), domain.RelOwnedBy)
				link(domain.PrefixService, id, domain.PrefixEscalationPolicy, row.Get("escalation_policy_id"), domain.RelEscalatesVia)
			case domain.EntityIntegrations:
				link(domain.PrefixService, row.Get("service_id"), domain.PrefixIntegration, id, domain.RelHasIntegration)
			}
		}
	}
	return nodes, rels
}
