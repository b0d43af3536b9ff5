package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pdexport/internal/anonymize"
	"pdexport/internal/domain"
	"pdexport/internal/pagerduty"
)

// ErrStageOrder 表示某个阶段依赖的数据没有由更早的阶段产出。
var ErrStageOrder = errors.New("stage order violates declared dependencies")

// StageInput 是阶段运行时可用的共享状态，registry 在同一次导出内的各阶段间共享。
type StageInput struct {
	Client    pagerduty.Client
	Registry  *anonymize.Registry
	Anonymize bool
}

// Stage 是导出流水线的一步：拉取一种资源并产出若干张表。
type Stage struct {
	// Label 用于进度输出，如 "escalation policies"。
	Label string
	// Produces 为本阶段登记进 registry 或输出的实体类型。
	Produces []string
	// Requires 为本阶段运行前必须已登记的实体类型。
	Requires []string
	Run      func(ctx context.Context, in StageInput) ([]domain.Table, error)
}

// Pipeline 是校验过依赖顺序的阶段序列。
type Pipeline struct {
	stages []Stage
}

// NewPipeline 按给定顺序构建流水线，依赖未被前序阶段满足时返回 ErrStageOrder。
func NewPipeline(stages ...Stage) (*Pipeline, error) {
	produced := make(map[string]bool)
	for _, st := range stages {
		if st.Run == nil {
			return nil, fmt.Errorf("stage %q has no run function", st.Label)
		}
		var missing []string
		for _, req := range st.Requires {
			if !produced[req] {
				missing = append(missing, req)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s requires %s", ErrStageOrder, st.Label, strings.Join(missing, ", "))
		}
		for _, p := range st.Produces {
			produced[p] = true
		}
	}
	return &Pipeline{stages: append([]Stage(nil), stages...)}, nil
}

// Stages 返回阶段副本。
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// DefaultStages 返回标准导出顺序：teams → users → schedules → escalation_policies → services。
// 升级策略依赖用户与排班已登记，服务阶段同时产出集成明细与集成类型统计。
func DefaultStages() []Stage {
	return []Stage{
		{
			Label:    "teams",
			Produces: []string{domain.EntityTeams},
			Run: func(ctx context.Context, in StageInput) ([]domain.Table, error) {
				records, err := in.Client.List(ctx, pagerduty.TeamsResource)
				if err != nil {
					return nil, err
				}
				return []domain.Table{pagerduty.BuildTeamRows(records, in.Registry, in.Anonymize)}, nil
			},
		},
		{
			Label:    "users",
			Produces: []string{domain.EntityUsers},
			Run: func(ctx context.Context, in StageInput) ([]domain.Table, error) {
				records, err := in.Client.List(ctx, pagerduty.UsersResource)
				if err != nil {
					return nil, err
				}
				return []domain.Table{pagerduty.BuildUserRows(records, in.Registry)}, nil
			},
		},
		{
			Label:    "schedules",
			Produces: []string{domain.EntitySchedules},
			Run: func(ctx context.Context, in StageInput) ([]domain.Table, error) {
				records, err := in.Client.List(ctx, pagerduty.SchedulesResource)
				if err != nil {
					return nil, err
				}
				return []domain.Table{pagerduty.BuildScheduleRows(records, in.Registry, in.Anonymize)}, nil
			},
		},
		{
			Label:    "escalation policies",
			Produces: []string{domain.EntityEscalationPolicies},
			Requires: []string{domain.EntityUsers, domain.EntitySchedules},
			Run: func(ctx context.Context, in StageInput) ([]domain.Table, error) {
				records, err := in.Client.List(ctx, pagerduty.EscalationPoliciesResource)
				if err != nil {
					return nil, err
				}
				return []domain.Table{pagerduty.BuildEscalationPolicyRows(records, in.Registry, in.Anonymize)}, nil
			},
		},
		{
			Label:    "services",
			Produces: []string{domain.EntityServices, domain.EntityIntegrations, domain.EntityIntegrationTypes},
			Run: func(ctx context.Context, in StageInput) ([]domain.Table, error) {
				records, err := in.Client.List(ctx, pagerduty.ServicesResource)
				if err != nil {
					return nil, err
				}
				services, integrations := pagerduty.BuildServiceRows(records, in.Registry, in.Anonymize)
				return []domain.Table{services, integrations, pagerduty.BuildIntegrationTypeRows(integrations)}, nil
			},
		},
	}
}

// DefaultPipeline 返回标准流水线。
func DefaultPipeline() *Pipeline {
	p, err := NewPipeline(DefaultStages()...)
	if err != nil {
		panic(err)
	}
	return p
}
