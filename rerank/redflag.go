package rerank

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/pipeline"
	"github.com/rushteam/triagekit/pkg/dsl"
	"github.com/rushteam/triagekit/pkg/utils"
	"github.com/rushteam/triagekit/vocab"
)

// DefaultRedFlagRules 是基于分类词表生命体征字段的默认红旗规则。
// 字段不存在时规则不命中。
func DefaultRedFlagRules() []dsl.Rule {
	return []dsl.Rule{
		{Name: "high_fever", Expr: `has(vitals.bodyTemperature) && vitals.bodyTemperature >= 39.5`},
		{Name: "tachycardia", Expr: `has(vitals.heartRate) && vitals.heartRate > 120.0`},
		{Name: "hypotension", Expr: `has(vitals.systolic) && vitals.systolic < 90.0`},
		{Name: "tachypnea", Expr: `has(vitals.respiratoryRate) && vitals.respiratoryRate > 30.0`},
		{Name: "respiratory_distress", Expr: `"shortness of breath" in symptoms && has(vitals.respiratoryRate) && vitals.respiratoryRate > 24.0`},
	}
}

// RedFlagNode 用编译好的 CEL 规则检查生命体征与症状，把命中的规则名写入 tctx.Alerts。
// 告警只用于提示，不改变候选顺序，也不改变咨询建议。
// - 写入请求级 labels：red_flag
type RedFlagNode struct {
	Catalog *vocab.Catalog
	Rules   *dsl.RuleSet
}

// NewRedFlagNode 编译规则并创建节点
func NewRedFlagNode(catalog *vocab.Catalog, rules []dsl.Rule) (*RedFlagNode, error) {
	rs, err := dsl.Compile(rules)
	if err != nil {
		return nil, err
	}
	return &RedFlagNode{Catalog: catalog, Rules: rs}, nil
}

func (n *RedFlagNode) Name() string        { return "postprocess.redflag" }
func (n *RedFlagNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *RedFlagNode) Process(
	ctx context.Context,
	tctx *core.TriageContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	in := dsl.Input{
		Vitals:   make(map[string]float64, len(tctx.VitalSigns)),
		Symptoms: make([]string, 0, len(tctx.Symptoms)),
		Scores:   make(map[string]float64, len(items)),
	}
	for i, v := range tctx.VitalSigns {
		if i < n.Catalog.NumVitals() {
			in.Vitals[n.Catalog.VitalSigns[i]] = v
		}
	}
	for _, s := range tctx.Symptoms {
		in.Symptoms = append(in.Symptoms, vocab.Normalize(s))
	}
	for _, it := range items {
		in.Scores[it.Condition] = it.Score
	}

	fired, err := n.Rules.Evaluate(in)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("red flag rules skipped")
	}
	for _, name := range fired {
		tctx.Alerts = append(tctx.Alerts, name)
		tctx.PutLabel("red_flag", utils.Label{Value: name, Source: "postprocess"})
	}
	return items, nil
}
