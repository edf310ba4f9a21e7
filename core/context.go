package core

import "github.com/rushteam/triagekit/pkg/utils"

// TriageContext 承载单次请求的输入与中间产物，贯穿整个 Pipeline 透传。
// 每个请求独立构造，不与其他请求共享。
type TriageContext struct {
	RequestID string

	// Symptoms 是原始上报症状（未归一化，顺序无意义）
	Symptoms []string

	// VitalSigns 是按声明顺序排列的生命体征读数；nil 表示未提供
	VitalSigns []float64

	// Vector 由编码节点写入，打分节点读取
	Vector FeatureVector

	// Alerts 是红旗规则命中的告警名称（按规则声明顺序）
	Alerts []string

	// Labels 是请求级标签，用于 explain / 观测
	Labels map[string]utils.Label

	// Params 请求级附加参数
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (tctx *TriageContext) PutLabel(key string, lbl utils.Label) {
	if tctx.Labels == nil {
		tctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := tctx.Labels[key]; ok {
		tctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	tctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (tctx *TriageContext) GetLabel(key string) (utils.Label, bool) {
	if tctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := tctx.Labels[key]
	return lbl, ok
}
