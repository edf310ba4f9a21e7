// Package triagekit 是一个症状分诊工具包：根据上报的症状与生命体征，为固定的疾病集合打分排序，
// 并给出是否建议就诊。
//
// 设计要点：
// - Pipeline-first: 推理拆成 Node 链（Encode → Score → ReRank → PostProcess），可由 YAML/JSON 配置
// - Scorer 可替换: 启发式画像重叠打分与分类模型打分共用同一个单方法接口
// - Labels-first: 候选与请求上的 labels 全链路透传，用于 explain / 观测
package triagekit

import (
	"github.com/rushteam/triagekit/pipeline"
	"github.com/rushteam/triagekit/triage"
)

// 轻量 facade：便于直接 import "triagekit" 使用核心抽象。
type (
	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind
	Engine   = triage.Engine
	Request  = triage.Request
)

const (
	KindFeature     = pipeline.KindFeature
	KindScore       = pipeline.KindScore
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// NewEngine 见 triage.NewEngine
var NewEngine = triage.NewEngine
