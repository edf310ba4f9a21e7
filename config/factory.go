package config

import (
	"strings"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/pipeline"
)

// 内置 Node 类型名
const (
	TypeEncode          = "feature.encode"
	TypeScoreOverlap    = "score.overlap"
	TypeScoreClassifier = "score.classifier"
	TypeTopN            = "rerank.topn"
	TypeConsultation    = "rerank.consultation"
	TypeRedFlag         = "postprocess.redflag"
)

func isScoreType(t string) bool {
	return t == TypeScoreOverlap || t == TypeScoreClassifier
}

// isAfterScoreType 报告该类型是否只能处理已打分的候选
func isAfterScoreType(t string) bool {
	return strings.HasPrefix(t, "rerank.") || strings.HasPrefix(t, "postprocess.")
}

// Options 描述默认 Pipeline 的可调参数，通常来自进程配置。
type Options struct {
	// Scorer 打分方式：overlap 或 classifier
	Scorer string
	// Model 分类模型配置，仅 Scorer == classifier 时使用
	Model map[string]any
	// Threshold 咨询阈值
	Threshold float64
	// TopN 截断数量，0 表示不截断
	TopN int
	// RedFlags 是否启用默认红旗规则
	RedFlags bool
}

// ApplyPolicy 用策略参数覆盖 Threshold 与 TopN
func (o *Options) ApplyPolicy(p core.PolicyConfig) {
	if p == nil {
		return
	}
	o.Threshold = p.Threshold()
	o.TopN = p.TopN()
}

// DefaultPipelineConfig 生成 encode -> score -> [topn] -> consultation -> [redflag] 的配置，
// 与从 YAML 加载的配置走同一条构建路径。
func DefaultPipelineConfig(opts Options) *pipeline.Config {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "triage"

	requireVitals := false
	scoreType := TypeScoreOverlap
	var scoreCfg map[string]any
	if opts.Scorer == "classifier" {
		scoreType = TypeScoreClassifier
		scoreCfg = opts.Model
		requireVitals = true
	}

	nodes := []pipeline.NodeConfig{
		{Type: TypeEncode, Config: map[string]any{"require_vitals": requireVitals}},
		{Type: scoreType, Config: scoreCfg},
	}
	if opts.TopN > 0 {
		nodes = append(nodes, pipeline.NodeConfig{Type: TypeTopN, Config: map[string]any{"n": opts.TopN}})
	}
	nodes = append(nodes, pipeline.NodeConfig{Type: TypeConsultation, Config: map[string]any{"threshold": opts.Threshold}})
	if opts.RedFlags {
		nodes = append(nodes, pipeline.NodeConfig{Type: TypeRedFlag, Config: map[string]any{"defaults": true}})
	}
	cfg.Pipeline.Nodes = nodes
	return cfg
}
