package builders

import (
	"fmt"

	"github.com/rushteam/triagekit/config"
	"github.com/rushteam/triagekit/feature"
	"github.com/rushteam/triagekit/model"
	"github.com/rushteam/triagekit/pipeline"
	"github.com/rushteam/triagekit/pkg/conv"
	"github.com/rushteam/triagekit/pkg/dsl"
	"github.com/rushteam/triagekit/rank"
	"github.com/rushteam/triagekit/rerank"
	"github.com/rushteam/triagekit/scorer"
)

func init() {
	config.Register(config.TypeEncode, BuildEncodeNode)
	config.Register(config.TypeScoreOverlap, BuildOverlapNode)
	config.Register(config.TypeScoreClassifier, BuildClassifierNode)
	config.Register(config.TypeTopN, BuildTopNNode)
	config.Register(config.TypeConsultation, BuildConsultationNode)
	config.Register(config.TypeRedFlag, BuildRedFlagNode)
}

func BuildEncodeNode(env *pipeline.BuildEnv, cfg map[string]any) (pipeline.Node, error) {
	enc := feature.NewEncoder(env.Catalog, feature.WithRequireVitals(conv.ConfigGet(cfg, "require_vitals", false)))
	return &feature.EncodeNode{Encoder: enc}, nil
}

func BuildOverlapNode(env *pipeline.BuildEnv, _ map[string]any) (pipeline.Node, error) {
	return &rank.ScoreNode{Catalog: env.Catalog, Scorer: scorer.NewOverlapScorer(env.Catalog)}, nil
}

// BuildClassifierNode 配置项：
//   - model: softmax（默认）/ mlp / remote
//   - path: 模型文件；softmax 未指定 path 时由疾病画像构造
//   - model_name: remote 模型名
//   - cache: 是否启用预测缓存（需要 env.Store），cache_ttl: 秒
func BuildClassifierNode(env *pipeline.BuildEnv, cfg map[string]any) (pipeline.Node, error) {
	m, err := buildClassifier(env, cfg)
	if err != nil {
		return nil, err
	}
	var opts []scorer.ClassifierOption
	if conv.ConfigGet(cfg, "cache", false) {
		if env.Store == nil {
			return nil, fmt.Errorf("cache enabled but no store configured")
		}
		opts = append(opts, scorer.WithCache(env.Store, int(conv.ConfigGetInt64(cfg, "cache_ttl", 300))))
	}
	return &rank.ScoreNode{Catalog: env.Catalog, Scorer: scorer.NewClassifierScorer(env.Catalog, m, opts...)}, nil
}

func buildClassifier(env *pipeline.BuildEnv, cfg map[string]any) (model.Classifier, error) {
	path := conv.ConfigGet(cfg, "path", "")
	switch kind := conv.ConfigGet(cfg, "model", "softmax"); kind {
	case "softmax":
		if path == "" {
			return model.SoftmaxFromProfiles(env.Catalog, model.DefaultProfileWeights), nil
		}
		return model.LoadSoftmaxModel(path)
	case "mlp":
		if path == "" {
			return nil, fmt.Errorf("mlp model requires path")
		}
		return model.LoadMLPModel(path)
	case "remote":
		if env.MLService == nil {
			return nil, fmt.Errorf("remote model requires an ml service")
		}
		return model.NewRemoteModel(env.MLService, conv.ConfigGet(cfg, "model_name", ""), env.Catalog.Dim()), nil
	default:
		return nil, fmt.Errorf("unknown model type: %s", kind)
	}
}

func BuildTopNNode(_ *pipeline.BuildEnv, cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	if n < 0 {
		return nil, fmt.Errorf("n must be >= 0, got %d", n)
	}
	return &rerank.TopNNode{N: int(n)}, nil
}

func BuildConsultationNode(_ *pipeline.BuildEnv, cfg map[string]any) (pipeline.Node, error) {
	threshold := conv.ConfigGetFloat64(cfg, "threshold", rerank.DefaultThreshold)
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be within [0, 1], got %v", threshold)
	}
	return &rerank.ConsultationNode{Threshold: threshold}, nil
}

// BuildRedFlagNode 配置项：
//   - defaults: 是否包含默认规则（默认 true）
//   - rules: [{name, expr}, ...] 追加的自定义规则
func BuildRedFlagNode(env *pipeline.BuildEnv, cfg map[string]any) (pipeline.Node, error) {
	var rules []dsl.Rule
	if conv.ConfigGet(cfg, "defaults", true) {
		rules = append(rules, rerank.DefaultRedFlagRules()...)
	}
	raw, _ := cfg["rules"].([]any)
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("rule must be a mapping, got %T", r)
		}
		rules = append(rules, dsl.Rule{
			Name: conv.ConfigGet(m, "name", ""),
			Expr: conv.ConfigGet(m, "expr", ""),
		})
	}
	return rerank.NewRedFlagNode(env.Catalog, rules)
}
