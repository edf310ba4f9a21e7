// Package settings 读取进程级配置：TRIAGE_* 环境变量，以及当前目录下可选的 .env 文件。
package settings

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/rushteam/triagekit/config"
	"github.com/rushteam/triagekit/core"
)

// 支持的模型类型
const (
	ModelSoftmax   = "softmax"
	ModelMLP       = "mlp"
	ModelTFServing = "tf_serving"
)

// 支持的打分方式
const (
	ScorerOverlap    = "overlap"
	ScorerClassifier = "classifier"
)

// MaxPrecision 是 TRIAGE_PRECISION 的上限。响应约定保留 2 位小数，其他取值只用于调试。
const MaxPrecision = 6

// Settings 是进程配置，字段与环境变量一一对应
type Settings struct {
	Addr          string   `mapstructure:"TRIAGE_ADDR"`
	Env           string   `mapstructure:"TRIAGE_ENV"`
	LogLevel      string   `mapstructure:"TRIAGE_LOG_LEVEL"`
	Scorer        string   `mapstructure:"TRIAGE_SCORER"`
	CatalogPath   string   `mapstructure:"TRIAGE_CATALOG_PATH"`
	CatalogKey    string   `mapstructure:"TRIAGE_CATALOG_KEY"`
	PipelinePath  string   `mapstructure:"TRIAGE_PIPELINE_PATH"`
	ModelType     string   `mapstructure:"TRIAGE_MODEL_TYPE"`
	ModelPath     string   `mapstructure:"TRIAGE_MODEL_PATH"`
	ModelEndpoint string   `mapstructure:"TRIAGE_MODEL_ENDPOINT"`
	ModelName     string   `mapstructure:"TRIAGE_MODEL_NAME"`
	ModelTimeout  int      `mapstructure:"TRIAGE_MODEL_TIMEOUT"`
	Threshold     float64  `mapstructure:"TRIAGE_THRESHOLD"`
	TopN          int      `mapstructure:"TRIAGE_TOP_N"`
	Precision     int      `mapstructure:"TRIAGE_PRECISION"`
	RedFlags      bool     `mapstructure:"TRIAGE_RED_FLAGS"`
	RedisAddr     string   `mapstructure:"TRIAGE_REDIS_ADDR"`
	RedisDB       int      `mapstructure:"TRIAGE_REDIS_DB"`
	CacheTTL      int      `mapstructure:"TRIAGE_CACHE_TTL"`
	CORSOrigins   []string `mapstructure:"TRIAGE_CORS_ORIGINS"`
	BatchLimit    int      `mapstructure:"TRIAGE_BATCH_LIMIT"`
}

var keys = []string{
	"TRIAGE_ADDR", "TRIAGE_ENV", "TRIAGE_LOG_LEVEL", "TRIAGE_SCORER",
	"TRIAGE_CATALOG_PATH", "TRIAGE_CATALOG_KEY", "TRIAGE_PIPELINE_PATH",
	"TRIAGE_MODEL_TYPE", "TRIAGE_MODEL_PATH", "TRIAGE_MODEL_ENDPOINT", "TRIAGE_MODEL_NAME", "TRIAGE_MODEL_TIMEOUT",
	"TRIAGE_THRESHOLD", "TRIAGE_TOP_N", "TRIAGE_PRECISION", "TRIAGE_RED_FLAGS",
	"TRIAGE_REDIS_ADDR", "TRIAGE_REDIS_DB", "TRIAGE_CACHE_TTL",
	"TRIAGE_CORS_ORIGINS", "TRIAGE_BATCH_LIMIT",
}

// Load 读取配置并校验
func Load() (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	def := &core.DefaultPolicyConfig{}
	v.SetDefault("TRIAGE_ADDR", ":5000")
	v.SetDefault("TRIAGE_ENV", "development")
	v.SetDefault("TRIAGE_LOG_LEVEL", "info")
	v.SetDefault("TRIAGE_SCORER", ScorerOverlap)
	v.SetDefault("TRIAGE_MODEL_TYPE", ModelSoftmax)
	v.SetDefault("TRIAGE_MODEL_TIMEOUT", 30)
	v.SetDefault("TRIAGE_THRESHOLD", def.Threshold())
	v.SetDefault("TRIAGE_TOP_N", def.TopN())
	v.SetDefault("TRIAGE_PRECISION", def.Precision())
	v.SetDefault("TRIAGE_RED_FLAGS", true)
	v.SetDefault("TRIAGE_CACHE_TTL", 300)
	v.SetDefault("TRIAGE_CORS_ORIGINS", "*")
	v.SetDefault("TRIAGE_BATCH_LIMIT", 8)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env 不存在时忽略
	_ = v.ReadInConfig()

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if origins := v.GetString("TRIAGE_CORS_ORIGINS"); origins != "" {
		s.CORSOrigins = splitList(origins)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Settings) IsDev() bool { return s.Env == "development" }

// Level 返回日志级别，Validate 之后不会出错
func (s *Settings) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate 检查配置是否可以启动
func (s *Settings) Validate() error {
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("TRIAGE_LOG_LEVEL: %w", err)
	}
	switch s.Scorer {
	case ScorerOverlap, ScorerClassifier:
	default:
		return fmt.Errorf("TRIAGE_SCORER must be %q or %q, got %q", ScorerOverlap, ScorerClassifier, s.Scorer)
	}
	switch s.ModelType {
	case ModelSoftmax:
	case ModelMLP:
		if s.Scorer == ScorerClassifier && s.ModelPath == "" {
			return fmt.Errorf("TRIAGE_MODEL_PATH is required when TRIAGE_MODEL_TYPE is %q", ModelMLP)
		}
	case ModelTFServing:
		if s.Scorer == ScorerClassifier && (s.ModelEndpoint == "" || s.ModelName == "") {
			return fmt.Errorf("TRIAGE_MODEL_ENDPOINT and TRIAGE_MODEL_NAME are required when TRIAGE_MODEL_TYPE is %q", ModelTFServing)
		}
	default:
		return fmt.Errorf("TRIAGE_MODEL_TYPE must be one of %s, %s, %s, got %q", ModelSoftmax, ModelMLP, ModelTFServing, s.ModelType)
	}
	if s.Threshold < 0 || s.Threshold > 1 {
		return fmt.Errorf("TRIAGE_THRESHOLD must be within [0, 1], got %v", s.Threshold)
	}
	if s.TopN < 0 {
		return fmt.Errorf("TRIAGE_TOP_N must be >= 0, got %d", s.TopN)
	}
	if s.Precision < 0 || s.Precision > MaxPrecision {
		return fmt.Errorf("TRIAGE_PRECISION must be within [0, %d], got %d", MaxPrecision, s.Precision)
	}
	if s.BatchLimit <= 0 {
		return fmt.Errorf("TRIAGE_BATCH_LIMIT must be > 0, got %d", s.BatchLimit)
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("TRIAGE_CACHE_TTL must be >= 0, got %d", s.CacheTTL)
	}
	if s.CatalogKey != "" && s.RedisAddr == "" {
		return fmt.Errorf("TRIAGE_CATALOG_KEY requires TRIAGE_REDIS_ADDR")
	}
	return nil
}

// IgnoredByPipelineFile 返回指定 TRIAGE_PIPELINE_PATH 后不再生效、且取值偏离默认的策略项。
// 这些参数只用于生成默认 Pipeline，文件中的节点配置优先。
func (s *Settings) IgnoredByPipelineFile() []string {
	if s.PipelinePath == "" {
		return nil
	}
	def := &core.DefaultPolicyConfig{}
	var out []string
	if s.Threshold != def.Threshold() {
		out = append(out, "TRIAGE_THRESHOLD")
	}
	if s.TopN != def.TopN() {
		out = append(out, "TRIAGE_TOP_N")
	}
	if !s.RedFlags {
		out = append(out, "TRIAGE_RED_FLAGS")
	}
	return out
}

// policy 实现 core.PolicyConfig
type policy struct {
	threshold float64
	topN      int
	precision int
}

func (p *policy) Threshold() float64 { return p.threshold }
func (p *policy) TopN() int          { return p.topN }
func (p *policy) Precision() int     { return p.precision }

// Policy 返回配置中的咨询策略
func (s *Settings) Policy() core.PolicyConfig {
	return &policy{threshold: s.Threshold, topN: s.TopN, precision: s.Precision}
}

// PipelineOptions 生成默认 Pipeline 的参数。缓存仅对分类模型生效，TTL 为 0 时关闭。
func (s *Settings) PipelineOptions() config.Options {
	opts := config.Options{Scorer: s.Scorer, RedFlags: s.RedFlags}
	opts.ApplyPolicy(s.Policy())
	if s.Scorer != ScorerClassifier {
		return opts
	}
	m := map[string]any{}
	switch s.ModelType {
	case ModelTFServing:
		m["model"] = "remote"
		m["model_name"] = s.ModelName
	default:
		m["model"] = s.ModelType
		if s.ModelPath != "" {
			m["path"] = s.ModelPath
		}
	}
	if s.CacheTTL > 0 {
		m["cache"] = true
		m["cache_ttl"] = s.CacheTTL
	}
	opts.Model = m
	return opts
}
