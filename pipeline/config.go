package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/vocab"
)

// Config 是 Pipeline 的配置结构（支持 YAML/JSON）。
type Config struct {
	Pipeline struct {
		Name  string       `yaml:"name" json:"name"`
		Nodes []NodeConfig `yaml:"nodes" json:"nodes"`
	} `yaml:"pipeline" json:"pipeline"`
}

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `yaml:"type" json:"type"`     // feature.encode / score.overlap / rerank.consultation 等
	Config map[string]any `yaml:"config" json:"config"` // Node 特定配置
}

// BuildEnv 是构建 Node 时可用的依赖：词表与可选的基础设施。
// 由入口在启动时组装，构建器只读使用。
type BuildEnv struct {
	Catalog   *vocab.Catalog
	Store     core.Store     // 可选：预测缓存
	MLService core.MLService // 可选：远程模型服务
}

// NodeBuilder 根据依赖与配置构建 Node。
type NodeBuilder func(env *BuildEnv, cfg map[string]any) (Node, error)

// LoadConfig 按扩展名加载 Pipeline 配置：.json 为 JSON，其余按 YAML 解析。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return ParseConfig(data, format)
}

// LoadFromYAML 从 YAML 文件加载 Pipeline 配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config: %w", err)
	}
	return ParseConfig(data, "yaml")
}

// LoadFromJSON 从 JSON 文件加载 Pipeline 配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config: %w", err)
	}
	return ParseConfig(data, "json")
}

// ParseConfig 解析 yaml 或 json 格式的配置
func ParseConfig(data []byte, format string) (*Config, error) {
	var cfg Config
	var err error
	switch format {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &cfg)
	case "json":
		err = json.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("unsupported pipeline config format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s pipeline config: %w", format, err)
	}
	return &cfg, nil
}

// BuildPipeline 按声明顺序构建节点。env.Catalog 必填，Store 与 MLService 由需要它们的构建器自行检查。
func (c *Config) BuildPipeline(factory *NodeFactory, env *BuildEnv) (*Pipeline, error) {
	if env == nil || env.Catalog == nil {
		return nil, fmt.Errorf("build pipeline: catalog is required")
	}
	if !env.Catalog.Validated() {
		return nil, fmt.Errorf("build pipeline: catalog is not validated")
	}
	nodes := make([]Node, len(c.Pipeline.Nodes))
	for i, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, env, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("build node #%d (%s): %w", i, nc.Type, err)
		}
		nodes[i] = node
	}
	return &Pipeline{Nodes: nodes}, nil
}

// NodeFactory 按类型名查找构建器。非并发安全，构建完成后只读使用。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{builders: make(map[string]NodeBuilder)}
}

func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

func (f *NodeFactory) Build(nodeType string, env *BuildEnv, cfg map[string]any) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", nodeType)
	}
	return builder(env, cfg)
}
