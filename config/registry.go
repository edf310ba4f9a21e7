// Package config 维护 Node 类型注册表，并提供默认 Pipeline 配置。
//
// 使用配置驱动时需要 import _ "github.com/rushteam/triagekit/config/builders"，
// 由其 init 注册内置 Node 类型。
package config

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rushteam/triagekit/pipeline"
)

// NodeBuilder 与 pipeline.NodeBuilder 相同
type NodeBuilder = pipeline.NodeBuilder

var registry = struct {
	sync.RWMutex
	builders map[string]NodeBuilder
}{builders: make(map[string]NodeBuilder)}

// Register 注册 Node 类型，重复注册时后者覆盖前者。一般在 init 中调用。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	registry.Lock()
	registry.builders[typeName] = builder
	registry.Unlock()
}

func lookup(typeName string) bool {
	registry.RLock()
	_, ok := registry.builders[typeName]
	registry.RUnlock()
	return ok
}

// SupportedTypes 返回已注册的类型（排序）
func SupportedTypes() []string {
	registry.RLock()
	types := make([]string, 0, len(registry.builders))
	for t := range registry.builders {
		types = append(types, t)
	}
	registry.RUnlock()
	slices.Sort(types)
	return types
}

// DefaultFactory 用当前注册表生成 NodeFactory
func DefaultFactory() *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()
	registry.RLock()
	defer registry.RUnlock()
	for t, b := range registry.builders {
		f.Register(t, b)
	}
	return f
}

// ValidatePipelineConfig 在构建前检查结构：
//   - 所有类型均已注册
//   - 第一个节点是 feature.encode
//   - 恰好一个 score.* 节点，rerank.* 与 postprocess.* 节点都排在它之后
//   - 恰好一个 rerank.consultation 节点
//
// score 节点会重新生成全部候选，排在它之前的重排结果不会保留。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return fmt.Errorf("pipeline config is nil")
	}
	nodes := cfg.Pipeline.Nodes
	if len(nodes) == 0 {
		return fmt.Errorf("pipeline %q has no nodes", cfg.Pipeline.Name)
	}
	if nodes[0].Type != TypeEncode {
		return fmt.Errorf("first node must be %s, got %s", TypeEncode, nodes[0].Type)
	}
	scoreNodes, consultations := 0, 0
	for i, nc := range nodes {
		if !lookup(nc.Type) {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, SupportedTypes())
		}
		switch {
		case isScoreType(nc.Type):
			scoreNodes++
		case isAfterScoreType(nc.Type) && scoreNodes == 0:
			return fmt.Errorf("node #%d (%s) must come after the score node", i, nc.Type)
		}
		if nc.Type == TypeConsultation {
			consultations++
		}
	}
	if scoreNodes != 1 {
		return fmt.Errorf("pipeline must contain exactly one score node, got %d", scoreNodes)
	}
	if consultations != 1 {
		return fmt.Errorf("pipeline must contain exactly one %s node, got %d", TypeConsultation, consultations)
	}
	return nil
}
