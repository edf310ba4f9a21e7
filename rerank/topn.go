package rerank

import (
	"context"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在打分排序后只保留前 N 个疾病。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &feature.EncodeNode{...},
//	        &rank.ScoreNode{...},
//	        &rerank.TopNNode{N: 3},
//	        &rerank.ConsultationNode{Threshold: 0.5},
//	    },
//	}
type TopNNode struct {
	// N 要保留的候选数量
	// 如果 N <= 0 或 N >= len(items)，则返回所有候选（不截断）
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.TriageContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
