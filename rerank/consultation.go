package rerank

import (
	"context"
	"strconv"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/pipeline"
	"github.com/rushteam/triagekit/pkg/utils"
)

// DefaultThreshold 是默认咨询阈值
const DefaultThreshold = 0.5

// ConsultationNode 为每个候选设置咨询建议：Recommend = Score > Threshold。
// 比较使用未取整的分数且为严格大于，0.5 本身不触发建议。
// 不改变候选顺序。
// - 写入 labels：consultation（仅在建议时）
type ConsultationNode struct {
	Threshold float64
}

// NewConsultationNode 使用默认阈值创建节点
func NewConsultationNode() *ConsultationNode {
	return &ConsultationNode{Threshold: DefaultThreshold}
}

func (n *ConsultationNode) Name() string        { return "rerank.consultation" }
func (n *ConsultationNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *ConsultationNode) Process(
	_ context.Context,
	_ *core.TriageContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	threshold := strconv.FormatFloat(n.Threshold, 'f', -1, 64)
	for _, it := range items {
		it.Recommend = it.Score > n.Threshold
		if it.Recommend {
			it.PutLabel("consultation", utils.Label{Value: "score>" + threshold, Source: "rerank"})
		}
	}
	return items, nil
}
