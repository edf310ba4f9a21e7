package feature

import (
	"context"
	"strconv"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/pipeline"
	"github.com/rushteam/triagekit/pkg/utils"
)

// EncodeNode 是 Pipeline 的第一个节点：把 TriageContext 中的症状与生命体征编码为特征向量，
// 写入 tctx.Vector，候选集原样返回。
// - 写入请求级 labels：feature_dim
type EncodeNode struct {
	Encoder *Encoder
}

func (n *EncodeNode) Name() string        { return "feature.encode" }
func (n *EncodeNode) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *EncodeNode) Process(
	_ context.Context,
	tctx *core.TriageContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	vec, err := n.Encoder.Encode(tctx.Symptoms, tctx.VitalSigns)
	if err != nil {
		return nil, err
	}
	tctx.Vector = vec
	tctx.PutLabel("feature_dim", utils.Label{Value: strconv.Itoa(len(vec)), Source: "feature"})
	return items, nil
}
