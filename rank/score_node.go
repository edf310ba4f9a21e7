package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/pipeline"
	"github.com/rushteam/triagekit/pkg/utils"
	"github.com/rushteam/triagekit/scorer"
	"github.com/rushteam/triagekit/vocab"
)

// ScoreNode 用 Scorer 为每个疾病打分，生成候选并排序。
// - 读取 tctx.Vector（由 feature.EncodeNode 写入）
// - 输出：每个疾病恰好一个候选，按未取整分数降序；分数相同按词表顺序（稳定）
// - 写入 labels：score_model
//
// 传入的 items 被忽略，ScoreNode 总是生成完整候选集。
type ScoreNode struct {
	Catalog *vocab.Catalog
	Scorer  scorer.Scorer
}

func (n *ScoreNode) Name() string        { return "score." + scorer.NameOf(n.Scorer) }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *ScoreNode) Process(
	ctx context.Context,
	tctx *core.TriageContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if tctx.Vector == nil {
		return nil, fmt.Errorf("rank: feature vector is missing, feature.encode must run first")
	}
	scores, err := n.Scorer.Score(ctx, tctx.Vector)
	if err != nil {
		return nil, err
	}
	k := n.Catalog.NumConditions()
	if len(scores) != k {
		return nil, core.NewInferenceError(nil, "rank: scorer returned %d scores, expected %d", len(scores), k)
	}

	source := scorer.NameOf(n.Scorer)
	items := make([]*core.Candidate, 0, k)
	for i, name := range n.Catalog.Conditions {
		c := core.NewCandidate(i, name, scores[i])
		c.PutLabel("score_model", utils.Label{Value: source, Source: "score"})
		items = append(items, c)
	}

	SortCandidates(items)
	return items, nil
}

// SortCandidates 按分数降序排序；分数相同时按词表位置升序，保证结果可复现。
func SortCandidates(items []*core.Candidate) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Index < items[j].Index
	})
}
