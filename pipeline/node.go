package pipeline

import (
	"context"

	"github.com/rushteam/triagekit/core"
)

// Kind 是节点所处的阶段，日志按它打点。
type Kind string

const (
	KindFeature     Kind = "feature"
	KindScore       Kind = "score"
	KindReRank      Kind = "rerank"
	KindPostProcess Kind = "postprocess"
)

// Node 接收上一阶段的候选并返回新的候选列表。
// feature 节点只写 TriageContext.Vector 并原样返回候选；score 节点从空列表生成全部疾病的候选；
// rerank 与 postprocess 节点截断、标记候选或追加告警。
type Node interface {
	Name() string
	Kind() Kind
	Process(ctx context.Context, tctx *core.TriageContext, items []*core.Candidate) ([]*core.Candidate, error)
}
