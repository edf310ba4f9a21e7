package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/triagekit/core"
)

// Pipeline 把一次推理拆成可组合的 Node 链：encode -> score -> rerank -> postprocess。
// 构建完成后只读，可被并发请求共享。
type Pipeline struct {
	Nodes []Node
}

// Run 依次执行各节点。节点返回的错误原样透传（保留 DomainError 以便边界层区分），
// 日志器取自 ctx（zerolog.Ctx），未注入时不输出。
func (p *Pipeline) Run(
	ctx context.Context,
	tctx *core.TriageContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if tctx == nil {
		return nil, fmt.Errorf("pipeline: nil triage context")
	}
	logger := zerolog.Ctx(ctx)
	cur := items
	for _, node := range p.Nodes {
		start := time.Now()
		next, err := node.Process(ctx, tctx, cur)
		if err != nil {
			logger.Debug().Err(err).Str("node", node.Name()).Msg("pipeline node failed")
			return nil, err
		}
		logger.Debug().
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("candidates", len(next)).
			Dur("took", time.Since(start)).
			Msg("pipeline node done")
		cur = next
	}
	return cur, nil
}

// Names 返回节点名称列表，用于启动日志。
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		names = append(names, n.Name())
	}
	return names
}
