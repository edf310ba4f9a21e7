// Package triage 把词表、编码器与 Pipeline 组装成对外的预测入口。
// Engine 构建后只读，可被并发请求共享；每个请求独立构造 TriageContext。
package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/feature"
	"github.com/rushteam/triagekit/pipeline"
	"github.com/rushteam/triagekit/result"
	"github.com/rushteam/triagekit/vocab"
)

// DefaultBatchLimit 是批量预测的默认并发数
const DefaultBatchLimit = 8

// Engine 是预测入口
type Engine struct {
	catalog    *vocab.Catalog
	encoder    *feature.Encoder
	pipeline   *pipeline.Pipeline
	precision  int
	batchLimit int
	logger     zerolog.Logger
}

// Option 配置 Engine
type Option func(*Engine)

// WithLogger 设置日志器，请求日志会附带 request_id
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPrecision 设置输出概率的小数位数
func WithPrecision(p int) Option {
	return func(e *Engine) { e.precision = p }
}

// WithBatchLimit 设置批量预测并发数，<= 0 时使用默认值
func WithBatchLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchLimit = n
		}
	}
}

// NewEngine 创建 Engine。catalog 必须已通过 Validate。
func NewEngine(catalog *vocab.Catalog, p *pipeline.Pipeline, opts ...Option) (*Engine, error) {
	if catalog == nil || !catalog.Validated() {
		return nil, fmt.Errorf("triage: catalog must be validated before use")
	}
	if p == nil || len(p.Nodes) == 0 {
		return nil, fmt.Errorf("triage: pipeline is empty")
	}
	e := &Engine{
		catalog:    catalog,
		encoder:    feature.NewEncoder(catalog),
		pipeline:   p,
		precision:  result.DefaultPrecision,
		batchLimit: DefaultBatchLimit,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Catalog 返回 Engine 使用的词表
func (e *Engine) Catalog() *vocab.Catalog { return e.catalog }

// Predict 对单个请求打分并返回按概率降序排列的结果。
// 错误原样透传（DomainError 保留），由边界层决定映射方式。
func (e *Engine) Predict(ctx context.Context, req Request) (result.Response, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger := e.logger.With().Str("request_id", id).Logger()
	ctx = logger.WithContext(ctx)

	vitals := req.VitalSigns
	if len(req.NamedVitals) > 0 {
		ordered, err := e.encoder.OrderVitals(req.NamedVitals)
		if err != nil {
			logger.Warn().Err(err).Msg("order vital signs failed")
			return result.Response{}, err
		}
		vitals = ordered
	}

	start := time.Now()
	tctx := &core.TriageContext{
		RequestID:  id,
		Symptoms:   req.Symptoms,
		VitalSigns: vitals,
	}
	items, err := e.pipeline.Run(ctx, tctx, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("predict failed")
		return result.Response{}, err
	}
	logger.Info().
		Int("symptoms", len(req.Symptoms)).
		Int("predictions", len(items)).
		Strs("alerts", tctx.Alerts).
		Dur("took", time.Since(start)).
		Msg("predict done")
	return result.Assemble(items, tctx.Alerts, e.precision), nil
}

// PredictBatch 并发处理多个请求，结果与输入顺序一致；任一请求失败则整体失败。
func (e *Engine) PredictBatch(ctx context.Context, reqs []Request) ([]result.Response, error) {
	out := make([]result.Response, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.batchLimit)
	for i, req := range reqs {
		i, req := i, req
		eg.Go(func() error {
			resp, err := e.Predict(egCtx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			out[i] = resp
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Symptoms 返回已知症状列表（词表顺序）
func (e *Engine) Symptoms() result.Symptoms {
	return result.Symptoms{Symptoms: e.catalog.SymptomList()}
}

// Health 返回健康状态
func (e *Engine) Health() result.Health { return result.Healthy() }
