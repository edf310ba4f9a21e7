package scorer

import (
	"context"
	"math/rand"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/vocab"
)

// NoiseAmplitude 是启发式打分的扰动幅度
const NoiseAmplitude = 0.2

// Source 是 [0, 1) 均匀随机数来源，可替换为确定性实现用于测试。
type Source interface {
	Float64() float64
}

type globalSource struct{}

// Float64 使用 math/rand 的顶层函数：并发安全，每次调用相互独立。
func (globalSource) Float64() float64 { return rand.Float64() }

// OverlapScorer 基于疾病画像的启发式打分。
//
// 对每个疾病：
//   - matching = 画像症状中被上报的数量，total = 画像症状数量
//   - matching > 0：score = clamp(matching/total + U(-0.2, 0.2), 0, 1)
//   - matching == 0：score = U(0, 0.2)
//
// 上报集合从特征向量的症状槽位还原（值 > 0 视为上报），生命体征槽位被忽略。
// 扰动是有意为之：相同输入多次调用结果可能不同，只保证落在上述区间内。
type OverlapScorer struct {
	catalog *vocab.Catalog
	source  Source
}

// OverlapOption OverlapScorer 配置选项
type OverlapOption func(*OverlapScorer)

// WithSource 替换随机数来源
func WithSource(src Source) OverlapOption {
	return func(s *OverlapScorer) {
		if src != nil {
			s.source = src
		}
	}
}

func NewOverlapScorer(catalog *vocab.Catalog, opts ...OverlapOption) *OverlapScorer {
	s := &OverlapScorer{catalog: catalog, source: globalSource{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OverlapScorer) Name() string { return "overlap" }

func (s *OverlapScorer) Score(_ context.Context, v core.FeatureVector) ([]float64, error) {
	c := s.catalog
	ns := c.NumSymptoms()
	if len(v) < ns {
		return nil, core.NewInferenceError(nil, "scorer: vector has %d slots, expected at least %d", len(v), ns)
	}
	reported := v.SymptomBlock(ns)

	scores := make([]float64, c.NumConditions())
	for ci := range scores {
		profile := c.ProfileIndices(ci)
		matching := 0
		for _, si := range profile {
			if reported[si] > 0 {
				matching++
			}
		}
		r := s.source.Float64()
		if matching == 0 {
			scores[ci] = r * NoiseAmplitude
			continue
		}
		base := float64(matching) / float64(len(profile))
		scores[ci] = clamp(base+(2*r-1)*NoiseAmplitude, 0, 1)
	}
	return scores, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
