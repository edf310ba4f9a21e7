package feature

import (
	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/vocab"
)

// Encoder 把上报的症状与生命体征编码为定长特征向量。
//
// 布局：
//   - 前 |Symptoms| 个槽位：按词表顺序，症状被上报为 1.0，否则 0.0
//   - 其后 |VitalSigns| 个槽位：生命体征原始读数，按声明顺序追加，不做缩放
//
// 症状先归一化（见 vocab.Normalize）再匹配，未知症状静默忽略，重复上报不影响结果。
// Encoder 无状态，可被并发使用。
type Encoder struct {
	catalog       *vocab.Catalog
	requireVitals bool
}

// EncoderOption Encoder 配置选项
type EncoderOption func(*Encoder)

// WithRequireVitals 要求每个请求都提供生命体征（分类模型的输入布局需要完整向量）
func WithRequireVitals(required bool) EncoderOption {
	return func(e *Encoder) {
		e.requireVitals = required
	}
}

// NewEncoder 创建编码器，catalog 必须已通过 Validate
func NewEncoder(catalog *vocab.Catalog, opts ...EncoderOption) *Encoder {
	e := &Encoder{catalog: catalog}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog 返回编码器使用的词表
func (e *Encoder) Catalog() *vocab.Catalog { return e.catalog }

// RequireVitals 返回是否要求生命体征
func (e *Encoder) RequireVitals() bool { return e.requireVitals }

// Encode 编码单个请求。
//
// 生命体征规则：
//   - 非空时数量必须等于 len(VitalSigns)，否则返回 EncodingError（DIMENSION_MISMATCH）
//   - 为空时只输出症状槽位；若配置了 WithRequireVitals 且词表声明了字段，同样返回 EncodingError
func (e *Encoder) Encode(symptoms []string, vitals []float64) (core.FeatureVector, error) {
	c := e.catalog
	nv := c.NumVitals()

	switch {
	case len(vitals) > 0 && len(vitals) != nv:
		return nil, core.NewEncodingError("encoder: got %d vital signs, expected %d", len(vitals), nv)
	case len(vitals) == 0 && e.requireVitals && nv > 0:
		return nil, core.NewMissingVitalsError("encoder: vital signs are required, expected %d", nv)
	}

	ns := c.NumSymptoms()
	vec := make(core.FeatureVector, ns, ns+len(vitals))
	for _, s := range symptoms {
		if i, ok := c.SymptomIndex(s); ok {
			vec[i] = 1.0
		}
	}
	return append(vec, vitals...), nil
}

// OrderVitals 把按名称给出的生命体征按声明顺序排列。
// 缺少任一声明字段返回 EncodingError；未声明的名称被忽略。
func (e *Encoder) OrderVitals(named map[string]float64) ([]float64, error) {
	if len(named) == 0 {
		return nil, nil
	}
	c := e.catalog
	out := make([]float64, c.NumVitals())
	filled := make([]bool, c.NumVitals())
	for name, v := range named {
		if i, ok := c.VitalIndex(name); ok {
			out[i] = v
			filled[i] = true
		}
	}
	for i, ok := range filled {
		if !ok {
			return nil, core.NewMissingVitalsError("encoder: missing vital sign %q", c.VitalSigns[i])
		}
	}
	return out, nil
}
