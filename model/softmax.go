package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/rushteam/triagekit/vocab"
)

// SoftmaxModel 实现了多分类逻辑回归（Softmax Regression）。
//
// 预测原理：
// 1. 每个类别线性加权求和: z_k = Bias_k + sum(Weight_k_i * x_i)
// 2. Softmax 归一化: P_k = exp(z_k) / sum(exp(z_j))
//
// 输出是一个和为 1 的概率分布，长度等于类别数。
type SoftmaxModel struct {
	Bias    []float64   `json:"bias"`    // 每个类别的偏置，长度 K
	Weights [][]float64 `json:"weights"` // K x D 权重矩阵
}

// LoadSoftmaxModel 从 JSON 文件加载模型：{"bias": [...], "weights": [[...], ...]}
func LoadSoftmaxModel(path string) (*SoftmaxModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m SoftmaxModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ProfileWeights 控制 SoftmaxFromProfiles 生成的权重。
type ProfileWeights struct {
	Match    float64 // 画像内症状的权重
	Mismatch float64 // 画像外症状的权重
}

// DefaultProfileWeights 画像内 +2.0，画像外 -0.5
var DefaultProfileWeights = ProfileWeights{Match: 2.0, Mismatch: -0.5}

// SoftmaxFromProfiles 由疾病画像直接构造一个 Softmax 分类器，
// 使分类路径在没有训练好的模型文件时也可用。生命体征槽位权重为 0。
func SoftmaxFromProfiles(c *vocab.Catalog, w ProfileWeights) *SoftmaxModel {
	k, ns, dim := c.NumConditions(), c.NumSymptoms(), c.Dim()
	m := &SoftmaxModel{
		Bias:    make([]float64, k),
		Weights: make([][]float64, k),
	}
	for ci := 0; ci < k; ci++ {
		row := make([]float64, dim)
		for si := 0; si < ns; si++ {
			row[si] = w.Mismatch
		}
		for _, si := range c.ProfileIndices(ci) {
			row[si] = w.Match
		}
		m.Weights[ci] = row
	}
	return m
}

func (m *SoftmaxModel) validate() error {
	if len(m.Weights) == 0 {
		return fmt.Errorf("softmax: no classes")
	}
	if len(m.Bias) != len(m.Weights) {
		return fmt.Errorf("softmax: bias has %d entries, weights has %d rows", len(m.Bias), len(m.Weights))
	}
	dim := len(m.Weights[0])
	for i, row := range m.Weights {
		if len(row) != dim {
			return fmt.Errorf("softmax: weight row %d has %d columns, expected %d", i, len(row), dim)
		}
	}
	return nil
}

func (m *SoftmaxModel) Name() string { return "softmax" }

func (m *SoftmaxModel) InputDim() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

func (m *SoftmaxModel) Predict(_ context.Context, x []float64) ([]float64, error) {
	if dim := m.InputDim(); len(x) != dim {
		return nil, fmt.Errorf("softmax: input has %d features, expected %d", len(x), dim)
	}
	logits := make([]float64, len(m.Weights))
	for k, row := range m.Weights {
		z := m.Bias[k]
		for i, v := range x {
			z += row[i] * v
		}
		logits[k] = z
	}
	return softmax(logits), nil
}

// softmax 数值稳定的 softmax（减去最大值）
func softmax(z []float64) []float64 {
	out := make([]float64, len(z))
	if len(z) == 0 {
		return out
	}
	maxZ := z[0]
	for _, v := range z[1:] {
		if v > maxZ {
			maxZ = v
		}
	}
	var sum float64
	for i, v := range z {
		out[i] = math.Exp(v - maxZ)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
