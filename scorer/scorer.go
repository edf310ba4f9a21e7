// Package scorer 定义打分抽象：特征向量 -> 按疾病词表顺序排列的分数向量。
//
// 两种实现：
//   - OverlapScorer：基于疾病画像的启发式重叠打分（带随机扰动）
//   - ClassifierScorer：封装分类模型，并校验输出满足概率分布约束
//
// 调用方只依赖 Scorer 接口，两者可互换。
package scorer

import (
	"context"

	"github.com/rushteam/triagekit/core"
)

// Scorer 只有一个方法：输入特征向量，返回长度等于疾病词表大小、取值在 [0, 1] 的分数，
// 第 i 个分数对应第 i 个疾病。失败时返回 InferenceError。
type Scorer interface {
	Score(ctx context.Context, v core.FeatureVector) ([]float64, error)
}

// Named 是可选接口，用于在 explain labels 中标注打分来源。
type Named interface {
	Name() string
}

// NameOf 返回 Scorer 的名称，未实现 Named 时返回 "scorer"。
func NameOf(s Scorer) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return "scorer"
}
