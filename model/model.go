// Package model 提供分类器：本地 Softmax、MLP 以及通过 core.MLService 调用的远程模型。
package model

import "context"

// Classifier 把定长特征向量映射为按疾病词表排列的概率分布。
type Classifier interface {
	Name() string
	// InputDim 为 0 表示不限定输入维度
	InputDim() int
	Predict(ctx context.Context, x []float64) ([]float64, error)
}
