package core

import "context"

// MLService 是远程分类模型的传输接口，实现见 service 包。
// 每个实例对应一行按疾病词表排列的概率；分布是否合法由 scorer 校验。
type MLService interface {
	Predict(ctx context.Context, req *MLPredictRequest) (*MLPredictResponse, error)
	Health(ctx context.Context) error
	Close(ctx context.Context) error
}

// MLPredictRequest 一次批量推理请求
type MLPredictRequest struct {
	Instances     [][]float64 // 每行一个编码后的特征向量
	ModelName     string      // 多模型部署时使用
	SignatureName string      // 为空时由服务实现决定
}

// MLPredictResponse 与 Instances 逐行对应
type MLPredictResponse struct {
	Distributions [][]float64
	ModelVersion  string
}
