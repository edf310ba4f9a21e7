package model

import (
	"context"
	"fmt"

	"github.com/rushteam/triagekit/core"
)

// RemoteModel 通过 core.MLService（TF Serving 等）调用外部模型服务的 Classifier 实现。
type RemoteModel struct {
	Service   core.MLService
	ModelName string
	Dim       int // 期望输入维度，0 表示不限定
}

func NewRemoteModel(service core.MLService, modelName string, dim int) *RemoteModel {
	return &RemoteModel{Service: service, ModelName: modelName, Dim: dim}
}

func (m *RemoteModel) Name() string {
	if m.ModelName != "" {
		return "remote:" + m.ModelName
	}
	return "remote"
}

func (m *RemoteModel) InputDim() int { return m.Dim }

// Predict 调用远程服务（单个实例，内部调用批量接口）。
func (m *RemoteModel) Predict(ctx context.Context, x []float64) ([]float64, error) {
	out, err := m.PredictBatch(ctx, [][]float64{x})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// PredictBatch 批量调用远程服务，返回与输入一一对应的分布。
func (m *RemoteModel) PredictBatch(ctx context.Context, xs [][]float64) ([][]float64, error) {
	if m.Service == nil {
		return nil, fmt.Errorf("remote model: no ml service configured")
	}
	if len(xs) == 0 {
		return [][]float64{}, nil
	}
	resp, err := m.Service.Predict(ctx, &core.MLPredictRequest{
		Instances: xs,
		ModelName: m.ModelName,
	})
	if err != nil {
		return nil, fmt.Errorf("remote model: %w", err)
	}
	if len(resp.Distributions) != len(xs) {
		return nil, fmt.Errorf("remote model: got %d outputs for %d instances", len(resp.Distributions), len(xs))
	}
	return resp.Distributions, nil
}
