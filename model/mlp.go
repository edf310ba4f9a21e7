package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// MLPModel 是多层感知机（全连接网络）分类模型。
//
// 工程特征：
//   - 实时性：好（本地推理）
//   - 计算复杂度：中等（多层全连接）
//   - 可解释性：弱（黑盒模型）
//
// 权重由训练侧导出为 JSON（Dense 层序列 + 可选的特征标准化参数），
// 典型结构是 Dense(64, relu) -> Dense(K, softmax)。
type MLPModel struct {
	// Layers 按前向顺序排列的全连接层
	Layers []DenseLayer `json:"layers"`

	// FeatureColumns 输入特征列名（按顺序），配合 Scaler 使用
	FeatureColumns []string `json:"feature_columns,omitempty"`

	// Scaler 输入标准化参数（可选），按 FeatureColumns 对齐
	Scaler FeatureScaler `json:"scaler,omitempty"`
}

// DenseLayer 是一个全连接层。
type DenseLayer struct {
	// Weights 是权重矩阵：weights[neuron][input] = weight
	Weights [][]float64 `json:"weights"`

	// Biases 是偏置：biases[neuron] = bias
	Biases []float64 `json:"biases"`

	// Activation 激活函数：relu / sigmoid / softmax / linear（默认 linear）
	Activation string `json:"activation"`
}

// LoadMLPModel 从 JSON 文件加载 MLP 模型并校验层间维度。
func LoadMLPModel(path string) (*MLPModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m MLPModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate 校验层间维度一致、激活函数合法。
func (m *MLPModel) Validate() error {
	if len(m.Layers) == 0 {
		return fmt.Errorf("mlp: no layers")
	}
	prev := -1
	for li, layer := range m.Layers {
		if len(layer.Weights) == 0 {
			return fmt.Errorf("mlp: layer %d has no neurons", li)
		}
		if len(layer.Biases) != len(layer.Weights) {
			return fmt.Errorf("mlp: layer %d has %d biases for %d neurons", li, len(layer.Biases), len(layer.Weights))
		}
		in := len(layer.Weights[0])
		for j, row := range layer.Weights {
			if len(row) != in {
				return fmt.Errorf("mlp: layer %d neuron %d has %d inputs, expected %d", li, j, len(row), in)
			}
		}
		if prev >= 0 && in != prev {
			return fmt.Errorf("mlp: layer %d expects %d inputs, previous layer emits %d", li, in, prev)
		}
		switch layer.Activation {
		case "", "linear", "relu", "sigmoid", "softmax":
		default:
			return fmt.Errorf("mlp: layer %d has unknown activation %q", li, layer.Activation)
		}
		prev = len(layer.Weights)
	}
	return nil
}

func (m *MLPModel) Name() string { return "mlp" }

func (m *MLPModel) InputDim() int {
	if len(m.Layers) == 0 || len(m.Layers[0].Weights) == 0 {
		return 0
	}
	return len(m.Layers[0].Weights[0])
}

// Predict 前向传播，返回最后一层输出。
func (m *MLPModel) Predict(_ context.Context, x []float64) ([]float64, error) {
	if dim := m.InputDim(); len(x) != dim {
		return nil, fmt.Errorf("mlp: input has %d features, expected %d", len(x), dim)
	}
	current := m.Scaler.NormalizeVector(m.FeatureColumns, x)
	for _, layer := range m.Layers {
		current = layer.forward(current)
	}
	return current, nil
}

func (l DenseLayer) forward(input []float64) []float64 {
	out := make([]float64, len(l.Weights))
	for j, row := range l.Weights {
		sum := l.Biases[j]
		for k, w := range row {
			sum += w * input[k]
		}
		out[j] = sum
	}
	switch l.Activation {
	case "relu":
		for j := range out {
			out[j] = relu(out[j])
		}
	case "sigmoid":
		for j := range out {
			out[j] = sigmoid(out[j])
		}
	case "softmax":
		out = softmax(out)
	}
	return out
}

// relu ReLU 激活函数。
func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// sigmoid Sigmoid 激活函数。
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
