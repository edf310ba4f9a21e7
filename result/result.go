// Package result 定义对外输出结构，并负责把内部候选转换为响应。
// 分数只在这里取整；排序与咨询建议在取整前已经确定。
package result

import (
	"math"

	"github.com/rushteam/triagekit/core"
)

// DefaultPrecision 是输出概率保留的小数位数
const DefaultPrecision = 2

// Prediction 是单个疾病的输出
type Prediction struct {
	Name                  string  `json:"name"`
	Probability           float64 `json:"probability"`
	RecommendConsultation bool    `json:"recommendConsultation"`
}

// Response 是一次预测的输出
type Response struct {
	Predictions []Prediction `json:"predictions"`
	Alerts      []string     `json:"alerts,omitempty"`
}

// Health 健康检查输出
type Health struct {
	Status string `json:"status"`
}

// Symptoms 症状发现输出
type Symptoms struct {
	Symptoms []string `json:"symptoms"`
}

// Error 错误输出
type Error struct {
	Error string `json:"error"`
}

// Healthy 返回固定的健康状态
func Healthy() Health { return Health{Status: "healthy"} }

// Assemble 按候选顺序生成响应：概率按 precision 取整，其余字段原样保留。
// 没有候选时 predictions 为空数组而不是 null。
func Assemble(items []*core.Candidate, alerts []string, precision int) Response {
	preds := make([]Prediction, 0, len(items))
	for _, it := range items {
		preds = append(preds, Prediction{
			Name:                  it.Condition,
			Probability:           Round(it.Score, precision),
			RecommendConsultation: it.Recommend,
		})
	}
	return Response{Predictions: preds, Alerts: alerts}
}

// Round 四舍五入到 precision 位小数（precision < 0 时按 0 处理）
func Round(x float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	p := math.Pow10(precision)
	return math.Round(x*p) / p
}
