package core

import "github.com/rushteam/triagekit/pkg/utils"

// Candidate 是推理链路中的统一承载结构：一个候选疾病及其分数、咨询建议与标签。
// Score 是未取整的内部分数，用于排序与阈值判断；取整只发生在输出边界。
// Index 是疾病在 Condition Vocabulary 中的位置，用作稳定排序的次序键。
type Candidate struct {
	Index     int
	Condition string
	Score     float64
	Recommend bool
	Labels    map[string]utils.Label
}

func NewCandidate(index int, condition string, score float64) *Candidate {
	return &Candidate{
		Index:     index,
		Condition: condition,
		Score:     score,
		Labels:    make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}
