package core

// PolicyConfig 是推荐咨询策略的参数，用于提供默认值。
type PolicyConfig interface {
	// Threshold 返回咨询阈值（严格大于才推荐）
	Threshold() float64

	// TopN 返回截断数量，0 表示不截断
	TopN() int

	// Precision 返回输出分数保留的小数位数
	Precision() int
}

// DefaultPolicyConfig 是默认策略：阈值 0.5、不截断、保留两位小数。
type DefaultPolicyConfig struct{}

func (c *DefaultPolicyConfig) Threshold() float64 { return 0.5 }

func (c *DefaultPolicyConfig) TopN() int { return 0 }

func (c *DefaultPolicyConfig) Precision() int { return 2 }
