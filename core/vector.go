package core

// FeatureVector 是按词表顺序排列的定长数值向量：
// 前 |Symptoms| 个槽位是 0/1 症状指示位，其后是按声明顺序追加的生命体征原始读数。
// 每个请求构造一次，由 Scorer 消费一次后丢弃。
type FeatureVector []float64

// SymptomBlock 返回前 n 个症状槽位；n 超出长度时返回整个向量。
func (v FeatureVector) SymptomBlock(n int) FeatureVector {
	if n < 0 {
		return nil
	}
	if n > len(v) {
		n = len(v)
	}
	return v[:n]
}
