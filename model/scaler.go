package model

// FeatureScaler 是训练侧导出的 Z-score 参数，按特征列名索引。
type FeatureScaler map[string]ScalerParams

type ScalerParams struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// NormalizeValue 返回 (x-mean)/std；未知列或 std<=0 时原样返回。
func (s FeatureScaler) NormalizeValue(column string, x float64) float64 {
	p, ok := s[column]
	if !ok || p.Std <= 0 {
		return x
	}
	return (x - p.Mean) / p.Std
}

// NormalizeVector 返回新向量，第 i 个槽位按 columns[i] 标准化；超出 columns 的槽位不变。
func (s FeatureScaler) NormalizeVector(columns []string, x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	if len(s) == 0 {
		return out
	}
	for i := 0; i < len(out) && i < len(columns); i++ {
		out[i] = s.NormalizeValue(columns[i], out[i])
	}
	return out
}
