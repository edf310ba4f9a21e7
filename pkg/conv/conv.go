// Package conv 把 YAML/JSON 解析得到的 any 值转换为具体类型，供节点构建器与请求解析使用。
package conv

import (
	"encoding/json"
	"math"
)

// ToFloat64 把数值类型转为 float64：浮点、各宽度整数与 json.Number。
// bool、字符串等非数值返回 false；NaN/Inf 同样视为无效读数。
func ToFloat64(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ConvertSlice 逐个转换 s 的元素，convert 返回 false 的元素被丢弃。nil 输入返回 nil。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// StringsOf 取出 []any 中的字符串，其他元素被跳过；v 不是 []any 时返回 (nil, false)。
func StringsOf(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return ConvertSlice(raw, func(e any) (string, bool) {
		s, ok := e.(string)
		return s, ok
	}), true
}

// ConfigGet 按 key 取类型为 T 的配置值，缺失或类型不符时返回 def。
func ConfigGet[T any](m map[string]any, key string, def T) T {
	if t, ok := m[key].(T); ok {
		return t
	}
	return def
}

// ConfigGetFloat64 取数值配置。YAML 中的 1 解析为 int，这里统一转为 float64。
func ConfigGetFloat64(m map[string]any, key string, def float64) float64 {
	if f, ok := ToFloat64(m[key]); ok {
		return f
	}
	return def
}

// ConfigGetInt64 取整数配置，浮点值向零截断。
func ConfigGetInt64(m map[string]any, key string, def int64) int64 {
	if f, ok := ToFloat64(m[key]); ok {
		return int64(f)
	}
	return def
}
