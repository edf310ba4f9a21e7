package vocab

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize 将症状/字段名归一化为比较用的 key：
// NFKC 规整、小写、去首尾空白、'_' 视为空格、折叠连续空白。
// 因此 "Sore_Throat"、" sore  throat " 与 "sore throat" 等价。
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
