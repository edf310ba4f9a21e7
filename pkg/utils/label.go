// Package utils 提供 explain 用的 Label 及其合并规则。
package utils

import "strings"

// Label 记录某个节点给出结果的依据，用于 explain / 观测。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // feature / score / rerank / postprocess
}

const (
	valueSep  = "|"
	sourceSep = ","
)

// MergeLabel 合并同名 Label：Value 以 "|" 累积，Source 以 "," 累积，已有的片段不重复追加。
func MergeLabel(existing, incoming Label) Label {
	return Label{
		Value:  appendPart(existing.Value, incoming.Value, valueSep),
		Source: appendPart(existing.Source, incoming.Source, sourceSep),
	}
}

// Values 返回累积的各个 Value
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, valueSep)
}

func appendPart(acc, part, sep string) string {
	if part == "" {
		return acc
	}
	if acc == "" {
		return part
	}
	for _, p := range strings.Split(acc, sep) {
		if p == part {
			return acc
		}
	}
	return acc + sep + part
}
