// Package vocab 定义推理链路使用的静态词表：症状词表、生命体征字段、疾病词表与疾病画像。
//
// Catalog 在进程启动时构造并通过 Validate 校验，此后只读，可在并发请求间共享。
// 词表顺序即特征向量与模型输出的布局，调整顺序等价于更换模型。
package vocab

import (
	"fmt"

	"github.com/rushteam/triagekit/core"
)

// Catalog 是词表集合。
type Catalog struct {
	// Symptoms 症状词表（有序），第 i 个症状对应特征向量第 i 个槽位
	Symptoms []string `json:"symptoms" yaml:"symptoms" toml:"symptoms"`

	// VitalSigns 生命体征字段（有序），追加在症状槽位之后；可为空
	VitalSigns []string `json:"vital_signs" yaml:"vital_signs" toml:"vital_signs"`

	// Conditions 疾病词表（有序），第 i 个疾病对应模型输出第 i 个分量
	Conditions []string `json:"conditions" yaml:"conditions" toml:"conditions"`

	// Profiles 疾病画像：疾病 -> 典型症状集合，仅启发式打分使用
	Profiles map[string][]string `json:"profiles,omitempty" yaml:"profiles,omitempty" toml:"profiles,omitempty"`

	symptomIndex   map[string]int
	vitalIndex     map[string]int
	conditionIndex map[string]int
	profileIndex   [][]int
	validated      bool
}

func invalidConfig(format string, args ...any) error {
	return core.NewDomainError(core.ModuleVocab, core.ErrorCodeInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate 校验词表并构建索引，返回的错误均为 INVALID_CONFIG。
//
// 规则：
//   - 症状非空且归一化后唯一
//   - 疾病非空且唯一
//   - 生命体征字段归一化后唯一
//   - 画像的 key 必须是已知疾病，画像中的症状必须在症状词表中
func (c *Catalog) Validate() error {
	if len(c.Symptoms) == 0 {
		return invalidConfig("vocab: symptom vocabulary is empty")
	}
	if len(c.Conditions) == 0 {
		return invalidConfig("vocab: condition vocabulary is empty")
	}

	symptomIndex := make(map[string]int, len(c.Symptoms))
	for i, s := range c.Symptoms {
		key := Normalize(s)
		if key == "" {
			return invalidConfig("vocab: symptom at position %d is blank", i)
		}
		if j, dup := symptomIndex[key]; dup {
			return invalidConfig("vocab: symptom %q duplicates %q", s, c.Symptoms[j])
		}
		symptomIndex[key] = i
	}

	vitalIndex := make(map[string]int, len(c.VitalSigns))
	for i, v := range c.VitalSigns {
		key := Normalize(v)
		if key == "" {
			return invalidConfig("vocab: vital sign field at position %d is blank", i)
		}
		if _, dup := vitalIndex[key]; dup {
			return invalidConfig("vocab: duplicate vital sign field %q", v)
		}
		vitalIndex[key] = i
	}

	conditionIndex := make(map[string]int, len(c.Conditions))
	for i, name := range c.Conditions {
		if name == "" {
			return invalidConfig("vocab: condition at position %d is blank", i)
		}
		if _, dup := conditionIndex[name]; dup {
			return invalidConfig("vocab: duplicate condition %q", name)
		}
		conditionIndex[name] = i
	}

	profileIndex := make([][]int, len(c.Conditions))
	for name, symptoms := range c.Profiles {
		ci, ok := conditionIndex[name]
		if !ok {
			return invalidConfig("vocab: profile for unknown condition %q", name)
		}
		seen := make(map[int]struct{}, len(symptoms))
		indices := make([]int, 0, len(symptoms))
		for _, s := range symptoms {
			si, ok := symptomIndex[Normalize(s)]
			if !ok {
				return invalidConfig("vocab: profile %q references unknown symptom %q", name, s)
			}
			if _, dup := seen[si]; dup {
				continue
			}
			seen[si] = struct{}{}
			indices = append(indices, si)
		}
		profileIndex[ci] = indices
	}

	c.symptomIndex = symptomIndex
	c.vitalIndex = vitalIndex
	c.conditionIndex = conditionIndex
	c.profileIndex = profileIndex
	c.validated = true
	return nil
}

// Validated 返回词表是否已通过校验。
func (c *Catalog) Validated() bool { return c.validated }

// SymptomIndex 返回症状在词表中的位置，入参会先归一化。
func (c *Catalog) SymptomIndex(symptom string) (int, bool) {
	i, ok := c.symptomIndex[Normalize(symptom)]
	return i, ok
}

// VitalIndex 返回生命体征字段的位置，入参会先归一化。
func (c *Catalog) VitalIndex(field string) (int, bool) {
	i, ok := c.vitalIndex[Normalize(field)]
	return i, ok
}

// ConditionIndex 返回疾病在词表中的位置（精确匹配）。
func (c *Catalog) ConditionIndex(name string) (int, bool) {
	i, ok := c.conditionIndex[name]
	return i, ok
}

// ProfileIndices 返回第 ci 个疾病画像的症状槽位；无画像时返回 nil。
func (c *Catalog) ProfileIndices(ci int) []int {
	if ci < 0 || ci >= len(c.profileIndex) {
		return nil
	}
	return c.profileIndex[ci]
}

// SymptomList 返回症状词表副本，用于症状发现接口。
func (c *Catalog) SymptomList() []string {
	out := make([]string, len(c.Symptoms))
	copy(out, c.Symptoms)
	return out
}

func (c *Catalog) NumSymptoms() int   { return len(c.Symptoms) }
func (c *Catalog) NumVitals() int     { return len(c.VitalSigns) }
func (c *Catalog) NumConditions() int { return len(c.Conditions) }

// Dim 返回完整特征向量维度（症状 + 生命体征）。
func (c *Catalog) Dim() int { return len(c.Symptoms) + len(c.VitalSigns) }
