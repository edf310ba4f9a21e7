// Package dsl 提供基于 CEL (Common Expression Language) 的规则求值。
//
// 规则在启动时编译一次，之后可被并发请求复用（cel.Program 线程安全）。
package dsl

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量类型
//
//   - vitals：生命体征字段名 -> 读数（未提供的字段不存在，需用 has() 判断）
//   - symptoms：归一化后的上报症状
//   - scores：疾病名 -> 未取整分数
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("vitals", cel.MapType(cel.StringType, cel.DoubleType)),
		cel.Variable("symptoms", cel.ListType(cel.StringType)),
		cel.Variable("scores", cel.MapType(cel.StringType, cel.DoubleType)),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Rule 是一条命名规则，Expr 必须返回 bool。
//
// 示例：
//   - `has(vitals.bodyTemperature) && vitals.bodyTemperature >= 39.5`
//   - `"shortness of breath" in symptoms && has(vitals.respiratoryRate) && vitals.respiratoryRate > 24`
//   - `"COVID-19" in scores && scores["COVID-19"] > 0.7`
type Rule struct {
	Name string `yaml:"name" json:"name"`
	Expr string `yaml:"expr" json:"expr"`
}

// Input 是一次求值的输入
type Input struct {
	Vitals   map[string]float64
	Symptoms []string
	Scores   map[string]float64
}

type compiledRule struct {
	name string
	prg  cel.Program
}

// RuleSet 是编译后的规则集合，按声明顺序求值。
type RuleSet struct {
	rules []compiledRule
}

// Compile 编译规则；任一规则语法错误、非 bool 返回或名称重复都会失败。
func Compile(rules []Rule) (*RuleSet, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule %q has no name", r.Expr)
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("duplicate rule name %q", r.Name)
		}
		seen[r.Name] = struct{}{}

		ast, issues := env.Compile(r.Expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %s: compile error: %w", r.Name, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule %s: expression must return bool, got %s", r.Name, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %s: program error: %w", r.Name, err)
		}
		rs.rules = append(rs.rules, compiledRule{name: r.Name, prg: prg})
	}
	return rs, nil
}

// Len 返回规则数量
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Evaluate 按声明顺序求值，返回命中的规则名。
// 单条规则求值失败（例如访问了不存在的 vitals 字段）不会中断其他规则，
// 所有失败通过 errors.Join 一并返回。
func (rs *RuleSet) Evaluate(in Input) ([]string, error) {
	activation := map[string]any{
		"vitals":   nonNilMap(in.Vitals),
		"symptoms": nonNilSlice(in.Symptoms),
		"scores":   nonNilMap(in.Scores),
	}

	var fired []string
	var errs []error
	for _, r := range rs.rules {
		out, _, err := r.prg.Eval(activation)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", r.name, err))
			continue
		}
		if hit, ok := out.Value().(bool); ok && hit {
			fired = append(fired, r.name)
		}
	}
	return fired, errors.Join(errs...)
}

func nonNilMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
