package triage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/pkg/conv"
)

// MaxBatchSize 是单次批量预测允许的最大请求数，与 batchSchema 的 maxItems 一致
const MaxBatchSize = 64

// Request 是一次预测的输入。
// VitalSigns 与 NamedVitals 二选一：前者按声明顺序排列，后者按字段名给出。
type Request struct {
	ID          string
	Symptoms    []string
	VitalSigns  []float64
	NamedVitals map[string]float64
}

// vitalSigns 只允许 null、数字数组或 字段名 -> 数字 的对象；symptoms 不做约束（宽松处理）。
const requestSchema = `{
  "type": "object",
  "properties": {
    "vitalSigns": {
      "oneOf": [
        {"type": "null"},
        {"type": "array", "items": {"type": "number"}},
        {"type": "object", "additionalProperties": {"type": "number"}}
      ]
    }
  }
}`

const batchSchema = `{
  "type": "object",
  "required": ["requests"],
  "properties": {
    "requests": {"type": "array", "items": {"type": "object"}, "maxItems": 64}
  }
}`

var (
	schemaOnce     sync.Once
	schemaErr      error
	requestSchemaC *jsonschema.Schema
	batchSchemaC   *jsonschema.Schema
)

func compileSchema(c *jsonschema.Compiler, name, src string) (*jsonschema.Schema, error) {
	var def any
	if err := json.Unmarshal([]byte(src), &def); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	url := fmt.Sprintf("schema://triage/%s.json", name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return compiled, nil
}

func schemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if requestSchemaC, schemaErr = compileSchema(c, "request", requestSchema); schemaErr != nil {
			return
		}
		batchSchemaC, schemaErr = compileSchema(c, "batch", batchSchema)
	})
	return requestSchemaC, batchSchemaC, schemaErr
}

// DecodeRequest 解析并校验单个请求体。
//
//   - 非 JSON 对象、vitalSigns 类型错误 -> MalformedInput
//   - symptoms 缺失或不是数组 -> 空症状集；数组中的非字符串元素被跳过
func DecodeRequest(body []byte) (Request, error) {
	doc, err := parseObject(body)
	if err != nil {
		return Request{}, err
	}
	return requestFrom(doc)
}

// DecodeBatch 解析批量请求体：{"requests": [<request>, ...]}，顺序保持不变。
func DecodeBatch(body []byte) ([]Request, error) {
	_, bs, err := schemas()
	if err != nil {
		return nil, err
	}
	doc, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	if err := bs.Validate(doc); err != nil {
		return nil, core.NewMalformedInput(err, "invalid batch request")
	}
	raw := doc["requests"].([]any)
	reqs := make([]Request, 0, len(raw))
	for i, r := range raw {
		req, err := requestFrom(r.(map[string]any))
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func parseObject(body []byte) (map[string]any, error) {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, core.NewMalformedInput(err, "request body is not valid JSON")
	}
	doc, ok := parsed.(map[string]any)
	if !ok {
		return nil, core.NewMalformedInput(nil, "request body must be a JSON object")
	}
	return doc, nil
}

func requestFrom(doc map[string]any) (Request, error) {
	rs, _, err := schemas()
	if err != nil {
		return Request{}, err
	}
	if err := rs.Validate(any(doc)); err != nil {
		return Request{}, core.NewMalformedInput(err, "invalid request")
	}

	var req Request
	if symptoms, ok := conv.StringsOf(doc["symptoms"]); ok {
		req.Symptoms = symptoms
	}
	if id, ok := doc["requestId"].(string); ok {
		req.ID = id
	}
	switch v := doc["vitalSigns"].(type) {
	case []any:
		req.VitalSigns = conv.ConvertSlice(v, conv.ToFloat64)
	case map[string]any:
		req.NamedVitals = make(map[string]float64, len(v))
		for k, x := range v {
			if f, ok := conv.ToFloat64(x); ok {
				req.NamedVitals[k] = f
			}
		}
	}
	return req, nil
}
