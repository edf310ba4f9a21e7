package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message），可选携带底层原因（Err）
//   - 支持错误检查函数（IsXXX），内部使用 errors.As，包装后的错误同样可以识别
//
// 使用场景：
//   - Encoder 错误：DIMENSION_MISMATCH（生命体征数量/顺序与特征布局不符）
//   - Scorer 错误：INFERENCE_ERROR（模型输出长度/顺序与疾病词表不符）
//   - Request 错误：MALFORMED_INPUT（请求体类型错误）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "DIMENSION_MISMATCH"）
	Message string // 错误消息
	Module  string // 模块名称（如 "encoder", "scorer"）
	Err     error  // 底层原因（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带底层原因的领域错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeNotSupported = "NOT_SUPPORTED" // 操作不支持
	ErrorCodeUnavailable  = "UNAVAILABLE"   // 服务不可用

	// 推理链路错误代码
	ErrorCodeDimensionMismatch = "DIMENSION_MISMATCH" // 特征维度与布局不一致
	ErrorCodeInference         = "INFERENCE_ERROR"    // 模型输出不满足契约
	ErrorCodeMalformedInput    = "MALFORMED_INPUT"    // 请求体结构/类型错误
	ErrorCodeInvalidConfig     = "INVALID_CONFIG"     // 词表/配置不合法
)

// 模块名称常量
const (
	ModuleVocab   = "vocab"   // 词表模块
	ModuleEncoder = "encoder" // 特征编码模块
	ModuleScorer  = "scorer"  // 打分模块
	ModuleRequest = "request" // 请求解析模块
	ModuleStore   = "store"   // 存储模块
	ModuleService = "service" // 模型服务模块
)

// NewEncodingError 创建特征编码错误（维度不匹配）
func NewEncodingError(format string, args ...any) *DomainError {
	return NewDomainError(ModuleEncoder, ErrorCodeDimensionMismatch, fmt.Sprintf(format, args...))
}

// ErrVitalsMissing 是请求缺少生命体征时 EncodingError 的底层原因。
// 与数量不符不同，它来自客户端遗漏，HTTP 层返回 400。
var ErrVitalsMissing = errors.New("vital signs missing")

// NewMissingVitalsError 创建缺少生命体征的编码错误
func NewMissingVitalsError(format string, args ...any) *DomainError {
	return WrapDomainError(ModuleEncoder, ErrorCodeDimensionMismatch, fmt.Sprintf(format, args...), ErrVitalsMissing)
}

// NewInferenceError 创建推理错误，err 可以为 nil
func NewInferenceError(err error, format string, args ...any) *DomainError {
	return WrapDomainError(ModuleScorer, ErrorCodeInference, fmt.Sprintf(format, args...), err)
}

// NewMalformedInput 创建请求格式错误
func NewMalformedInput(err error, format string, args ...any) *DomainError {
	return WrapDomainError(ModuleRequest, ErrorCodeMalformedInput, fmt.Sprintf(format, args...), err)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsEncodingError 检查错误是否为特征编码维度错误
func IsEncodingError(err error) bool { return hasCode(err, ErrorCodeDimensionMismatch) }

// IsVitalsMissing 检查编码错误是否由缺少生命体征引起
func IsVitalsMissing(err error) bool { return errors.Is(err, ErrVitalsMissing) }

// IsInferenceError 检查错误是否为推理错误
func IsInferenceError(err error) bool { return hasCode(err, ErrorCodeInference) }

// IsMalformedInput 检查错误是否为请求格式错误
func IsMalformedInput(err error) bool { return hasCode(err, ErrorCodeMalformedInput) }

// IsInvalidConfig 检查错误是否为配置错误
func IsInvalidConfig(err error) bool { return hasCode(err, ErrorCodeInvalidConfig) }
