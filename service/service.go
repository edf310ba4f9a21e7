// Package service 提供 core.MLService 的实现，用于对接外部模型服务。
//
//	svc, err := service.NewMLService(&service.ServiceConfig{
//	    Type:      service.ServiceTypeTFServing,
//	    Endpoint:  "http://localhost:8501",
//	    ModelName: "triage",
//	})
//	classifier := model.NewRemoteModel(svc, "triage", catalog.Dim())
package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rushteam/triagekit/core"
)

// ServiceType 服务类型
type ServiceType string

const (
	ServiceTypeTFServing ServiceType = "tf_serving" // TensorFlow Serving（REST）
)

// DefaultTimeout 是未配置 Timeout 时的请求超时
const DefaultTimeout = 30 * time.Second

// ServiceConfig 描述一个远程分类模型的位置。
type ServiceConfig struct {
	Type         ServiceType
	Endpoint     string // 如 "http://localhost:8501"，只支持 REST
	ModelName    string
	ModelVersion string // 为空则使用服务端最新版本
	Timeout      int    // 秒
	Auth         *AuthConfig
}

// AuthConfig 认证配置，Type 取 basic / bearer / api_key。
type AuthConfig struct {
	Type     string
	Username string
	Password string
	Token    string
	APIKey   string
}

// apply 把凭据写入请求头，未知类型忽略。
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case "basic":
		req.SetBasicAuth(a.Username, a.Password)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case "api_key":
		req.Header.Set("X-API-Key", a.APIKey)
	}
}

// NewMLService 校验配置并按 Type 创建 MLService。
func NewMLService(cfg *ServiceConfig) (core.MLService, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	timeout := DefaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	switch cfg.Type {
	case ServiceTypeTFServing:
		return NewTFServingClient(cfg.Endpoint, cfg.ModelName,
			WithTFServingTimeout(timeout),
			WithTFServingVersion(cfg.ModelVersion),
			WithTFServingAuth(cfg.Auth),
		), nil
	default:
		return nil, fmt.Errorf("unsupported service type: %s", cfg.Type)
	}
}

// ValidateConfig 要求 http(s) 端点与模型名。
func ValidateConfig(cfg *ServiceConfig) error {
	if cfg == nil {
		return fmt.Errorf("service config is required")
	}
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint %q must be an http:// or https:// URL", cfg.Endpoint)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("model name is required")
	}
	return nil
}

// TestConnection 启动时探测服务是否可用
func TestConnection(ctx context.Context, svc core.MLService) error {
	if svc == nil {
		return fmt.Errorf("service is nil")
	}
	return svc.Health(ctx)
}
