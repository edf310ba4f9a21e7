package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rushteam/triagekit/core"
)

const defaultSignature = "serving_default"

// TFServingClient 调用 TensorFlow Serving 的 REST 接口（默认端口 8501）。
// 模型签名须输出 softmax 概率，每个实例一行，列按疾病词表顺序。
type TFServingClient struct {
	Endpoint      string
	ModelName     string
	ModelVersion  string
	SignatureName string
	Timeout       time.Duration
	Auth          *AuthConfig

	httpClient *http.Client
}

// TFServingOption TF Serving 客户端配置选项
type TFServingOption func(*TFServingClient)

func WithTFServingVersion(version string) TFServingOption {
	return func(c *TFServingClient) { c.ModelVersion = version }
}

func WithTFServingSignature(name string) TFServingOption {
	return func(c *TFServingClient) { c.SignatureName = name }
}

func WithTFServingTimeout(timeout time.Duration) TFServingOption {
	return func(c *TFServingClient) { c.Timeout = timeout }
}

func WithTFServingAuth(auth *AuthConfig) TFServingOption {
	return func(c *TFServingClient) { c.Auth = auth }
}

// WithTFServingHTTPClient 替换底层 HTTP 客户端，此时 Timeout 不再生效。
func WithTFServingHTTPClient(hc *http.Client) TFServingOption {
	return func(c *TFServingClient) { c.httpClient = hc }
}

func NewTFServingClient(endpoint, modelName string, opts ...TFServingOption) *TFServingClient {
	c := &TFServingClient{
		Endpoint:      strings.TrimRight(endpoint, "/"),
		ModelName:     modelName,
		SignatureName: defaultSignature,
		Timeout:       DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.Timeout}
	}
	return c
}

// modelPath 形如 /v1/models/<name>[/versions/<v>]
func (c *TFServingClient) modelPath() string {
	var b strings.Builder
	b.WriteString(c.Endpoint)
	b.WriteString("/v1/models/")
	b.WriteString(c.ModelName)
	if c.ModelVersion != "" {
		b.WriteString("/versions/")
		b.WriteString(c.ModelVersion)
	}
	return b.String()
}

type tfPredictBody struct {
	SignatureName string      `json:"signature_name,omitempty"`
	Instances     [][]float64 `json:"instances"`
}

// 行格式返回 predictions，列格式返回 outputs
type tfPredictResult struct {
	Predictions [][]float64 `json:"predictions"`
	Outputs     [][]float64 `json:"outputs"`
}

func (r *tfPredictResult) rows() [][]float64 {
	if r.Predictions != nil {
		return r.Predictions
	}
	return r.Outputs
}

type tfModelStatus struct {
	ModelVersionStatus []struct {
		Version string `json:"version"`
		State   string `json:"state"`
	} `json:"model_version_status"`
}

// Predict 实现 core.MLService：一次请求发送全部实例，返回行数必须与实例数一致。
func (c *TFServingClient) Predict(ctx context.Context, req *core.MLPredictRequest) (*core.MLPredictResponse, error) {
	if req == nil || len(req.Instances) == 0 {
		return nil, fmt.Errorf("instances are required")
	}
	body := tfPredictBody{SignatureName: c.SignatureName, Instances: req.Instances}
	if req.SignatureName != "" {
		body.SignatureName = req.SignatureName
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var out tfPredictResult
	if err := c.call(ctx, http.MethodPost, c.modelPath()+":predict", payload, &out); err != nil {
		return nil, err
	}
	rows := out.rows()
	if len(rows) != len(req.Instances) {
		return nil, fmt.Errorf("tf serving returned %d predictions for %d instances", len(rows), len(req.Instances))
	}
	return &core.MLPredictResponse{Distributions: rows, ModelVersion: c.ModelVersion}, nil
}

// Health 查询模型状态；服务端列出了版本但没有一个处于 AVAILABLE 时视为不可用。
func (c *TFServingClient) Health(ctx context.Context) error {
	var status tfModelStatus
	if err := c.call(ctx, http.MethodGet, c.modelPath(), nil, &status); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if len(status.ModelVersionStatus) == 0 {
		return nil
	}
	for _, v := range status.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return nil
		}
	}
	return core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
		fmt.Sprintf("model %s has no available version", c.ModelName))
}

// call 发送请求并把 200 响应解码到 out。传输失败归为 UNAVAILABLE。
func (c *TFServingClient) call(ctx context.Context, method, url string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Auth.apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.WrapDomainError(core.ModuleService, core.ErrorCodeUnavailable, "tf serving request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("tf serving error: status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Close 释放空闲连接
func (c *TFServingClient) Close(_ context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

var _ core.MLService = (*TFServingClient)(nil)
