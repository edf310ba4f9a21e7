// Package server 通过 HTTP 暴露预测接口：
//
//	POST /predict        单个预测
//	POST /predict/batch  批量预测
//	GET  /symptoms       已知症状列表
//	GET  /health         健康检查
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/rushteam/triagekit/triage"
)

// DefaultBodyLimit 请求体大小上限
const DefaultBodyLimit = "1M"

// Server 包装 echo 实例与预测引擎
type Server struct {
	echo   *echo.Echo
	engine *triage.Engine
	logger zerolog.Logger
}

// Option 配置 Server
type Option func(*config)

type config struct {
	corsOrigins []string
	bodyLimit   string
}

// WithCORSOrigins 设置允许的跨域来源，默认 "*"
func WithCORSOrigins(origins ...string) Option {
	return func(c *config) { c.corsOrigins = origins }
}

// WithBodyLimit 设置请求体大小上限，如 "512K"、"2M"
func WithBodyLimit(limit string) Option {
	return func(c *config) { c.bodyLimit = limit }
}

// New 创建 Server 并注册路由与中间件
func New(engine *triage.Engine, logger zerolog.Logger, opts ...Option) *Server {
	cfg := config{corsOrigins: []string{"*"}, bodyLimit: DefaultBodyLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, engine: engine, logger: logger}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(Recovery(logger))
	e.Use(RequestID())
	e.Use(Logger(logger))
	e.Use(echomw.BodyLimit(cfg.bodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.corsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", RequestIDHeader},
	}))

	e.POST("/predict", s.handlePredict)
	e.POST("/predict/batch", s.handlePredictBatch)
	e.GET("/symptoms", s.handleSymptoms)
	e.GET("/health", s.handleHealth)
	return s
}

// Handler 返回 http.Handler，便于测试或挂载到其他服务
func (s *Server) Handler() http.Handler { return s.echo }

// Start 开始监听，Shutdown 后返回 nil
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("starting server")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")
	return s.echo.Shutdown(ctx)
}
