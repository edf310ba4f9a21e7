package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/triagekit/config"
	_ "github.com/rushteam/triagekit/config/builders"
	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/internal/settings"
	"github.com/rushteam/triagekit/pipeline"
	"github.com/rushteam/triagekit/result"
	"github.com/rushteam/triagekit/service"
	"github.com/rushteam/triagekit/store"
	"github.com/rushteam/triagekit/triage"
	"github.com/rushteam/triagekit/vocab"
)

// app 持有进程内的长生命周期依赖
type app struct {
	engine  *triage.Engine
	store   core.Store
	ml      core.MLService
	logger  zerolog.Logger
	closers []func(context.Context) error
}

func newLogger(s *settings.Settings, w io.Writer) zerolog.Logger {
	if s.IsDev() {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(s.Level()).With().Timestamp().Logger()
}

// buildApp 按配置装配：store -> catalog -> ml service -> pipeline -> engine
func buildApp(ctx context.Context, s *settings.Settings, logger zerolog.Logger) (*app, error) {
	a := &app{logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.close(context.Background())
		}
	}()

	if err := a.openStore(ctx, s); err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(ctx, s, a.store)
	if err != nil {
		return nil, err
	}
	if s.Scorer == settings.ScorerClassifier && s.ModelType == settings.ModelTFServing {
		if err := a.openMLService(ctx, s); err != nil {
			return nil, err
		}
	}

	cfg, err := pipelineConfig(s)
	if err != nil {
		return nil, err
	}
	if ignored := s.IgnoredByPipelineFile(); len(ignored) > 0 {
		logger.Warn().
			Str("pipeline", s.PipelinePath).
			Strs("ignored", ignored).
			Msg("policy settings have no effect when a pipeline file is used")
	}
	if s.Precision != result.DefaultPrecision {
		logger.Warn().
			Int("precision", s.Precision).
			Msgf("probabilities are rounded to %d decimals instead of %d", s.Precision, result.DefaultPrecision)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	env := &pipeline.BuildEnv{Catalog: catalog, Store: a.store, MLService: a.ml}
	p, err := cfg.BuildPipeline(config.DefaultFactory(), env)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	a.engine, err = triage.NewEngine(catalog, p,
		triage.WithLogger(logger),
		triage.WithPrecision(s.Policy().Precision()),
		triage.WithBatchLimit(s.BatchLimit),
	)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Strs("nodes", p.Names()).
		Int("symptoms", catalog.NumSymptoms()).
		Int("vitals", catalog.NumVitals()).
		Int("conditions", catalog.NumConditions()).
		Msg("engine ready")
	ok = true
	return a, nil
}

// openStore 配置了 Redis 时连接 Redis，否则使用进程内存储
func (a *app) openStore(ctx context.Context, s *settings.Settings) error {
	if s.RedisAddr == "" {
		m := store.NewMemoryStore()
		a.store = m
		a.closers = append(a.closers, func(context.Context) error { return m.Close() })
		return nil
	}
	r, err := store.NewRedisStore(ctx, s.RedisAddr, s.RedisDB, store.WithKeyPrefix("triage:"))
	if err != nil {
		return err
	}
	a.store = r
	a.closers = append(a.closers, func(context.Context) error { return r.Close() })
	a.logger.Info().Str("addr", s.RedisAddr).Int("db", s.RedisDB).Msg("redis store connected")
	return nil
}

func (a *app) openMLService(ctx context.Context, s *settings.Settings) error {
	ml, err := service.NewMLService(&service.ServiceConfig{
		Type:      service.ServiceTypeTFServing,
		Endpoint:  s.ModelEndpoint,
		ModelName: s.ModelName,
		Timeout:   s.ModelTimeout,
	})
	if err != nil {
		return err
	}
	a.ml = ml
	a.closers = append(a.closers, ml.Close)
	if err := service.TestConnection(ctx, ml); err != nil {
		// 模型服务可能晚于本进程就绪，请求时再报错
		a.logger.Warn().Err(err).Str("endpoint", s.ModelEndpoint).Msg("model service not reachable")
	}
	return nil
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}

// loadCatalog 优先级：Store 中的 key > 本地文件 > 内置词表
func loadCatalog(ctx context.Context, s *settings.Settings, st core.Store) (*vocab.Catalog, error) {
	var loader vocab.Loader
	var source string
	switch {
	case s.CatalogKey != "":
		loader, source = vocab.NewStoreLoader(st), s.CatalogKey
	case s.CatalogPath != "":
		loader, source = vocab.NewFileLoader(), s.CatalogPath
	case s.Scorer == settings.ScorerClassifier:
		return vocab.ClassifierDefault(), nil
	default:
		return vocab.Default(), nil
	}
	c, err := loader.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

// pipelineConfig 指定了文件时从文件加载，否则按配置生成默认 Pipeline
func pipelineConfig(s *settings.Settings) (*pipeline.Config, error) {
	if s.PipelinePath == "" {
		return config.DefaultPipelineConfig(s.PipelineOptions()), nil
	}
	return pipeline.LoadConfig(s.PipelinePath)
}
