package scorer

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"hash/fnv"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/model"
	"github.com/rushteam/triagekit/vocab"
)

// SumTolerance 是模型输出分布之和允许偏离 1 的幅度
const SumTolerance = 0.01

// ClassifierScorer 封装一个分类模型，把模型输出当作按疾病词表顺序排列的概率分布。
//
// 以下情况返回 InferenceError：
//   - 输入维度与模型期望不符
//   - 模型调用失败
//   - 输出长度不等于疾病数，或存在负数/NaN/Inf，或总和偏离 1 超过 SumTolerance
//
// 可选的预测缓存（core.Store）以模型名 + 向量哈希为 key，缓存读写失败只记录日志、不影响结果。
type ClassifierScorer struct {
	catalog  *vocab.Catalog
	model    model.Classifier
	cache    core.Store
	cacheTTL int
}

// ClassifierOption ClassifierScorer 配置选项
type ClassifierOption func(*ClassifierScorer)

// WithCache 启用预测缓存，ttl 单位为秒（<= 0 表示不过期）
func WithCache(store core.Store, ttl int) ClassifierOption {
	return func(s *ClassifierScorer) {
		s.cache = store
		s.cacheTTL = ttl
	}
}

func NewClassifierScorer(catalog *vocab.Catalog, m model.Classifier, opts ...ClassifierOption) *ClassifierScorer {
	s := &ClassifierScorer{catalog: catalog, model: m}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ClassifierScorer) Name() string { return s.model.Name() }

func (s *ClassifierScorer) Score(ctx context.Context, v core.FeatureVector) ([]float64, error) {
	if dim := s.model.InputDim(); dim > 0 && len(v) != dim {
		return nil, core.NewInferenceError(nil, "scorer: vector has %d features, model %s expects %d", len(v), s.model.Name(), dim)
	}

	key := ""
	if s.cache != nil {
		key = cacheKey(s.model.Name(), v)
		if out, ok := s.lookup(ctx, key); ok {
			return out, nil
		}
	}

	out, err := s.model.Predict(ctx, v)
	if err != nil {
		return nil, core.NewInferenceError(err, "scorer: model %s failed", s.model.Name())
	}
	if err := s.check(out); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.save(ctx, key, out)
	}
	return out, nil
}

// check 校验输出是合法的概率分布，并把略超 1 的分量截断到 1。
func (s *ClassifierScorer) check(out []float64) error {
	k := s.catalog.NumConditions()
	if len(out) != k {
		return core.NewInferenceError(nil, "scorer: model returned %d outputs, expected %d", len(out), k)
	}
	var sum float64
	for i, p := range out {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return core.NewInferenceError(nil, "scorer: invalid probability %v for %q", p, s.catalog.Conditions[i])
		}
		sum += p
	}
	if math.Abs(sum-1) > SumTolerance {
		return core.NewInferenceError(nil, "scorer: probabilities sum to %.4f, expected 1", sum)
	}
	for i, p := range out {
		if p > 1 {
			out[i] = 1
		}
	}
	return nil
}

func (s *ClassifierScorer) lookup(ctx context.Context, key string) ([]float64, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !core.IsStoreNotFound(err) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("store", s.cache.Name()).Msg("prediction cache read failed")
		}
		return nil, false
	}
	var out []float64
	if err := json.Unmarshal(data, &out); err != nil || s.check(out) != nil {
		return nil, false
	}
	return out, true
}

func (s *ClassifierScorer) save(ctx context.Context, key string, out []float64) {
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("store", s.cache.Name()).Msg("prediction cache write failed")
	}
}

// cacheKey 为 "pred:<model>:<fnv64a(vector)>"
func cacheKey(modelName string, v core.FeatureVector) string {
	h := fnv.New64a()
	var buf [8]byte
	for _, x := range v {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		_, _ = h.Write(buf[:])
	}
	return "pred:" + modelName + ":" + strconv.FormatUint(h.Sum64(), 16)
}
