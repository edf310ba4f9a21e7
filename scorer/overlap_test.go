package scorer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/feature"
	"github.com/rushteam/triagekit/vocab"
)

// fixedSource 每次返回同一个值
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func encode(t *testing.T, c *vocab.Catalog, symptoms ...string) core.FeatureVector {
	t.Helper()
	v, err := feature.NewEncoder(c).Encode(symptoms, nil)
	require.NoError(t, err)
	return v
}

func scoreOf(t *testing.T, c *vocab.Catalog, scores []float64, condition string) float64 {
	t.Helper()
	i, ok := c.ConditionIndex(condition)
	require.True(t, ok, condition)
	return scores[i]
}

func TestOverlapScorer_NoNoise(t *testing.T) {
	c := vocab.Default()
	s := NewOverlapScorer(c, WithSource(fixedSource(0.5)))

	scores, err := s.Score(context.Background(), encode(t, c, "fever", "cough", "body aches"))
	require.NoError(t, err)
	require.Len(t, scores, c.NumConditions())

	assert.InDelta(t, 0.6, scoreOf(t, c, scores, "Influenza"), 1e-9)
	assert.InDelta(t, 0.25, scoreOf(t, c, scores, "Common Cold"), 1e-9)
	assert.InDelta(t, 0.5, scoreOf(t, c, scores, "Pneumonia"), 1e-9)
	// 无重叠的疾病取 U(0, 0.2) 的中点
	assert.InDelta(t, 0.1, scoreOf(t, c, scores, "Gastroenteritis"), 1e-9)
}

func TestOverlapScorer_NoiseBounds(t *testing.T) {
	c := vocab.Default()
	v := encode(t, c, "fever", "cough", "body aches")

	tests := []struct {
		name string
		r    float64
		flu  float64
		cold float64
		none float64
	}{
		{"lowest draw", 0, 0.4, 0.05, 0},
		{"highest draw", 0.999999, 0.8, 0.45, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := NewOverlapScorer(c, WithSource(fixedSource(tt.r))).Score(context.Background(), v)
			require.NoError(t, err)
			assert.InDelta(t, tt.flu, scoreOf(t, c, scores, "Influenza"), 1e-5)
			assert.InDelta(t, tt.cold, scoreOf(t, c, scores, "Common Cold"), 1e-5)
			assert.InDelta(t, tt.none, scoreOf(t, c, scores, "Migraine"), 1e-5)
		})
	}
}

func TestOverlapScorer_ClampsToUnitInterval(t *testing.T) {
	c := vocab.Default()
	v := encode(t, c, "nausea", "vomiting", "diarrhea")
	scores, err := NewOverlapScorer(c, WithSource(fixedSource(0.99))).Score(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, 1.0, scoreOf(t, c, scores, "Gastroenteritis"))
}

func TestOverlapScorer_RandomWithinBounds(t *testing.T) {
	c := vocab.Default()
	s := NewOverlapScorer(c)
	flu := encode(t, c, "fever", "cough", "body aches")
	empty := encode(t, c)

	for i := 0; i < 200; i++ {
		scores, err := s.Score(context.Background(), flu)
		require.NoError(t, err)
		f := scoreOf(t, c, scores, "Influenza")
		cold := scoreOf(t, c, scores, "Common Cold")
		assert.True(t, f >= 0.4 && f <= 0.8, "influenza %v", f)
		assert.True(t, cold >= 0.05 && cold <= 0.45, "common cold %v", cold)

		scores, err = s.Score(context.Background(), empty)
		require.NoError(t, err)
		for _, x := range scores {
			assert.True(t, x >= 0 && x <= NoiseAmplitude, "empty input score %v", x)
		}
	}
}

func TestOverlapScorer_IgnoresVitalSlots(t *testing.T) {
	c := vocab.ClassifierDefault()
	v, err := feature.NewEncoder(c).Encode([]string{"fever"}, []float64{39, 100, 120, 80, 18})
	require.NoError(t, err)
	scores, err := NewOverlapScorer(c, WithSource(fixedSource(0.5))).Score(context.Background(), v)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, scoreOf(t, c, scores, "Influenza"), 1e-9)
}

func TestOverlapScorer_ShortVector(t *testing.T) {
	c := vocab.Default()
	_, err := NewOverlapScorer(c).Score(context.Background(), core.FeatureVector{1, 0})
	require.Error(t, err)
	assert.True(t, core.IsInferenceError(err))
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "overlap", NameOf(NewOverlapScorer(vocab.Default())))
}
