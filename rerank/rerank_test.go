package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/pkg/dsl"
	"github.com/rushteam/triagekit/vocab"
)

func candidates(scores ...float64) []*core.Candidate {
	items := make([]*core.Candidate, len(scores))
	for i, s := range scores {
		items[i] = core.NewCandidate(i, string(rune('A'+i)), s)
	}
	return items
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"no truncation", 0, 4},
		{"negative keeps all", -1, 4},
		{"truncate", 2, 2},
		{"larger than input", 10, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), &core.TriageContext{}, candidates(0.9, 0.5, 0.2, 0.1))
			require.NoError(t, err)
			assert.Len(t, out, tt.want)
			assert.Equal(t, "A", out[0].Condition)
		})
	}
}

func TestConsultationNode_StrictThreshold(t *testing.T) {
	items := candidates(0.9, 0.5000001, 0.5, 0.4999, 0.1)
	out, err := NewConsultationNode().Process(context.Background(), &core.TriageContext{}, items)
	require.NoError(t, err)

	want := []bool{true, true, false, false, false}
	for i, it := range out {
		assert.Equal(t, want[i], it.Recommend, "score %v", it.Score)
	}
	_, ok := out[0].Labels["consultation"]
	assert.True(t, ok)
	_, ok = out[2].Labels["consultation"]
	assert.False(t, ok)
}

func TestConsultationNode_UsesUnroundedScore(t *testing.T) {
	// 0.504 取整后为 0.5，但仍应触发建议
	out, err := NewConsultationNode().Process(context.Background(), &core.TriageContext{}, candidates(0.504))
	require.NoError(t, err)
	assert.True(t, out[0].Recommend)
}

func TestRedFlagNode(t *testing.T) {
	c := vocab.ClassifierDefault()
	node, err := NewRedFlagNode(c, DefaultRedFlagRules())
	require.NoError(t, err)

	tctx := &core.TriageContext{
		Symptoms:   []string{"Shortness_of_Breath"},
		VitalSigns: []float64{40.0, 130, 120, 80, 26},
	}
	items := candidates(0.8, 0.1)
	out, err := node.Process(context.Background(), tctx, items)
	require.NoError(t, err)
	assert.Equal(t, items, out)
	assert.Equal(t, []string{"high_fever", "tachycardia", "respiratory_distress"}, tctx.Alerts)
	assert.False(t, out[0].Recommend, "red flags never change consultation")

	lbl, ok := tctx.GetLabel("red_flag")
	require.True(t, ok)
	assert.Equal(t, "high_fever|tachycardia|respiratory_distress", lbl.Value)
}

func TestRedFlagNode_NoVitals(t *testing.T) {
	node, err := NewRedFlagNode(vocab.Default(), DefaultRedFlagRules())
	require.NoError(t, err)
	tctx := &core.TriageContext{Symptoms: []string{"fever"}}
	_, err = node.Process(context.Background(), tctx, candidates(0.3))
	require.NoError(t, err)
	assert.Empty(t, tctx.Alerts)
}

func TestNewRedFlagNode_InvalidRule(t *testing.T) {
	_, err := NewRedFlagNode(vocab.Default(), nil)
	require.NoError(t, err)
	_, err = NewRedFlagNode(vocab.Default(), []dsl.Rule{{Name: "bad", Expr: "vitals >"}})
	assert.Error(t, err)
}
