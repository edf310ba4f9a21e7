package result

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/triagekit/core"
)

func TestRound(t *testing.T) {
	tests := []struct {
		x    float64
		p    int
		want float64
	}{
		{0.6, 2, 0.6},
		{0.12345, 2, 0.12},
		{0.125, 2, 0.13},
		{0.999, 2, 1},
		{0.504, 2, 0.5},
		{0.7, 0, 1},
		{0.75, -1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.x, tt.p), "Round(%v, %d)", tt.x, tt.p)
	}
}

func TestAssemble_KeepsOrderAndFlags(t *testing.T) {
	a := core.NewCandidate(1, "Influenza", 0.6321)
	a.Recommend = true
	b := core.NewCandidate(0, "Common Cold", 0.2549)

	resp := Assemble([]*core.Candidate{a, b}, nil, DefaultPrecision)
	require.Len(t, resp.Predictions, 2)
	assert.Equal(t, Prediction{Name: "Influenza", Probability: 0.63, RecommendConsultation: true}, resp.Predictions[0])
	assert.Equal(t, Prediction{Name: "Common Cold", Probability: 0.25, RecommendConsultation: false}, resp.Predictions[1])
}

func TestAssemble_JSONShape(t *testing.T) {
	data, err := json.Marshal(Assemble(nil, nil, DefaultPrecision))
	require.NoError(t, err)
	assert.JSONEq(t, `{"predictions":[]}`, string(data))

	c := core.NewCandidate(0, "COVID-19", 0.5)
	data, err = json.Marshal(Assemble([]*core.Candidate{c}, []string{"high_fever"}, DefaultPrecision))
	require.NoError(t, err)
	assert.JSONEq(t, `{"predictions":[{"name":"COVID-19","probability":0.5,"recommendConsultation":false}],"alerts":["high_fever"]}`, string(data))
}

func TestStaticShapes(t *testing.T) {
	data, _ := json.Marshal(Healthy())
	assert.JSONEq(t, `{"status":"healthy"}`, string(data))

	data, _ = json.Marshal(Error{Error: "boom"})
	assert.JSONEq(t, `{"error":"boom"}`, string(data))

	data, _ = json.Marshal(Symptoms{Symptoms: []string{"fever"}})
	assert.JSONEq(t, `{"symptoms":["fever"]}`, string(data))
}
