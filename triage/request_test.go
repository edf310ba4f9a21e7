package triage

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/triagekit/core"
)

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"requestId":"r-1","symptoms":["fever",3,"cough",null],"vitalSigns":[38.5,90,120,80,18]}`))
	require.NoError(t, err)
	assert.Equal(t, "r-1", req.ID)
	assert.Equal(t, []string{"fever", "cough"}, req.Symptoms)
	assert.Equal(t, []float64{38.5, 90, 120, 80, 18}, req.VitalSigns)
	assert.Nil(t, req.NamedVitals)
}

func TestDecodeRequest_NamedVitals(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"symptoms":["cough"],"vitalSigns":{"heartRate":110,"bodyTemperature":38.2}}`))
	require.NoError(t, err)
	assert.Nil(t, req.VitalSigns)
	assert.Equal(t, map[string]float64{"heartRate": 110, "bodyTemperature": 38.2}, req.NamedVitals)
}

func TestDecodeRequest_LenientSymptoms(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing", `{}`},
		{"string", `{"symptoms":"fever"}`},
		{"object", `{"symptoms":{"a":"fever"}}`},
		{"null", `{"symptoms":null,"vitalSigns":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.body))
			require.NoError(t, err)
			assert.Empty(t, req.Symptoms)
			assert.Nil(t, req.VitalSigns)
		})
	}
}

func TestDecodeRequest_Malformed(t *testing.T) {
	bodies := []string{
		``,
		`not json`,
		`[]`,
		`"fever"`,
		`{"vitalSigns":"high"}`,
		`{"vitalSigns":[37,"80"]}`,
		`{"vitalSigns":{"heartRate":"fast"}}`,
	}
	for _, body := range bodies {
		_, err := DecodeRequest([]byte(body))
		assert.True(t, core.IsMalformedInput(err), "body %q: %v", body, err)
	}
}

func TestDecodeBatch(t *testing.T) {
	reqs, err := DecodeBatch([]byte(`{"requests":[{"symptoms":["fever"]},{"symptoms":["cough"],"vitalSigns":[37]}]}`))
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, []string{"fever"}, reqs[0].Symptoms)
	assert.Equal(t, []float64{37}, reqs[1].VitalSigns)
}

func TestDecodeBatch_Malformed(t *testing.T) {
	items := make([]string, MaxBatchSize+1)
	for i := range items {
		items[i] = `{}`
	}
	bodies := []string{
		`{}`,
		`{"requests":{}}`,
		`{"requests":[1]}`,
		`{"requests":[{"vitalSigns":"x"}]}`,
		fmt.Sprintf(`{"requests":[%s]}`, strings.Join(items, ",")),
	}
	for _, body := range bodies {
		_, err := DecodeBatch([]byte(body))
		assert.True(t, core.IsMalformedInput(err), "body %.40q: %v", body, err)
	}
}
