package vocab

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/store"
)

const yamlCatalog = `
symptoms: [fever, cough, headache]
vital_signs: [bodyTemperature]
conditions: [Flu, Migraine]
profiles:
  Flu: [fever, cough]
  Migraine: [headache]
`

const tomlCatalog = `
symptoms = ["fever", "cough", "headache"]
conditions = ["Flu", "Migraine"]

[profiles]
Flu = ["fever", "cough"]
Migraine = ["headache"]
`

const jsonCatalog = `{"symptoms":["fever","cough","headache"],"conditions":["Flu","Migraine"],"profiles":{"Flu":["fever","cough"]}}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileLoader_Formats(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		wantVital int
	}{
		{"yaml", "catalog.yaml", yamlCatalog, 1},
		{"yml", "catalog.yml", yamlCatalog, 1},
		{"toml", "catalog.toml", tomlCatalog, 0},
		{"json", "catalog.json", jsonCatalog, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			c, err := NewFileLoader().Load(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, []string{"fever", "cough", "headache"}, c.Symptoms)
			assert.Equal(t, []string{"Flu", "Migraine"}, c.Conditions)
			assert.Equal(t, tt.wantVital, c.NumVitals())
			assert.True(t, c.Validated())
		})
	}
}

func TestFileLoader_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewFileLoader().Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = NewFileLoader().Load(ctx, writeFile(t, "catalog.ini", "x"))
	require.Error(t, err)
	assert.True(t, core.IsNotSupported(err))

	_, err = NewFileLoader().Load(ctx, writeFile(t, "bad.yaml", "symptoms: [fever]\nconditions: []\n"))
	require.Error(t, err)
	assert.True(t, core.IsInvalidConfig(err))
}

func TestStoreLoader_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	require.NoError(t, Save(ctx, s, "triage:catalog", Default()))

	c, err := NewStoreLoader(s).Load(ctx, "triage:catalog")
	require.NoError(t, err)
	assert.Equal(t, Default().Symptoms, c.Symptoms)
	assert.Equal(t, Default().Conditions, c.Conditions)
	ci, _ := c.ConditionIndex("Gastroenteritis")
	assert.Len(t, c.ProfileIndices(ci), 3)

	_, err = NewStoreLoader(s).Load(ctx, "missing")
	require.Error(t, err)
	assert.True(t, core.IsStoreNotFound(err))
}
