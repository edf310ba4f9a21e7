package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/vocab"
)

type appendNode struct {
	name string
	err  error
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return KindScore }
func (n *appendNode) Process(_ context.Context, _ *core.TriageContext, items []*core.Candidate) ([]*core.Candidate, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewCandidate(len(items), n.name, 0)), nil
}

func TestPipeline_RunInOrder(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&appendNode{name: "a"}, &appendNode{name: "b"}}}
	out, err := p.Run(context.Background(), &core.TriageContext{}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 2 || out[0].Condition != "a" || out[1].Condition != "b" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if got := p.Names(); len(got) != 2 || got[0] != "a" {
		t.Fatalf("Names() = %v", got)
	}
}

func TestPipeline_StopsOnError(t *testing.T) {
	boom := core.NewEncodingError("boom")
	p := &Pipeline{Nodes: []Node{&appendNode{name: "a", err: boom}, &appendNode{name: "b"}}}
	_, err := p.Run(context.Background(), &core.TriageContext{}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
	if !core.IsEncodingError(err) {
		t.Fatalf("domain error code lost: %v", err)
	}
}

func TestPipeline_NilContext(t *testing.T) {
	p := &Pipeline{}
	if _, err := p.Run(context.Background(), nil, nil); err == nil {
		t.Fatal("want error for nil triage context")
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := `
pipeline:
  name: test
  nodes:
    - type: test.append
      config:
        name: first
    - type: test.append
      config:
        name: second
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if cfg.Pipeline.Name != "test" || len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	factory := NewNodeFactory()
	factory.Register("test.append", func(_ *BuildEnv, c map[string]any) (Node, error) {
		name, _ := c["name"].(string)
		return &appendNode{name: name}, nil
	})

	env := &BuildEnv{Catalog: vocab.Default()}
	p, err := cfg.BuildPipeline(factory, env)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if got := p.Names(); len(got) != 2 || got[1] != "second" {
		t.Fatalf("Names() = %v", got)
	}

	if _, err := cfg.BuildPipeline(factory, &BuildEnv{}); err == nil {
		t.Fatal("want error without catalog")
	}
	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: "unknown"})
	_, err = cfg.BuildPipeline(factory, env)
	if err == nil || !strings.Contains(err.Error(), "#2") {
		t.Fatalf("want error naming node #2, got %v", err)
	}
}

func TestLoadFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.json")
	content := `{"pipeline":{"name":"j","nodes":[{"type":"rerank.topn","config":{"n":3}}]}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromJSON(path)
	if err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	if cfg.Pipeline.Nodes[0].Type != "rerank.topn" {
		t.Fatalf("unexpected node: %+v", cfg.Pipeline.Nodes[0])
	}
}

func TestLoadConfig_ByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "p.JSON")
	yamlPath := filepath.Join(dir, "p.yml")
	if err := os.WriteFile(jsonPath, []byte(`{"pipeline":{"name":"j","nodes":[]}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte("pipeline:\n  name: y\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	for path, want := range map[string]string{jsonPath: "j", yamlPath: "y"} {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%s): %v", path, err)
		}
		if cfg.Pipeline.Name != want {
			t.Fatalf("LoadConfig(%s) name = %q, want %q", path, cfg.Pipeline.Name, want)
		}
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestParseConfig_Errors(t *testing.T) {
	if _, err := ParseConfig([]byte("{}"), "toml"); err == nil {
		t.Fatal("want error for unsupported format")
	}
	if _, err := ParseConfig([]byte("{"), "json"); err == nil {
		t.Fatal("want error for bad json")
	}
}
