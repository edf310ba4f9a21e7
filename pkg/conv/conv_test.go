package conv

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1.5, 1.5, true},
		{float32(2), 2, true},
		{3, 3, true},
		{int64(4), 4, true},
		{int32(5), 5, true},
		{uint64(7), 7, true},
		{json.Number("36.6"), 36.6, true},
		{json.Number("x"), 0, false},
		{math.NaN(), 0, false},
		{true, 0, false},
		{"6", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToFloat64(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStringsOf(t *testing.T) {
	got, ok := StringsOf([]any{"fever", 1, "cough", nil})
	if !ok || len(got) != 2 || got[0] != "fever" || got[1] != "cough" {
		t.Fatalf("StringsOf = %v, %v", got, ok)
	}
	if _, ok := StringsOf("fever"); ok {
		t.Fatal("non-slice must report false")
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"name": "x", "n": 3, "f": 2.5, "t": 1, "b": true}

	if got := ConfigGet(m, "name", ""); got != "x" {
		t.Errorf("ConfigGet name = %q", got)
	}
	if got := ConfigGet(m, "missing", "def"); got != "def" {
		t.Errorf("ConfigGet missing = %q", got)
	}
	if got := ConfigGet(m, "n", "wrong type"); got != "wrong type" {
		t.Errorf("ConfigGet wrong type = %q", got)
	}
	if got := ConfigGet(m, "b", false); !got {
		t.Error("ConfigGet bool")
	}
	if got := ConfigGetInt64(m, "f", 0); got != 2 {
		t.Errorf("ConfigGetInt64 float = %d", got)
	}
	if got := ConfigGetInt64(nil, "n", 7); got != 7 {
		t.Errorf("ConfigGetInt64 nil map = %d", got)
	}
	if got := ConfigGetFloat64(m, "t", 0); got != 1 {
		t.Errorf("ConfigGetFloat64 int = %v", got)
	}
	if got := ConfigGetFloat64(m, "name", 0.5); got != 0.5 {
		t.Errorf("ConfigGetFloat64 string = %v", got)
	}
}
