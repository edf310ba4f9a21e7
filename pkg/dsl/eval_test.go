package dsl

import (
	"testing"
)

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"syntax", []Rule{{Name: "bad", Expr: "vitals.bodyTemperature >"}}},
		{"non bool", []Rule{{Name: "num", Expr: "1 + 2"}}},
		{"unknown variable", []Rule{{Name: "unk", Expr: "patient.age > 3"}}},
		{"no name", []Rule{{Expr: "true"}}},
		{"duplicate", []Rule{{Name: "a", Expr: "true"}, {Name: "a", Expr: "false"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.rules); err == nil {
				t.Fatal("want compile error")
			}
		})
	}
}

func TestRuleSet_Evaluate(t *testing.T) {
	rs, err := Compile([]Rule{
		{Name: "high_fever", Expr: `has(vitals.bodyTemperature) && vitals.bodyTemperature >= 39.5`},
		{Name: "breathing", Expr: `"shortness of breath" in symptoms`},
		{Name: "covid_likely", Expr: `"COVID-19" in scores && scores["COVID-19"] > 0.7`},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if rs.Len() != 3 {
		t.Fatalf("Len() = %d", rs.Len())
	}

	tests := []struct {
		name string
		in   Input
		want []string
	}{
		{
			name: "nothing",
			in:   Input{},
			want: nil,
		},
		{
			name: "fever only",
			in:   Input{Vitals: map[string]float64{"bodyTemperature": 40.1}},
			want: []string{"high_fever"},
		},
		{
			name: "all in declared order",
			in: Input{
				Vitals:   map[string]float64{"bodyTemperature": 39.5},
				Symptoms: []string{"shortness of breath"},
				Scores:   map[string]float64{"COVID-19": 0.8},
			},
			want: []string{"high_fever", "breathing", "covid_likely"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rs.Evaluate(tt.in)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRuleSet_EvaluateMissingKey(t *testing.T) {
	rs, err := Compile([]Rule{
		{Name: "unguarded", Expr: `vitals.heartRate > 120.0`},
		{Name: "always", Expr: `true`},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, err := rs.Evaluate(Input{})
	if err == nil {
		t.Fatal("want error for missing key")
	}
	if len(got) != 1 || got[0] != "always" {
		t.Fatalf("other rules must still run, got %v", got)
	}
}
