package captable

import (
	"strings"
	"testing"
)

func TestDecodeScenarios(t *testing.T) {
	src := `
scenarios:
  - name: base case
    exitValue: 50000000
    kind: acquisition
    date: 2026-06-30
  - exitValue: 8000000
    simplified: true
`
	scenarios, err := DecodeScenarios(strings.NewReader(src), "USD")
	if err != nil {
		t.Fatalf("DecodeScenarios() error = %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("got %d scenarios, want 2", len(scenarios))
	}
	if scenarios[0].Name != "base case" || scenarios[0].Kind != Acquisition {
		t.Errorf("scenarios[0] = %+v", scenarios[0])
	}
	if !scenarios[0].ExitValue.Equal(USD(50_000_000)) {
		t.Errorf("exit value = %s, want $50,000,000", scenarios[0].ExitValue)
	}
	if scenarios[0].Date.IsZero() {
		t.Errorf("date was not parsed")
	}
	// Unnamed scenarios get positional names.
	if scenarios[1].Name != "scenario-2" {
		t.Errorf("scenarios[1].Name = %q, want scenario-2", scenarios[1].Name)
	}
	if !scenarios[1].Simplified {
		t.Errorf("scenarios[1] should be simplified")
	}
}

func TestDecodeScenarios_Errors(t *testing.T) {
	cases := map[string]string{
		"empty file":   "scenarios: []",
		"bad yaml":     "scenarios: [",
		"unknown kind": "scenarios:\n  - exitValue: 100\n    kind: merger",
		"bad date":     "scenarios:\n  - exitValue: 100\n    date: someday",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeScenarios(strings.NewReader(src), "USD"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
