package captable

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// scenarioFile is the YAML shape of a batch scenario file:
//
//	scenarios:
//	  - name: base case
//	    exitValue: 50000000
//	    kind: acquisition
//	  - name: downside
//	    exitValue: 8000000
//	    simplified: true
type scenarioFile struct {
	Scenarios []struct {
		Name       string  `yaml:"name"`
		ExitValue  float64 `yaml:"exitValue"`
		Kind       string  `yaml:"kind"`
		Date       string  `yaml:"date"`
		Simplified bool    `yaml:"simplified"`
	} `yaml:"scenarios"`
}

// DecodeScenarios reads a YAML batch of exit scenarios, typically fed to
// EvaluateExits for side-by-side modeling.
func DecodeScenarios(r io.Reader, currency string) ([]ExitScenario, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read scenario file: %w", err)
	}
	var file scenarioFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("could not parse scenario file: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, &ValidationError{Msg: "scenario file lists no scenarios"}
	}

	scenarios := make([]ExitScenario, 0, len(file.Scenarios))
	for i, s := range file.Scenarios {
		scenario := ExitScenario{
			Name:       s.Name,
			ExitValue:  M(decimal.NewFromFloat(s.ExitValue), currency),
			Simplified: s.Simplified,
		}
		if scenario.Name == "" {
			scenario.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if s.Kind != "" {
			kind, err := ParseExitKind(s.Kind)
			if err != nil {
				return nil, &ValidationError{Msg: err.Error()}
			}
			scenario.Kind = kind
		}
		if s.Date != "" {
			d, err := ParseDate(s.Date)
			if err != nil {
				return nil, &ValidationError{Msg: err.Error()}
			}
			scenario.Date = d
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}
