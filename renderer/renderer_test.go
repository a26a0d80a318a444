package renderer

import (
	"context"
	"strings"
	"testing"
	"text/template"

	"github.com/etnz/captable"
)

func jan(day int) captable.Date { return captable.NewDate(2025, 1, day) }

// demoLedger builds a small but complete history for the rendering tests.
func demoLedger(t *testing.T) (*captable.Registry, []captable.Checkpoint) {
	t.Helper()
	l := captable.NewLedger("USD")
	l.Append(
		captable.NewFound(jan(1), "Acme", "common", captable.Q(10_000_000),
			captable.FounderAllocation{Holder: "alice", Name: "Alice", Shares: captable.Q(6_000_000)},
			captable.FounderAllocation{Holder: "bob", Name: "Bob", Shares: captable.Q(4_000_000)},
		),
		captable.NewRound(jan(15), captable.PricedRound{
			ID:       "series-a",
			Amount:   captable.M(2_500_000, "USD"),
			PreMoney: captable.M(10_000_000, "USD"),
			Class: captable.ShareClass{
				ID: "series-a", Name: "Series A", Kind: captable.Preferred,
				Seniority: 1, AntiDilution: captable.WeightedAverageBroad,
			},
			Investors: []captable.InvestorRecord{
				{Holder: "vc-one", Amount: captable.M(2_500_000, "USD")},
			},
		}),
		captable.NewPoolCreate(jan(20), "esop", captable.Pct(10), false),
	)
	reg, checkpoints, err := l.Replay()
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	return reg, checkpoints
}

// renderOK fails the test when the template machinery reported an error
// through its output.
func renderOK(t *testing.T, name, out string) {
	t.Helper()
	if strings.Contains(out, "error reading") || strings.Contains(out, "error parsing") ||
		strings.Contains(out, "error executing") {
		t.Fatalf("%s rendering failed:\n%s", name, out)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("%s rendered empty output", name)
	}
}

func TestCapTableMarkdown(t *testing.T) {
	reg, _ := demoLedger(t)
	out := CapTableMarkdown("Acme", reg, captable.DefaultRounding)
	renderOK(t, "captable", out)
	for _, want := range []string{"# Cap Table (Acme)", "Alice", "vc-one", "esop", "Share Classes", "rank 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestRoundMarkdown(t *testing.T) {
	reg, _ := demoLedger(t)
	reg, result, err := captable.ApplyPricedRound(reg, captable.PricedRound{
		ID:         "series-b",
		Date:       jan(25),
		Amount:     captable.M(5_000_000, "USD"),
		SharePrice: captable.M(2, "USD"),
		Class:      captable.ShareClass{ID: "series-b", Kind: captable.Preferred, Seniority: 2},
		Investors:  []captable.InvestorRecord{{Holder: "vc-two", Amount: captable.M(5_000_000, "USD")}},
	})
	if err != nil {
		t.Fatalf("ApplyPricedRound() error = %v", err)
	}
	_ = reg
	out := RoundMarkdown(result, captable.DefaultRounding)
	renderOK(t, "round", out)
	for _, want := range []string{"# Round series-b", "Pre-money", "Founder dilution", "vc-two"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestWaterfallMarkdown(t *testing.T) {
	reg, _ := demoLedger(t)
	wf, err := captable.Waterfall(reg, captable.M(10_000_000, "USD"))
	if err != nil {
		t.Fatalf("Waterfall() error = %v", err)
	}
	out := WaterfallMarkdown(wf, captable.DefaultRounding)
	renderOK(t, "waterfall", out)
	for _, want := range []string{"# Waterfall at", "liquidation-preference", "common", "Distributed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestExitMarkdown(t *testing.T) {
	reg, _ := demoLedger(t)
	scenarios := []captable.ExitScenario{
		{Name: "downside", ExitValue: captable.M(5_000_000, "USD")},
		{Name: "upside", ExitValue: captable.M(100_000_000, "USD"), Kind: captable.Acquisition},
	}
	results, err := captable.EvaluateExits(context.Background(), reg, scenarios)
	if err != nil {
		t.Fatalf("EvaluateExits() error = %v", err)
	}

	out := ExitMarkdown(results[1], captable.DefaultRounding)
	renderOK(t, "exit", out)
	for _, want := range []string{"# Exit upside (acquisition)", "Multiple", "Average investor multiple"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}

	batch := ExitsMarkdown(results, captable.DefaultRounding)
	renderOK(t, "exits", batch)
	if !strings.Contains(batch, "# Exit downside") || !strings.Contains(batch, "# Exit upside") {
		t.Errorf("batch output is missing a scenario:\n%s", batch)
	}
}

func TestValidationMarkdown(t *testing.T) {
	reg, _ := demoLedger(t)
	report := captable.CheckIntegrity(reg, captable.DefaultRounding)
	out := ValidationMarkdown(report, captable.DefaultRounding)
	renderOK(t, "validation", out)
	if !strings.Contains(out, "All checks passed.") {
		t.Errorf("output is missing the verdict:\n%s", out)
	}
	if !strings.Contains(out, "series-a") {
		t.Errorf("output is missing the class table:\n%s", out)
	}
}

func TestLogMarkdown(t *testing.T) {
	_, checkpoints := demoLedger(t)
	out := LogMarkdown(checkpoints, captable.DefaultRounding)
	renderOK(t, "log", out)
	for _, want := range []string{"# History", "Founded Acme", "Priced round", "option pool"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestAntiDilutionMarkdown(t *testing.T) {
	reg, _ := demoLedger(t)

	down := captable.DownRound{
		Price:  captable.M(0.5, "USD"),
		Amount: captable.M(1_000_000, "USD"),
		Shares: captable.Q(2_000_000),
	}
	_, result, err := captable.ApplyAntiDilution(reg, "series-a", down, nil)
	if err != nil {
		t.Fatalf("ApplyAntiDilution() error = %v", err)
	}
	out := AntiDilutionMarkdown(result, captable.DefaultRounding)
	renderOK(t, "antidilution", out)
	for _, want := range []string{"# Anti-Dilution (series-a)", "protection triggers", "Adjustment ratio"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}

	up := captable.DownRound{
		Price:  captable.M(2, "USD"),
		Amount: captable.M(1_000_000, "USD"),
		Shares: captable.Q(500_000),
	}
	_, result, err = captable.ApplyAntiDilution(reg, "series-a", up, nil)
	if err != nil {
		t.Fatalf("ApplyAntiDilution() error = %v", err)
	}
	out = AntiDilutionMarkdown(result, captable.DefaultRounding)
	renderOK(t, "antidilution up", out)
	if !strings.Contains(out, "No adjustment") {
		t.Errorf("up round should not trigger:\n%s", out)
	}
}

// TestTemplatesParse ensures every embedded template file is valid on its own.
func TestTemplatesParse(t *testing.T) {
	files, err := templates.ReadDir(".")
	if err != nil {
		t.Fatalf("failed to read embedded templates: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no templates embedded")
	}
	for _, f := range files {
		content, err := templates.ReadFile(f.Name())
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name(), err)
		}
		if _, err := template.New(f.Name()).Parse(string(content)); err != nil {
			t.Errorf("template %s does not parse: %v", f.Name(), err)
		}
	}
}
