package captable

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ExitKind identifies the nature of an exit event.
type ExitKind string

const (
	Acquisition ExitKind = "acquisition"
	IPO         ExitKind = "ipo"
	Liquidation ExitKind = "liquidation"
)

// ParseExitKind parses a string into an ExitKind.
func ParseExitKind(s string) (ExitKind, error) {
	switch ExitKind(s) {
	case Acquisition, IPO, Liquidation:
		return ExitKind(s), nil
	default:
		return "", fmt.Errorf("unknown exit kind: %q", s)
	}
}

// ExitScenario describes one exit to evaluate against a registry snapshot.
// Simplified mode bypasses the waterfall and pays a uniform price per share,
// ignoring preferences.
type ExitScenario struct {
	Name       string
	ExitValue  Money
	Kind       ExitKind
	Date       Date
	Simplified bool
}

// HolderPayout is one shareholder's aggregated exit outcome.
type HolderPayout struct {
	Holder   string
	Name     string
	Shares   Quantity
	Payout   Money
	Invested Money
	Multiple decimal.Decimal // payout / invested; zero when nothing was invested
}

// ExitSummary is the roll-up of an exit evaluation.
type ExitSummary struct {
	TotalShares   Quantity
	PricePerShare Money
	AvgMultiple   decimal.Decimal // across investors with nonzero investment
}

// ExitResult is the structured outcome of one exit scenario.
type ExitResult struct {
	Scenario  ExitScenario
	Payouts   []HolderPayout // descending payout
	Waterfall *WaterfallResult // nil in simplified mode
	Summary   ExitSummary
}

// EvaluateExit computes per-shareholder payouts and return multiples for one
// exit scenario. Invested amounts are summed from the registry's priced-round
// investor records.
func EvaluateExit(reg *Registry, scenario ExitScenario) (*ExitResult, error) {
	if scenario.ExitValue.IsNegative() {
		return nil, &ValidationError{Msg: "exit value must not be negative"}
	}
	total := reg.TotalShares()
	if total.IsZero() {
		return nil, computationErr("cannot evaluate an exit on an empty registry")
	}

	result := &ExitResult{Scenario: scenario}
	payouts := make(map[string]Money)

	if scenario.Simplified {
		price := scenario.ExitValue.Div(total)
		result.Summary.PricePerShare = price
		for _, h := range reg.holders {
			payouts[h.ID] = price.Mul(h.Shares())
		}
	} else {
		wf, err := Waterfall(reg, scenario.ExitValue)
		if err != nil {
			return nil, err
		}
		result.Waterfall = wf
		for _, d := range wf.Distributions {
			payouts[d.Holder] = payouts[d.Holder].Add(d.Amount)
		}
		result.Summary.PricePerShare = scenario.ExitValue.Div(total)
	}
	result.Summary.TotalShares = total

	var multiples decimal.Decimal
	var investors int64
	for _, h := range reg.holders {
		p := HolderPayout{
			Holder:   h.ID,
			Name:     h.Name,
			Shares:   h.Shares(),
			Payout:   payouts[h.ID],
			Invested: reg.InvestedBy(h.ID),
		}
		if p.Invested.IsPositive() {
			p.Multiple = p.Payout.Ratio(p.Invested)
			multiples = multiples.Add(p.Multiple)
			investors++
		}
		result.Payouts = append(result.Payouts, p)
	}
	sort.SliceStable(result.Payouts, func(i, j int) bool {
		return result.Payouts[i].Payout.GreaterThan(result.Payouts[j].Payout)
	})
	if investors > 0 {
		result.Summary.AvgMultiple = multiples.Div(decimal.NewFromInt(investors))
	}
	return result, nil
}

// EvaluateExits evaluates independent scenarios concurrently, one snapshot
// copy per worker. The engine itself is synchronous and pure; batches are
// embarrassingly parallel as long as no worker shares a snapshot.
func EvaluateExits(ctx context.Context, reg *Registry, scenarios []ExitScenario) ([]*ExitResult, error) {
	results := make([]*ExitResult, len(scenarios))
	g, _ := errgroup.WithContext(ctx)
	for i, scenario := range scenarios {
		g.Go(func() error {
			r, err := EvaluateExit(reg.Clone(), scenario)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenario.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
