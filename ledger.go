package captable

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Ledger represents the company's financing history.
//
// In a Ledger events are always in chronological order.
type Ledger struct {
	currency string
	events   []Event
}

// NewLedger creates an empty ledger reporting in the given currency.
func NewLedger(currency string) *Ledger {
	if currency == "" {
		currency = "USD"
	}
	return &Ledger{currency: currency}
}

// Currency returns the ledger's reporting currency.
func (l *Ledger) Currency() string { return l.currency }

// Events returns the events in chronological order.
func (l *Ledger) Events() []Event { return l.events }

// Append adds events to the ledger, keeping it chronologically sorted.
func (l *Ledger) Append(events ...Event) {
	l.events = append(l.events, events...)
	l.stableSort()
}

// stableSort keeps same-day events in insertion order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.events, func(i, j int) bool {
		return l.events[i].When().Before(l.events[j].When())
	})
}

// Checkpoint is one step of a ledger replay: the event, the registry
// snapshot after it, and the calculator's structured result when the event
// produced one. Snapshots are never mutated afterwards, so the slice of
// checkpoints is a complete audit trail.
type Checkpoint struct {
	Event    Event
	Registry *Registry
	Result   any
}

// Replay folds the ledger's events forward chronologically through the
// matching calculators and returns the final registry plus the per-event
// checkpoints. The zero registry every replay starts from makes the fold
// deterministic: the same ledger always produces the same snapshots.
func (l *Ledger) Replay() (*Registry, []Checkpoint, error) {
	reg := NewRegistry(l.currency)
	checkpoints := make([]Checkpoint, 0, len(l.events))

	for _, e := range l.events {
		if err := e.Validate(reg); err != nil {
			return nil, nil, fmt.Errorf("%s on %s: %w", e.What(), e.When(), err)
		}
		var (
			next   *Registry
			result any
			err    error
		)
		switch v := e.(type) {
		case Found:
			next, err = v.apply(reg)
		case SAFEIssue:
			next, err = v.apply(reg)
		case Round:
			next, result, err = l.applyRound(reg, v)
		case PoolCreate:
			next, result, err = CreatePool(reg, v.Class, v.Pct, v.PreMoney)
		case PoolRefresh:
			next, result, err = RefreshPool(reg, v.Pct)
		case Grant:
			next, result, err = GrantOptions(reg, OptionGrant{
				Holder:        v.Holder,
				Shares:        v.Shares,
				ExercisePrice: v.ExercisePrice,
				Date:          v.Date,
			})
		case Exercise:
			next, result, err = ExerciseOptions(reg, v.Holder, v.Shares, v.Date)
		case SecondarySale:
			next, result, err = ApplySecondary(reg, v.SecondaryTransaction)
		case Exit:
			// Exits never change the registry; the evaluation is recorded.
			result, err = EvaluateExit(reg, v.ExitScenario)
			next = reg
		default:
			err = fmt.Errorf("unknown event type %T", e)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s on %s: %w", e.What(), e.When(), err)
		}
		reg = next
		checkpoints = append(checkpoints, Checkpoint{Event: e, Registry: reg, Result: result})
	}
	return reg, checkpoints, nil
}

// roundOutcome bundles the SAFE conversion (when one happened) with the
// priced round result, so a replay checkpoint carries both.
type roundOutcome struct {
	SAFEs *SAFEConversionResult
	Round *RoundResult
}

// applyRound converts due SAFEs at the round's pre-money and then applies
// the priced round to the post-conversion snapshot.
func (l *Ledger) applyRound(reg *Registry, v Round) (*Registry, any, error) {
	outcome := &roundOutcome{}
	if len(reg.SAFEs()) > 0 {
		// The trigger prices off the pre-money; derive it when the round is
		// specified via post-money or share price instead.
		preMoney := v.PreMoney
		if preMoney.IsZero() && !v.PostMoney.IsZero() {
			preMoney = v.PostMoney.Sub(v.Amount)
		}
		if preMoney.IsZero() && !v.SharePrice.IsZero() {
			preMoney = v.SharePrice.Mul(reg.FullyDilutedShares())
		}
		if !preMoney.IsPositive() {
			return nil, nil, validationErr(ErrMissingPreMoney,
				"cannot convert SAFEs for round %q: %v", v.ID, ErrMissingPreMoney)
		}
		// The round's class must exist before the notes can convert into it.
		if reg.Class(v.PricedRound.Class.ID) == nil {
			reg = reg.Clone()
			c := v.PricedRound.Class
			if c.Kind == "" {
				c.Kind = Preferred
			}
			if c.ConversionRatio.IsZero() {
				c.ConversionRatio = decimal.NewFromInt(1)
			}
			if c.LiquidationPref.IsZero() && c.Kind == Preferred {
				c.LiquidationPref = decimal.NewFromInt(1)
			}
			if err := reg.addClass(c); err != nil {
				return nil, nil, err
			}
		}
		var err error
		reg, outcome.SAFEs, err = ConvertSAFEs(reg, SAFETrigger{
			Trigger:  QualifiedFinancing,
			PreMoney: preMoney,
			NewMoney: v.Amount,
			Class:    v.PricedRound.Class.ID,
		})
		if err != nil {
			return nil, nil, err
		}
	}
	next, result, err := ApplyPricedRound(reg, v.PricedRound)
	if err != nil {
		return nil, nil, err
	}
	outcome.Round = result
	return next, outcome, nil
}
