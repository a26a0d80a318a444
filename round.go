package captable

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PoolAdjustment asks a priced round to top the option pool up to a target
// percentage, before or after the new money.
type PoolAdjustment struct {
	TargetPct Percent
	PreMoney  bool
}

// PricedRound describes a priced equity financing to apply to a registry.
// Exactly one of PreMoney, PostMoney or SharePrice must be set; the other two
// are derived.
type PricedRound struct {
	ID               string
	Date             Date
	Amount           Money
	PreMoney         Money
	PostMoney        Money
	SharePrice       Money
	Class            ShareClass // terms of the class issued; created when unknown
	Pool             *PoolAdjustment
	Investors        []InvestorRecord
	FounderSecondary Money // optional founder secondary component, informational
}

// PoolSummary reports the option pool before and after a round.
type PoolSummary struct {
	Before    Quantity
	After     Quantity
	BeforePct Percent
	AfterPct  Percent
}

// HolderDilution is one shareholder's ownership before and after a round.
type HolderDilution struct {
	Holder   string
	Name     string
	Before   Percent
	After    Percent
	Dilution Percent // percentage points lost
}

// RoundResult is the structured outcome of a priced round.
type RoundResult struct {
	Round      string
	Amount     Money
	PreMoney   Money
	PostMoney  Money
	SharePrice Money
	NewShares  Quantity
	PoolShares Quantity // pool top-up issued by the round
	Pool       *PoolSummary
	Holders    []HolderDilution

	// FounderDilution is the percentage points founders lost across the
	// round. InvestorDilution is how far the incoming investors landed below
	// the round's new-money percentage; a pre-money pool leaves it at zero,
	// a post-money pool does not.
	FounderDilution  Percent
	InvestorDilution Percent

	Warnings []Warning
}

// preMoneyPoolShares solves the joint pre-money pool equation: the unissued
// pool after top-up must equal pct of the pre-money share base including the
// top-up itself, before new investor shares are layered on. With S the
// pre-round fully diluted count and E the existing unissued pool, the top-up
// P satisfies E + P = pct x (S + P), so P = (pct x S - E) / (1 - pct).
// Sizing against the pre-money base (and pricing the round off S + P) is what
// distinguishes this from the naive sequential computation that layers
// investor shares first and over-sizes the pool.
func preMoneyPoolShares(s, e Quantity, pct Percent) Quantity {
	f := pct.Fraction()
	p := s.Decimal().Mul(f).Sub(e.Decimal()).Div(decimal.NewFromInt(1).Sub(f))
	if p.IsNegative() {
		return Q(0)
	}
	return Quantity{value: p}
}

// ApplyPricedRound applies a priced equity round to a registry snapshot and
// returns the new snapshot plus a structured result. The input registry is
// never modified.
func ApplyPricedRound(reg *Registry, round PricedRound) (*Registry, *RoundResult, error) {
	if !round.Amount.IsPositive() {
		return nil, nil, &ValidationError{Msg: "round amount must be positive"}
	}
	given := 0
	for _, m := range []Money{round.PreMoney, round.PostMoney, round.SharePrice} {
		if !m.IsZero() {
			given++
		}
	}
	if given != 1 {
		return nil, nil, validationErr(ErrAmbiguousValuation, "round %q: %v", round.ID, ErrAmbiguousValuation)
	}
	if round.Class.ID == "" {
		return nil, nil, &ValidationError{Msg: "round must name the share class it issues"}
	}
	if len(round.Investors) == 0 {
		return nil, nil, &ValidationError{Msg: "round has no investors"}
	}
	invested := reg.money()
	for _, inv := range round.Investors {
		if !inv.Amount.IsPositive() {
			return nil, nil, &ValidationError{Msg: fmt.Sprintf("investor %q amount must be positive", inv.Holder)}
		}
		invested = invested.Add(inv.Amount)
	}
	if !invested.Equal(round.Amount) {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf(
			"investor amounts sum to %s, round amount is %s", invested, round.Amount)}
	}
	if round.ID == "" {
		round.ID = uuid.NewString()
	}

	s := reg.FullyDilutedShares()
	if s.IsZero() {
		return nil, nil, computationErr("cannot price a round on an empty registry")
	}
	var e Quantity
	if reg.pool != nil {
		e = reg.pool.Unissued()
	}

	// Pre-money pool top-up is sized jointly with the round, not sequentially.
	var poolShares Quantity
	if round.Pool != nil && round.Pool.PreMoney {
		if err := validPoolPct(round.Pool.TargetPct); err != nil {
			return nil, nil, err
		}
		poolShares = preMoneyPoolShares(s, e, round.Pool.TargetPct)
	}
	priceBase := s.Add(poolShares)

	// Derive the two missing valuation figures from whichever is given.
	var price, preMoney Money
	switch {
	case !round.SharePrice.IsZero():
		price = round.SharePrice
		preMoney = price.Mul(priceBase)
	case !round.PreMoney.IsZero():
		preMoney = round.PreMoney
		price = preMoney.Div(priceBase)
	default:
		preMoney = round.PostMoney.Sub(round.Amount)
		if !preMoney.IsPositive() {
			return nil, nil, &ValidationError{Msg: "post-money valuation must exceed the round amount"}
		}
		price = preMoney.Div(priceBase)
	}
	postMoney := preMoney.Add(round.Amount)
	newShares := round.Amount.DivPrice(price)

	next := reg.Clone()

	// Issue or extend the round's class.
	class := next.Class(round.Class.ID)
	if class == nil {
		c := round.Class
		if c.Kind == "" {
			c.Kind = Preferred
		}
		if c.ConversionRatio.IsZero() {
			c.ConversionRatio = decimal.NewFromInt(1)
		}
		if c.LiquidationPref.IsZero() && c.Kind == Preferred {
			c.LiquidationPref = decimal.NewFromInt(1)
		}
		c.Authorized = newShares
		c.IssuePrice = price
		if err := next.addClass(c); err != nil {
			return nil, nil, err
		}
		class = next.Class(c.ID)
	} else {
		class.Authorized = class.Authorized.Add(newShares)
		if class.IssuePrice.IsZero() {
			class.IssuePrice = price
		}
	}
	class.Invested = class.Invested.Add(round.Amount)

	for _, inv := range round.Investors {
		holder := next.ensureHolder(inv.Holder, inv.Holder, Investor)
		next.addShares(holder, Holding{
			Class:     class.ID,
			Shares:    inv.Amount.DivPrice(price),
			GrantDate: round.Date,
		})
	}

	// Pool adjustments: pre-money shares were sized above; post-money tops up
	// after the investors are in, diluting everyone pro-rata.
	if round.Pool != nil && !round.Pool.PreMoney {
		if err := validPoolPct(round.Pool.TargetPct); err != nil {
			return nil, nil, err
		}
		target := poolTarget(s.Add(newShares), round.Pool.TargetPct, false)
		if target.GreaterThan(e) {
			poolShares = target.Sub(e)
		}
	}
	if !poolShares.IsZero() {
		if next.pool == nil {
			poolClass := "esop"
			if next.Class(poolClass) == nil {
				err := next.addClass(ShareClass{
					ID:              poolClass,
					Name:            "Option Pool",
					Kind:            Option,
					Authorized:      poolShares,
					ConversionRatio: decimal.NewFromInt(1),
				})
				if err != nil {
					return nil, nil, err
				}
			}
			next.pool = &OptionPool{Class: poolClass, PreMoney: round.Pool.PreMoney}
		}
		pool := next.pool
		pool.Total = pool.Total.Add(poolShares)
		pool.Available = pool.Available.Add(poolShares)
		pool.LastRefreshPct = round.Pool.TargetPct
		if c := next.Class(pool.Class); c.Authorized.LessThan(pool.Total) {
			c.Authorized = pool.Total
		}
		if err := pool.check(); err != nil {
			return nil, nil, err
		}
	}

	next.rounds = append(next.rounds, RoundRecord{
		ID:         round.ID,
		Date:       round.Date,
		Amount:     round.Amount,
		PreMoney:   preMoney,
		PostMoney:  postMoney,
		SharePrice: price,
		Class:      class.ID,
		Investors:  round.Investors,
	})

	result := &RoundResult{
		Round:      round.ID,
		Amount:     round.Amount,
		PreMoney:   preMoney,
		PostMoney:  postMoney,
		SharePrice: price,
		NewShares:  newShares,
		PoolShares: poolShares,
		Holders:    holderDilution(reg, next),
	}
	before := reg.ownershipByRole()
	after := next.ownershipByRole()
	result.FounderDilution = before[Founder].Sub(after[Founder])
	newMoneyPct := Percent{value: round.Amount.Ratio(postMoney).Mul(decimal.NewFromInt(100))}
	result.InvestorDilution = newMoneyPct.Sub(PercentOf(newShares, next.FullyDilutedShares()))
	if round.Pool != nil {
		after := next.pool.Unissued()
		result.Pool = &PoolSummary{
			Before:    e,
			After:     after,
			BeforePct: PercentOf(e, s),
			AfterPct:  PercentOf(after, next.FullyDilutedShares()),
		}
	}

	// Advisory findings; they never block the round.
	if last := reg.LastRound(); last != nil && price.LessThan(last.SharePrice) {
		result.Warnings = append(result.Warnings, warnf(WarnDownRound,
			"price %s is below the previous round's %s", price, last.SharePrice))
	}
	existingAfter := PercentOf(s, next.FullyDilutedShares())
	if existingAfter.LessThan(Pct(50)) {
		result.Warnings = append(result.Warnings, warnf(WarnHighDilution,
			"existing holders retain only %s of the fully diluted table", existingAfter))
	}

	return next, result, nil
}

// holderDilution compares per-holder fully diluted ownership across two
// snapshots. Holders appearing only in the new snapshot have zero before.
func holderDilution(before, after *Registry) []HolderDilution {
	fdBefore := before.FullyDilutedShares()
	fdAfter := after.FullyDilutedShares()
	out := make([]HolderDilution, 0, len(after.holders))
	for _, h := range after.holders {
		var b Percent
		if prev := before.Holder(h.ID); prev != nil {
			b = PercentOf(prev.Shares(), fdBefore)
		}
		a := PercentOf(h.Shares(), fdAfter)
		out = append(out, HolderDilution{
			Holder:   h.ID,
			Name:     h.Name,
			Before:   b,
			After:    a,
			Dilution: b.Sub(a),
		})
	}
	return out
}
