package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DilutionAnalysis reports the ownership effect of a pool operation.
// FounderDilution and InvestorDilution are in percentage points of the fully
// diluted table (before minus after).
type DilutionAnalysis struct {
	Op               string
	ShareDelta       Quantity
	FounderDilution  Percent
	InvestorDilution Percent
	PoolPct          Percent // unissued pool as a share of the fully diluted table
}

// dilutionBetween compares role ownership across two snapshots.
func dilutionBetween(op string, before, after *Registry, delta Quantity) *DilutionAnalysis {
	b := before.ownershipByRole()
	a := after.ownershipByRole()
	da := &DilutionAnalysis{
		Op:               op,
		ShareDelta:       delta,
		FounderDilution:  b[Founder].Sub(a[Founder]),
		InvestorDilution: b[Investor].Sub(a[Investor]),
	}
	if pool := after.pool; pool != nil {
		da.PoolPct = PercentOf(pool.Unissued(), after.FullyDilutedShares())
	}
	return da
}

// poolTarget computes the pool size for a target percentage of base shares
// under the given timing semantics.
//
// Pre-money sizing solves pool = pct x (base + pool), so only the existing
// (pre-round) holders absorb the dilution; the closed form is
// base x pct / (1 - pct). Post-money sizing is base x pct, diluting everyone
// who is on the table at that point pro-rata.
func poolTarget(base Quantity, pct Percent, preMoney bool) Quantity {
	f := pct.Fraction()
	if preMoney {
		return base.MulDecimal(f.Div(decimal.NewFromInt(1).Sub(f)))
	}
	return base.MulDecimal(f)
}

func validPoolPct(pct Percent) error {
	f := pct.Fraction()
	if !f.IsPositive() || f.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return &ValidationError{Msg: fmt.Sprintf("pool percentage %s must be in (0%%,100%%)", pct)}
	}
	return nil
}

// CreatePool reserves an employee option pool sized at pct of the cap table,
// backed by an option share class created on demand.
func CreatePool(reg *Registry, classID string, pct Percent, preMoney bool) (*Registry, *DilutionAnalysis, error) {
	if err := validPoolPct(pct); err != nil {
		return nil, nil, err
	}
	if reg.pool != nil {
		return nil, nil, &ValidationError{Msg: "option pool already exists, use refresh"}
	}
	base := reg.FullyDilutedShares()
	if base.IsZero() {
		return nil, nil, computationErr("cannot size a pool on an empty registry")
	}

	size := poolTarget(base, pct, preMoney)
	next := reg.Clone()
	if next.Class(classID) == nil {
		err := next.addClass(ShareClass{
			ID:              classID,
			Name:            "Option Pool",
			Kind:            Option,
			Authorized:      size,
			ConversionRatio: decimal.NewFromInt(1),
		})
		if err != nil {
			return nil, nil, err
		}
	}
	next.pool = &OptionPool{
		Class:          classID,
		Total:          size,
		Available:      size,
		PreMoney:       preMoney,
		LastRefreshPct: pct,
	}
	if err := next.pool.check(); err != nil {
		return nil, nil, err
	}
	return next, dilutionBetween("create", reg, next, size), nil
}

// RefreshPool resizes the pool to a target percentage of the current cap
// table under the pool's original timing semantics, issuing only the
// incremental shares needed. A pool never shrinks: when the target is below
// the current size, the pool is left as is.
func RefreshPool(reg *Registry, pct Percent) (*Registry, *DilutionAnalysis, error) {
	if err := validPoolPct(pct); err != nil {
		return nil, nil, err
	}
	if reg.pool == nil {
		return nil, nil, &ValidationError{Msg: "no option pool to refresh"}
	}
	// The sizing base is everything outside the unissued pool, so refresh and
	// create agree on identical tables.
	base := reg.FullyDilutedShares().Sub(reg.pool.Unissued())
	target := poolTarget(base, pct, reg.pool.PreMoney)

	next := reg.Clone()
	pool := next.pool
	pool.LastRefreshPct = pct
	var delta Quantity
	if target.GreaterThan(pool.Total) {
		delta = target.Sub(pool.Total)
		pool.Total = pool.Total.Add(delta)
		pool.Available = pool.Available.Add(delta)
		if c := next.Class(pool.Class); c.Authorized.LessThan(pool.Total) {
			c.Authorized = pool.Total
		}
	}
	if err := pool.check(); err != nil {
		return nil, nil, err
	}
	return next, dilutionBetween("refresh", reg, next, delta), nil
}

// GrantOptions moves shares from available to allocated for one grantee.
// Granting has no dilution effect: the shares were reserved at pool sizing.
func GrantOptions(reg *Registry, grant OptionGrant) (*Registry, *DilutionAnalysis, error) {
	if reg.pool == nil {
		return nil, nil, &ValidationError{Msg: "no option pool to grant from"}
	}
	if !grant.Shares.IsPositive() {
		return nil, nil, &ValidationError{Msg: "grant shares must be positive"}
	}
	if reg.pool.Available.LessThan(grant.Shares) {
		return nil, nil, validationErr(ErrInsufficientPool,
			"cannot grant %s shares: only %s available", grant.Shares, reg.pool.Available)
	}

	next := reg.Clone()
	pool := next.pool
	pool.Available = pool.Available.Sub(grant.Shares)
	pool.Allocated = pool.Allocated.Add(grant.Shares)
	pool.Grants = append(pool.Grants, grant)
	next.ensureHolder(grant.Holder, grant.Holder, Employee)
	if err := pool.check(); err != nil {
		return nil, nil, err
	}
	return next, dilutionBetween("grant", reg, next, Q(0)), nil
}

// ExerciseOptions converts allocated shares of one grantee into issued option
// shares. Exercising has no dilution effect either: the shares were already
// counted in fully diluted totals.
func ExerciseOptions(reg *Registry, holderID string, shares Quantity, on Date) (*Registry, *DilutionAnalysis, error) {
	if reg.pool == nil {
		return nil, nil, &ValidationError{Msg: "no option pool to exercise from"}
	}
	if !shares.IsPositive() {
		return nil, nil, &ValidationError{Msg: "exercise shares must be positive"}
	}

	next := reg.Clone()
	pool := next.pool
	remaining := shares
	var exercisePrice Money
	kept := pool.Grants[:0]
	for _, g := range pool.Grants {
		if g.Holder != holderID || remaining.IsZero() {
			kept = append(kept, g)
			continue
		}
		take := remaining
		if g.Shares.LessThan(take) {
			take = g.Shares
		}
		g.Shares = g.Shares.Sub(take)
		remaining = remaining.Sub(take)
		exercisePrice = g.ExercisePrice
		if g.Shares.IsPositive() {
			kept = append(kept, g)
		}
	}
	pool.Grants = kept
	if remaining.IsPositive() {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf(
			"holder %q has fewer than %s granted shares", holderID, shares)}
	}

	pool.Allocated = pool.Allocated.Sub(shares)
	pool.Exercised = pool.Exercised.Add(shares)
	holder := next.ensureHolder(holderID, holderID, Employee)
	next.addShares(holder, Holding{
		Class:         pool.Class,
		Shares:        shares,
		ExercisePrice: exercisePrice,
		GrantDate:     on,
	})
	if err := pool.check(); err != nil {
		return nil, nil, err
	}
	return next, dilutionBetween("exercise", reg, next, Q(0)), nil
}
