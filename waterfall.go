package captable

import "sort"

// DistributionSource identifies which waterfall step paid an amount.
type DistributionSource string

const (
	FromPreference    DistributionSource = "liquidation-preference"
	FromParticipation DistributionSource = "participation"
	FromCommon        DistributionSource = "common"
)

// Distribution is one payout line of the waterfall.
type Distribution struct {
	Holder string
	Class  string
	Amount Money
	Source DistributionSource
}

// WaterfallResult is the ordered outcome of a liquidation waterfall.
type WaterfallResult struct {
	ExitValue        Money
	Distributions    []Distribution
	TotalDistributed Money
	Remaining        Money // undistributed value; ~0 barring empty classes
	Converted        []string // non-participating classes that chose conversion
}

// classState is the waterfall's working view of one preferred class.
type classState struct {
	class     *ShareClass
	shares    Quantity
	pref      Money // total preference amount for the class
	paid      Money // cumulative payout, for participation caps
	converted bool  // class elected to convert to common instead
}

// preferenceAmount is shares x issue price x preference multiple, limited by
// the liquidation cap (a multiple of invested) when one is set.
func preferenceAmount(c *ShareClass, shares Quantity) Money {
	amount := c.prefPerShare().Mul(shares)
	if !c.LiquidationCap.IsZero() {
		amount = Min(amount, c.Invested.MulDecimal(c.LiquidationCap))
	}
	return amount
}

// Waterfall distributes an exit value across liquidation preference tiers,
// participation rights and common stock, respecting seniority order. Only
// issued shares participate; an unexercised option pool receives nothing.
//
// Non-participating preferred takes the greater of its preference and its
// as-converted common value, deciding once against the full exit value.
func Waterfall(reg *Registry, exitValue Money) (*WaterfallResult, error) {
	if exitValue.IsNegative() {
		return nil, &ValidationError{Msg: "exit value must not be negative"}
	}
	if reg.TotalShares().IsZero() {
		return nil, computationErr("cannot run a waterfall on an empty registry")
	}

	result := &WaterfallResult{ExitValue: exitValue, TotalDistributed: reg.money()}
	remaining := exitValue

	// As-converted base across all issued shares, for conversion elections
	// and the residual distribution.
	asConverted := Q(0)
	for _, c := range reg.classes {
		asConverted = asConverted.Add(c.asCommon(reg.ClassShares(c.ID)))
	}

	// Working state for preference-bearing classes.
	var prefs []*classState
	for i := range reg.classes {
		c := &reg.classes[i]
		shares := reg.ClassShares(c.ID)
		if c.LiquidationPref.IsZero() || shares.IsZero() {
			continue
		}
		st := &classState{class: c, shares: shares, pref: preferenceAmount(c, shares), paid: reg.money()}
		if !c.Participating {
			// Conversion election: as-converted value against the whole exit.
			conv := exitValue.MulDecimal(c.asCommon(shares).Ratio(asConverted))
			if conv.GreaterThan(st.pref) {
				st.converted = true
				result.Converted = append(result.Converted, c.ID)
			}
		}
		prefs = append(prefs, st)
	}

	// Step 1: preference tiers, lower seniority rank paid first. Classes
	// sharing a rank form one tier and are cut back pro-rata by preference
	// amount when the tier cannot be paid in full.
	active := make([]*classState, 0, len(prefs))
	for _, st := range prefs {
		if !st.converted {
			active = append(active, st)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].class.Seniority < active[j].class.Seniority
	})
	for i := 0; i < len(active) && remaining.IsPositive(); {
		j := i
		tierPref := reg.money()
		for ; j < len(active) && active[j].class.Seniority == active[i].class.Seniority; j++ {
			tierPref = tierPref.Add(active[j].pref)
		}
		tierPay := Min(tierPref, remaining)
		for k := i; k < j; k++ {
			st := active[k]
			classPay := tierPay.MulDecimal(st.pref.Ratio(tierPref))
			payClass(reg, result, st, classPay, FromPreference)
			remaining = remaining.Sub(classPay)
		}
		i = j
	}

	// Step 2: participation. Participating preferred shares the remainder
	// pro-rata with common by as-converted count, each class capped at its
	// participation cap (a multiple of invested, counting preference already
	// paid). Capped excess falls through to common.
	if remaining.IsPositive() {
		participating := make([]*classState, 0, len(prefs))
		for _, st := range prefs {
			if st.class.Participating && !st.converted {
				participating = append(participating, st)
			}
		}
		for _, st := range participating {
			slice := remaining.MulDecimal(st.class.asCommon(st.shares).Ratio(asConverted))
			if !st.class.ParticipationCap.IsZero() {
				capTotal := st.class.Invested.MulDecimal(st.class.ParticipationCap)
				room := capTotal.Sub(st.paid)
				if room.IsNegative() {
					room = reg.money()
				}
				slice = Min(slice, room)
			}
			payClass(reg, result, st, slice, FromParticipation)
		}
		remaining = exitValue.Sub(result.TotalDistributed)
	}

	// Step 3: everything left goes to common, with converted preferred
	// joining at its conversion ratio.
	if remaining.IsPositive() {
		base := Q(0)
		type commonLeg struct {
			holder string
			class  string
			equiv  Quantity
		}
		var legs []commonLeg
		for _, c := range reg.classes {
			// Issued option shares (exercised grants) rank with common; the
			// unexercised pool holds no issued shares and gets nothing.
			isCommon := c.Kind == Common || c.Kind == Option
			for _, st := range prefs {
				if st.class.ID == c.ID && st.converted {
					isCommon = true
				}
			}
			if !isCommon {
				continue
			}
			for _, h := range reg.holders {
				shares := h.SharesOf(c.ID)
				if shares.IsZero() {
					continue
				}
				equiv := c.asCommon(shares)
				legs = append(legs, commonLeg{holder: h.ID, class: c.ID, equiv: equiv})
				base = base.Add(equiv)
			}
		}
		if !base.IsZero() {
			for _, leg := range legs {
				amount := remaining.MulDecimal(leg.equiv.Ratio(base))
				result.Distributions = append(result.Distributions, Distribution{
					Holder: leg.holder,
					Class:  leg.class,
					Amount: amount,
					Source: FromCommon,
				})
				result.TotalDistributed = result.TotalDistributed.Add(amount)
			}
		}
	}

	result.Remaining = exitValue.Sub(result.TotalDistributed)
	return result, nil
}

// payClass distributes a class-level amount pro-rata to the class's holders.
func payClass(reg *Registry, result *WaterfallResult, st *classState, amount Money, source DistributionSource) {
	if !amount.IsPositive() {
		return
	}
	for _, h := range reg.holders {
		shares := h.SharesOf(st.class.ID)
		if shares.IsZero() {
			continue
		}
		part := amount.MulDecimal(shares.Ratio(st.shares))
		result.Distributions = append(result.Distributions, Distribution{
			Holder: h.ID,
			Class:  st.class.ID,
			Amount: part,
			Source: source,
		})
		result.TotalDistributed = result.TotalDistributed.Add(part)
	}
	st.paid = st.paid.Add(amount)
}
