package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DownRound describes the new financing a protected class is adjusted for.
type DownRound struct {
	Price  Money    // new round price per share
	Amount Money    // new money raised
	Shares Quantity // shares issued in the new round
}

// AntiDilutionResult reports the adjustment applied to a protected class.
type AntiDilutionResult struct {
	Class           string
	Kind            AntiDilutionKind
	OriginalPrice   Money
	NewPrice        Money
	Ratio           decimal.Decimal // 1 when no adjustment triggers
	OriginalShares  Quantity
	AdjustedShares  Quantity
	ConversionRatio decimal.Decimal // class conversion ratio after adjustment
}

// ApplyAntiDilution recomputes a protected class's position after a down
// round. On an up round (new price at or above the original issue price) the
// registry is returned unchanged and the ratio is 1: anti-dilution only
// triggers on down rounds.
//
// Weighted-average uses the standard formula NP = (A*P0 + amount) / (A + C)
// where A is the pre-round base (common outstanding, widened to the option
// pool and other convertibles for the broad variant), P0 the original issue
// price and C the shares issued in the new round; the adjustment ratio is
// P0/NP. Full-ratchet uses P0/newPrice directly.
//
// carveOut lists class ids excluded from the weighted-average base.
func ApplyAntiDilution(reg *Registry, classID string, round DownRound, carveOut []string) (*Registry, *AntiDilutionResult, error) {
	class := reg.Class(classID)
	if class == nil {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf("unknown share class %q", classID)}
	}
	if class.AntiDilution == "" || class.AntiDilution == NoAntiDilution {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf("class %q carries no anti-dilution protection", classID)}
	}
	if class.IssuePrice.IsZero() {
		return nil, nil, computationErr("class %q has no recorded original issue price", classID)
	}
	if !round.Price.IsPositive() {
		return nil, nil, &ValidationError{Msg: "down round price must be positive"}
	}

	one := decimal.NewFromInt(1)
	shares := reg.ClassShares(classID)
	result := &AntiDilutionResult{
		Class:           classID,
		Kind:            class.AntiDilution,
		OriginalPrice:   class.IssuePrice,
		NewPrice:        round.Price,
		Ratio:           one,
		OriginalShares:  shares,
		AdjustedShares:  shares,
		ConversionRatio: class.ConversionRatio,
	}

	if round.Price.GreaterThanOrEqual(class.IssuePrice) {
		return reg.Clone(), result, nil
	}

	switch class.AntiDilution {
	case FullRatchet:
		result.Ratio = class.IssuePrice.Ratio(round.Price)
	case WeightedAverageNarrow, WeightedAverageBroad:
		base := reg.CommonShares()
		if class.AntiDilution == WeightedAverageBroad {
			if reg.pool != nil {
				base = base.Add(reg.pool.Unissued())
			}
			base = base.Add(reg.convertibleShares())
		}
		for _, id := range carveOut {
			c := reg.Class(id)
			if c == nil {
				return nil, nil, &ValidationError{Msg: fmt.Sprintf("unknown carve-out class %q", id)}
			}
			base = base.Sub(c.asCommon(reg.ClassShares(id)))
		}
		if !base.IsPositive() {
			return nil, nil, computationErr("weighted-average base is empty after carve-outs")
		}
		// NP = (A*P0 + amount) / (A + C)
		numerator := base.Decimal().Mul(class.IssuePrice.Decimal()).Add(round.Amount.Decimal())
		denominator := base.Decimal().Add(round.Shares.Decimal())
		newPriceAfter := numerator.Div(denominator)
		result.Ratio = class.IssuePrice.Decimal().Div(newPriceAfter)
	}

	result.AdjustedShares = shares.MulDecimal(result.Ratio)
	convRatio := class.ConversionRatio
	if convRatio.IsZero() {
		convRatio = one
	}
	result.ConversionRatio = convRatio.Mul(result.Ratio)

	next := reg.Clone()
	nc := next.Class(classID)
	nc.ConversionRatio = result.ConversionRatio
	// Scale every holding of the protected class by the adjustment ratio.
	for i := range next.holders {
		h := &next.holders[i]
		for j := range h.Holdings {
			if h.Holdings[j].Class == classID {
				h.Holdings[j].Shares = h.Holdings[j].Shares.MulDecimal(result.Ratio)
			}
		}
	}
	if nc.Authorized.LessThan(result.AdjustedShares) {
		nc.Authorized = result.AdjustedShares
	}

	return next, result, nil
}
