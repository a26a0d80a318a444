package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ConversionTrigger identifies the event that converts a SAFE into equity.
type ConversionTrigger string

const (
	QualifiedFinancing ConversionTrigger = "qualified-financing"
	LiquidityEvent     ConversionTrigger = "liquidity-event"
	Maturity           ConversionTrigger = "maturity"
)

// ParseConversionTrigger parses a string into a ConversionTrigger.
func ParseConversionTrigger(s string) (ConversionTrigger, error) {
	switch ConversionTrigger(s) {
	case QualifiedFinancing, LiquidityEvent, Maturity:
		return ConversionTrigger(s), nil
	default:
		return "", fmt.Errorf("unknown conversion trigger: %q", s)
	}
}

// SAFETerms are the contractual terms of one SAFE instrument.
type SAFETerms struct {
	Principal           Money
	ValuationCap        Money           // zero when absent
	Discount            decimal.Decimal // in (0,1); zero when absent
	MFN                 bool
	Trigger             ConversionTrigger
	QualifyingThreshold Money // minimum new money for a qualified financing
}

// Validate rejects malformed SAFE terms before any computation runs.
func (t SAFETerms) Validate() error {
	if !t.Principal.IsPositive() {
		return &ValidationError{Msg: "SAFE principal must be positive"}
	}
	if t.ValuationCap.IsZero() && t.Discount.IsZero() {
		return &ValidationError{Msg: "SAFE needs a valuation cap or a discount"}
	}
	if !t.Discount.IsZero() {
		one := decimal.NewFromInt(1)
		if !t.Discount.IsPositive() || t.Discount.GreaterThanOrEqual(one) {
			return &ValidationError{Msg: fmt.Sprintf("SAFE discount %s must be in (0,1)", t.Discount)}
		}
	}
	if t.Trigger == "" {
		return &ValidationError{Msg: "SAFE conversion trigger is missing"}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for SAFETerms.
func (t SAFETerms) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("principal", t.Principal)
	w.Optional("valuationCap", t.ValuationCap)
	w.Optional("discount", t.Discount)
	w.Optional("mfn", t.MFN)
	w.Append("trigger", string(t.Trigger))
	w.Optional("qualifyingThreshold", t.QualifyingThreshold)
	return w.MarshalJSON()
}

// SAFENote is one outstanding SAFE held by an investor, recorded in the
// registry until a trigger event converts it.
type SAFENote struct {
	ID     string
	Holder string // Shareholder id
	Date   Date
	Terms  SAFETerms
}

// SAFETrigger describes the priced event that converts outstanding SAFEs.
type SAFETrigger struct {
	Trigger  ConversionTrigger
	PreMoney Money  // valuation of the trigger round; required
	NewMoney Money  // new money raised in the trigger round
	Class    string // ShareClass id the SAFEs convert into
}

// SAFEConversion is the outcome for a single SAFE note.
type SAFEConversion struct {
	Note      string // SAFENote id
	Holder    string
	Principal Money
	Price     Money  // conversion price actually applied
	Method    string // "round", "cap", "discount" or "mfn"
	Shares    Quantity
}

// ProRataRight notes an investor whose converted stake fell short of the
// trigger round's new-money ownership, with the gap they may top up.
type ProRataRight struct {
	Holder     string
	CurrentPct Percent
	TargetPct  Percent
}

// SAFEConversionResult is the structured outcome of converting one or more
// SAFEs at a trigger event.
type SAFEConversionResult struct {
	Price       Money // trigger round's implied price per share
	PreShares   Quantity // fully diluted shares before conversion
	Conversions []SAFEConversion
	TotalShares Quantity
	ProRata     []ProRataRight
	Warnings    []Warning
}

// conversionPrice applies the cap/discount strategy for one SAFE. It returns
// the candidate price and the method that produced it.
func conversionPrice(t SAFETerms, roundPrice Money, preShares Quantity) (Money, string) {
	price, method := roundPrice, "round"
	if !t.ValuationCap.IsZero() {
		capPrice := t.ValuationCap.Div(preShares)
		if capPrice.LessThan(price) {
			price, method = capPrice, "cap"
		}
	}
	if !t.Discount.IsZero() {
		discountPrice := roundPrice.MulDecimal(decimal.NewFromInt(1).Sub(t.Discount))
		if discountPrice.LessThan(price) {
			price, method = discountPrice, "discount"
		}
	}
	return price, method
}

// ConvertSAFEs converts every outstanding SAFE matching the trigger into
// shares of the trigger round's class. All SAFEs convert simultaneously
// against the same pre-conversion share count. The input registry is left
// untouched; the returned registry has the notes removed and the shares
// issued.
func ConvertSAFEs(reg *Registry, trig SAFETrigger) (*Registry, *SAFEConversionResult, error) {
	if trig.PreMoney.IsZero() {
		return nil, nil, validationErr(ErrMissingPreMoney, "cannot convert SAFEs: %v", ErrMissingPreMoney)
	}
	if reg.Class(trig.Class) == nil {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf("unknown conversion class %q", trig.Class)}
	}
	preShares := reg.FullyDilutedShares()
	if preShares.IsZero() {
		return nil, nil, computationErr("cannot convert SAFEs against an empty registry")
	}
	roundPrice := trig.PreMoney.Div(preShares)

	// Select the notes this trigger converts.
	var due []SAFENote
	for _, n := range reg.safes {
		if n.Terms.Trigger != trig.Trigger {
			continue
		}
		if trig.Trigger == QualifiedFinancing && !n.Terms.QualifyingThreshold.IsZero() &&
			trig.NewMoney.LessThan(n.Terms.QualifyingThreshold) {
			continue
		}
		due = append(due, n)
	}

	result := &SAFEConversionResult{Price: roundPrice, PreShares: preShares}
	if len(due) == 0 {
		return reg.Clone(), result, nil
	}

	// First pass: each SAFE's own cap/discount price.
	prices := make([]Money, len(due))
	methods := make([]string, len(due))
	for i, n := range due {
		if err := n.Terms.Validate(); err != nil {
			return nil, nil, err
		}
		prices[i], methods[i] = conversionPrice(n.Terms, roundPrice, preShares)
	}

	// Second pass: most-favored-nation takes the best price any co-converting
	// SAFE achieved.
	best := roundPrice
	for _, p := range prices {
		best = Min(best, p)
	}
	for i, n := range due {
		if n.Terms.MFN && best.LessThan(prices[i]) {
			prices[i], methods[i] = best, "mfn"
			result.Warnings = append(result.Warnings,
				warnf(WarnMFN, "SAFE %s converted at MFN price %s", n.ID, best))
		}
	}

	next := reg.Clone()
	class := next.Class(trig.Class)
	for i, n := range due {
		shares := n.Terms.Principal.DivPrice(prices[i])
		result.Conversions = append(result.Conversions, SAFEConversion{
			Note:      n.ID,
			Holder:    n.Holder,
			Principal: n.Terms.Principal,
			Price:     prices[i],
			Method:    methods[i],
			Shares:    shares,
		})
		result.TotalShares = result.TotalShares.Add(shares)

		holder := next.ensureHolder(n.Holder, n.Holder, Investor)
		next.addShares(holder, Holding{Class: class.ID, Shares: shares, GrantDate: n.Date})
		class.Invested = class.Invested.Add(n.Terms.Principal)
		if next.safePrincipal == nil {
			next.safePrincipal = make(map[string]Money)
		}
		next.safePrincipal[n.Holder] = next.safePrincipal[n.Holder].Add(n.Terms.Principal)
	}
	// Conversion shares are newly authorized, like a round's (issued must stay
	// within authorized).
	class.Authorized = class.Authorized.Add(result.TotalShares)

	// Remove the converted notes.
	kept := next.safes[:0]
	for _, n := range next.safes {
		converted := false
		for _, d := range due {
			if d.ID == n.ID {
				converted = true
				break
			}
		}
		if !converted {
			kept = append(kept, n)
		}
	}
	next.safes = kept

	// Pro-rata shortfalls against the round's new-money ownership.
	if !trig.NewMoney.IsZero() {
		post := trig.PreMoney.Add(trig.NewMoney)
		targetPct := Percent{value: trig.NewMoney.Ratio(post).Mul(decimal.NewFromInt(100))}
		postShares := preShares.Add(result.TotalShares)
		for _, c := range result.Conversions {
			got := PercentOf(c.Shares, postShares)
			if got.LessThan(targetPct) {
				result.ProRata = append(result.ProRata, ProRataRight{
					Holder:     c.Holder,
					CurrentPct: got,
					TargetPct:  targetPct,
				})
			}
		}
	}

	return next, result, nil
}
