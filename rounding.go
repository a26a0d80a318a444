package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundingMethod selects how values are rounded at the output boundary.
type RoundingMethod int

const (
	// RoundNearest rounds half away from zero.
	RoundNearest RoundingMethod = iota
	// RoundDown always rounds toward zero (floor for positive values).
	RoundDown
	// RoundUp always rounds away from zero (ceiling for positive values).
	RoundUp
)

func (m RoundingMethod) String() string {
	switch m {
	case RoundNearest:
		return "nearest"
	case RoundDown:
		return "down"
	case RoundUp:
		return "up"
	default:
		return "unknown"
	}
}

// ParseRoundingMethod parses a string into a RoundingMethod.
func ParseRoundingMethod(s string) (RoundingMethod, error) {
	switch s {
	case "nearest":
		return RoundNearest, nil
	case "down":
		return RoundDown, nil
	case "up":
		return RoundUp, nil
	default:
		return 0, fmt.Errorf("unknown rounding method: %q", s)
	}
}

// Rounding is the single policy every calculator routes externally-reported
// numbers through, exactly once, at the output boundary. Internal computation
// stays at full decimal precision so rounding error never compounds.
type Rounding struct {
	Method RoundingMethod
	// decimal places per reported domain
	OwnershipPlaces int // ownership percentages
	SharePlaces     int // share counts
	CurrencyPlaces  int // monetary amounts
	MultiplePlaces  int // preference and return multiples
}

// DefaultRounding is the policy used when the caller does not supply one.
var DefaultRounding = Rounding{
	Method:          RoundNearest,
	OwnershipPlaces: 4,
	SharePlaces:     0,
	CurrencyPlaces:  2,
	MultiplePlaces:  2,
}

func (r Rounding) apply(d decimal.Decimal, places int) decimal.Decimal {
	switch r.Method {
	case RoundDown:
		return d.RoundDown(int32(places))
	case RoundUp:
		return d.RoundUp(int32(places))
	default:
		return d.Round(int32(places))
	}
}

// Shares rounds a share count to the policy's share precision.
func (r Rounding) Shares(q Quantity) Quantity {
	return Quantity{value: r.apply(q.value, r.SharePlaces)}
}

// Cash rounds a monetary amount to the policy's currency precision.
func (r Rounding) Cash(m Money) Money {
	return Money{value: r.apply(m.value, r.CurrencyPlaces), cur: m.cur}
}

// Ownership rounds an ownership percentage to the policy's precision.
func (r Rounding) Ownership(p Percent) Percent {
	return Percent{value: r.apply(p.value, r.OwnershipPlaces)}
}

// Multiple rounds a preference or return multiple to the policy's precision.
func (r Rounding) Multiple(d decimal.Decimal) decimal.Decimal {
	return r.apply(d, r.MultiplePlaces)
}

// MarshalJSON implements the json.Marshaler interface for Rounding, so that
// validation reports can echo the policy they were produced under.
func (r Rounding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("method", r.Method.String())
	w.Append("ownershipPlaces", r.OwnershipPlaces)
	w.Append("sharePlaces", r.SharePlaces)
	w.Append("currencyPlaces", r.CurrencyPlaces)
	w.Append("multiplePlaces", r.MultiplePlaces)
	return w.MarshalJSON()
}
