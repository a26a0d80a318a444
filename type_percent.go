package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent represents an ownership percentage in points (25.5 means 25.5%).
// It is decimal backed so that ownership tables stay exact until the rounding
// policy formats them.
type Percent struct {
	value decimal.Decimal
}

// Pct creates a Percent from any numeric type, in percentage points.
func Pct[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

// PercentOf returns part/whole expressed in percentage points.
func PercentOf(part, whole Quantity) Percent {
	if whole.IsZero() {
		return Percent{}
	}
	return Percent{value: part.value.Div(whole.value).Mul(decimal.NewFromInt(100))}
}

func (p Percent) Add(q Percent) Percent { return Percent{value: p.value.Add(q.value)} }
func (p Percent) Sub(q Percent) Percent { return Percent{value: p.value.Sub(q.value)} }
func (p Percent) IsZero() bool          { return p.value.IsZero() }
func (p Percent) IsNegative() bool      { return p.value.IsNegative() }
func (p Percent) GreaterThan(q Percent) bool { return p.value.GreaterThan(q.value) }
func (p Percent) LessThan(q Percent) bool    { return p.value.LessThan(q.value) }

// Fraction returns the percent as a bare ratio (25.5% -> 0.255).
func (p Percent) Fraction() decimal.Decimal {
	return p.value.Div(decimal.NewFromInt(100))
}

// Decimal exposes the underlying percentage points value.
func (p Percent) Decimal() decimal.Decimal { return p.value }

// Equal compares two percents with the reporting precision (4 decimals).
func (p Percent) Equal(q Percent) bool {
	const places = 4
	return p.value.Round(places).Equal(q.value.Round(places))
}

func (p Percent) String() string {
	return fmt.Sprintf("%s%%", p.value.Round(2))
}

// SignedString returns the percent with an explicit sign, "-" when zero.
func (p Percent) SignedString() string {
	if p.value.IsZero() {
		return "-"
	}
	if p.value.IsPositive() {
		return "+" + p.String()
	}
	return p.String()
}

// MarshalJSON implements the json.Marshaler interface for Percent.
func (p Percent) MarshalJSON() ([]byte, error) {
	return p.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Percent.
func (p *Percent) UnmarshalJSON(b []byte) error {
	return p.value.UnmarshalJSON(b)
}
