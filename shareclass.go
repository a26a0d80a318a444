package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClassKind identifies the nature of a share class.
type ClassKind string

const (
	Common    ClassKind = "common"
	Preferred ClassKind = "preferred"
	SAFEClass ClassKind = "safe"
	Option    ClassKind = "option"
)

// ParseClassKind parses a string into a ClassKind.
func ParseClassKind(s string) (ClassKind, error) {
	switch ClassKind(s) {
	case Common, Preferred, SAFEClass, Option:
		return ClassKind(s), nil
	default:
		return "", fmt.Errorf("unknown share class kind: %q", s)
	}
}

// AntiDilutionKind identifies the anti-dilution protection of a preferred class.
type AntiDilutionKind string

const (
	NoAntiDilution        AntiDilutionKind = "none"
	WeightedAverageNarrow AntiDilutionKind = "weighted-average-narrow"
	WeightedAverageBroad  AntiDilutionKind = "weighted-average-broad"
	FullRatchet           AntiDilutionKind = "full-ratchet"
)

// ParseAntiDilutionKind parses a string into an AntiDilutionKind.
func ParseAntiDilutionKind(s string) (AntiDilutionKind, error) {
	switch AntiDilutionKind(s) {
	case NoAntiDilution, WeightedAverageNarrow, WeightedAverageBroad, FullRatchet:
		return AntiDilutionKind(s), nil
	default:
		return "", fmt.Errorf("unknown anti-dilution kind: %q", s)
	}
}

// ShareClass defines the terms of one class of stock on the cap table.
//
// IssuePrice and Invested are recorded at issuance time by the founding and
// priced-round calculators; the waterfall and anti-dilution calculators rely
// on them instead of reverse-deriving prices from round history.
type ShareClass struct {
	ID         string
	Name       string
	Kind       ClassKind
	Authorized Quantity // authorized shares, issued <= authorized

	// Preferred terms. Zero values mean the right does not exist.
	LiquidationPref  decimal.Decimal // preference multiple (1 means 1x)
	LiquidationCap   decimal.Decimal // cap on step-1 payout, as multiple of invested; 0 = uncapped
	Participating    bool
	ParticipationCap decimal.Decimal // total-return cap for participating stock, as multiple of invested; 0 = uncapped
	AntiDilution     AntiDilutionKind
	DividendRate     decimal.Decimal // annual rate; informational
	ConversionRatio  decimal.Decimal // to common; 1 unless adjusted
	Seniority        int             // waterfall order, lower rank is paid first

	IssuePrice Money // original issue price per share
	Invested   Money // total paid into this class
}

// prefPerShare is the step-1 preference per share: issue price x multiple.
func (c ShareClass) prefPerShare() Money {
	return c.IssuePrice.MulDecimal(c.LiquidationPref)
}

// asCommon converts a share count of this class into common-equivalent shares.
func (c ShareClass) asCommon(shares Quantity) Quantity {
	if c.ConversionRatio.IsZero() {
		return shares
	}
	return shares.MulDecimal(c.ConversionRatio)
}

// Validate checks the class terms for internal consistency.
func (c ShareClass) Validate() error {
	if c.ID == "" {
		return &ValidationError{Msg: "share class id is missing"}
	}
	if c.Authorized.IsNegative() {
		return &ValidationError{Msg: fmt.Sprintf("class %q: authorized shares must not be negative", c.ID)}
	}
	if c.AntiDilution == "" {
		// left unset by callers that never touch anti-dilution
	} else if _, err := ParseAntiDilutionKind(string(c.AntiDilution)); err != nil {
		return &ValidationError{Msg: err.Error()}
	}
	if c.LiquidationPref.IsNegative() {
		return &ValidationError{Msg: fmt.Sprintf("class %q: liquidation preference must not be negative", c.ID)}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for ShareClass.
func (c ShareClass) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", c.ID)
	w.Optional("name", c.Name)
	w.Append("kind", string(c.Kind))
	w.Append("authorized", c.Authorized)
	w.Optional("liquidationPref", c.LiquidationPref)
	w.Optional("liquidationCap", c.LiquidationCap)
	w.Optional("participating", c.Participating)
	w.Optional("participationCap", c.ParticipationCap)
	w.Optional("antiDilution", string(c.AntiDilution))
	w.Optional("dividendRate", c.DividendRate)
	w.Optional("conversionRatio", c.ConversionRatio)
	w.Optional("seniority", c.Seniority)
	w.Optional("issuePrice", c.IssuePrice)
	w.Optional("invested", c.Invested)
	return w.MarshalJSON()
}
