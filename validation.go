package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClassTotal is the reconciled share count of one class.
type ClassTotal struct {
	Class      string
	Issued     Quantity
	Authorized Quantity
}

// ValidationReport is the outcome of an integrity check: conservation laws
// verified against a registry snapshot, with the rounding policy echoed so
// audits are reproducible.
type ValidationReport struct {
	IsValid        bool
	Errors         []*IntegrityError // ordered as the checks run
	Warnings       []Warning
	OwnershipTotal Percent // per-holder ownership plus unissued pool
	TotalShares    Quantity
	FullyDiluted   Quantity
	ClassTotals    []ClassTotal
	Rounding       Rounding
}

// ownershipTolerance is the acceptable drift of the ownership sum from 100%.
var ownershipTolerance = decimal.NewFromFloat(0.01)

// shareTolerance is the acceptable drift of per-class share reconciliation.
var shareTolerance = decimal.NewFromFloat(0.001)

// valuationTolerance is the acceptable drift of post = pre + amount.
var valuationTolerance = decimal.NewFromFloat(0.01)

// CheckIntegrity runs the engine's conservation laws against a snapshot.
// Failures are reported, never raised: callers decide whether to block.
func CheckIntegrity(reg *Registry, rounding Rounding) *ValidationReport {
	report := &ValidationReport{
		TotalShares:  reg.TotalShares(),
		FullyDiluted: reg.FullyDilutedShares(),
		Rounding:     rounding,
	}

	fail := func(check, format string, args ...any) {
		report.Errors = append(report.Errors, &IntegrityError{Check: check, Msg: fmt.Sprintf(format, args...)})
	}

	// (a) ownership sums to 100% of the fully diluted table. The unissued
	// option pool counts as one virtual line.
	total := Percent{}
	for _, h := range reg.holders {
		total = total.Add(PercentOf(h.Shares(), report.FullyDiluted))
	}
	if reg.pool != nil {
		total = total.Add(PercentOf(reg.pool.Unissued(), report.FullyDiluted))
	}
	report.OwnershipTotal = total
	if !report.FullyDiluted.IsZero() {
		drift := total.Decimal().Sub(decimal.NewFromInt(100)).Abs()
		if drift.GreaterThan(ownershipTolerance) {
			fail("ownership-sum", "ownership sums to %s, not 100%%", total)
		}
	}

	// (b) no negative holdings.
	for _, h := range reg.holders {
		for _, holding := range h.Holdings {
			if holding.Shares.IsNegative() {
				fail("negative-shares", "holder %q has %s shares of class %q",
					h.ID, holding.Shares, holding.Class)
			}
		}
	}

	// (c) per-class share totals reconcile against the authorized count.
	for _, c := range reg.classes {
		issued := reg.ClassShares(c.ID)
		if reg.pool != nil && reg.pool.Class == c.ID {
			issued = issued.Add(reg.pool.Unissued())
		}
		report.ClassTotals = append(report.ClassTotals, ClassTotal{
			Class:      c.ID,
			Issued:     issued,
			Authorized: c.Authorized,
		})
		excess := issued.Sub(c.Authorized)
		if excess.Decimal().GreaterThan(shareTolerance) {
			fail("class-total", "class %q has %s shares against %s authorized",
				c.ID, issued, c.Authorized)
		}
	}

	// (d) priced rounds: post-money equals pre-money plus amount.
	for _, rd := range reg.rounds {
		drift := rd.PostMoney.Sub(rd.PreMoney).Sub(rd.Amount).Decimal().Abs()
		if drift.GreaterThan(valuationTolerance) {
			fail("round-valuation", "round %q: post-money %s != pre-money %s + %s",
				rd.ID, rd.PostMoney, rd.PreMoney, rd.Amount)
		}
	}

	// (e) unconverted SAFEs are flagged, not failed.
	if len(reg.safes) > 0 {
		outstanding := reg.money()
		for _, n := range reg.safes {
			outstanding = outstanding.Add(n.Terms.Principal)
		}
		report.Warnings = append(report.Warnings, warnf(WarnUnconvertedSAFE,
			"%d unconverted SAFEs with %s principal outstanding", len(reg.safes), outstanding))
	}

	report.IsValid = len(report.Errors) == 0
	return report
}
