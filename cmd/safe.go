package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type safeCmd struct {
	holder    string
	principal string
	cap       string
	discount  string
	mfn       bool
	trigger   string
	threshold string
	date      string
}

func (*safeCmd) Name() string     { return "safe" }
func (*safeCmd) Synopsis() string { return "record a SAFE investment" }
func (*safeCmd) Usage() string {
	return `captab safe -holder <id> -principal <amount> [-cap <valuation>] [-discount <rate>] [-mfn] [-trigger <trigger>] [-threshold <amount>] [-on <date>]

  Records a SAFE note. The note sits in the ledger until a later priced round
  (or another trigger event) converts it into equity. At least one of -cap and
  -discount is required; the conversion takes whichever yields the lower price.

Usage Examples:
$ captab safe -holder angel -principal 500000 -cap 5000000
$ captab safe -holder fund -principal 250000 -discount 0.20 -mfn
`
}

func (c *safeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holder, "holder", "", "Id of the investor holding the note.")
	f.StringVar(&c.principal, "principal", "", "Invested principal.")
	f.StringVar(&c.cap, "cap", "", "Valuation cap, if any.")
	f.StringVar(&c.discount, "discount", "", "Discount rate in (0,1), if any.")
	f.BoolVar(&c.mfn, "mfn", false, "Most-favored-nation clause.")
	f.StringVar(&c.trigger, "trigger", string(captable.QualifiedFinancing), "Conversion trigger (qualified-financing, liquidity-event, maturity).")
	f.StringVar(&c.threshold, "threshold", "", "Minimum new money for a qualified financing.")
	f.StringVar(&c.date, "on", "", "Date of the event (defaults to today).")
}

func (c *safeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	trigger, err := captable.ParseConversionTrigger(c.trigger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	terms := captable.SAFETerms{MFN: c.mfn, Trigger: trigger}
	if terms.Principal, err = parseMoney(c.principal); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if terms.ValuationCap, err = parseMoney(c.cap); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if terms.QualifyingThreshold, err = parseMoney(c.threshold); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if c.discount != "" {
		if terms.Discount, err = decimal.NewFromString(c.discount); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid discount %q: %v\n", c.discount, err)
			return subcommands.ExitUsageError
		}
	}
	if err := terms.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	return AppendEvent(captable.NewSAFEIssue(on, c.holder, terms))
}
