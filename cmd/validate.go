package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type validateCmd struct{}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check the integrity of the cap table" }
func (*validateCmd) Usage() string {
	return `captab validate

  Replays the ledger and checks structural invariants: ownership sums to
  100%, no negative positions, issued shares within authorized totals, and
  round valuations consistent with their share counts. Exits non-zero when
  a check fails.

Usage Examples:
$ captab validate
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rounding, err := Rounding()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	reg, _, err := Replay()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	report := captable.CheckIntegrity(reg, rounding)
	printMarkdown(renderer.ValidationMarkdown(report, rounding))
	if !report.IsValid {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
