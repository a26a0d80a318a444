package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type tableCmd struct {
	name string
}

func (*tableCmd) Name() string     { return "table" }
func (*tableCmd) Synopsis() string { return "display the current cap table" }
func (*tableCmd) Usage() string {
	return `captab table [-name <title>]

  Replays the ledger and prints the current cap table: per-holder shares,
  ownership, fully diluted ownership and invested amounts, plus a per-class
  terms summary.

Usage Examples:
$ captab table
$ captab table -name "Acme Inc."
`
}

func (c *tableCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Title printed above the table.")
}

func (c *tableCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.CapTableMarkdown(c.name, reg, rounding))
	return subcommands.ExitSuccess
}
