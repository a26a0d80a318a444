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

type waterfallCmd struct {
	value string
}

func (*waterfallCmd) Name() string     { return "waterfall" }
func (*waterfallCmd) Synopsis() string { return "distribute a hypothetical exit value" }
func (*waterfallCmd) Usage() string {
	return `captab waterfall -value <amount>

  Runs the liquidation waterfall on the current cap table: liquidation
  preferences by seniority, then participation, then common distribution.
  Preferred classes that are better off as common are converted first.

Usage Examples:
$ captab waterfall -value 50000000
`
}

func (c *waterfallCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.value, "value", "", "Total exit proceeds to distribute.")
}

func (c *waterfallCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rounding, err := Rounding()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	value, err := parseMoney(c.value)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	reg, _, err := Replay()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	result, err := captable.Waterfall(reg, value)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.WaterfallMarkdown(result, rounding))
	return subcommands.ExitSuccess
}
