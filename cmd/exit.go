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

type exitCmd struct {
	value      string
	name       string
	kind       string
	simplified bool
	scenarios  string
	record     bool
	date       string
}

func (*exitCmd) Name() string     { return "exit" }
func (*exitCmd) Synopsis() string { return "evaluate exit scenarios" }
func (*exitCmd) Usage() string {
	return `captab exit -value <amount> [-name <label>] [-kind <acquisition|ipo|liquidation>] [-simplified] [-record]
captab exit -scenarios <file.yaml>

  Evaluates what each shareholder receives at exit. A single scenario is
  described with flags; a batch of scenarios is read from a YAML file and
  evaluated concurrently. -simplified skips preferences and pays everyone
  pro rata. -record appends the single scenario to the ledger as well.

Usage Examples:
$ captab exit -value 50000000
$ captab exit -value 8000000 -kind liquidation -name fire-sale
$ captab exit -scenarios scenarios.yaml
`
}

func (c *exitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.value, "value", "", "Total exit proceeds.")
	f.StringVar(&c.name, "name", "", "Scenario name.")
	f.StringVar(&c.kind, "kind", "acquisition", "Exit kind (acquisition, ipo, liquidation).")
	f.BoolVar(&c.simplified, "simplified", false, "Ignore preferences, distribute pro rata.")
	f.StringVar(&c.scenarios, "scenarios", "", "YAML file describing a batch of scenarios.")
	f.BoolVar(&c.record, "record", false, "Also append the scenario to the ledger.")
	f.StringVar(&c.date, "on", "", "Date of the scenario (defaults to today).")
}

func (c *exitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if c.scenarios != "" {
		file, err := os.Open(c.scenarios)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening scenarios file %q: %v\n", c.scenarios, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		scenarios, err := captable.DecodeScenarios(file, *currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading scenarios file %q: %v\n", c.scenarios, err)
			return subcommands.ExitFailure
		}
		results, err := captable.EvaluateExits(ctx, reg, scenarios)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.ExitsMarkdown(results, rounding))
		return subcommands.ExitSuccess
	}

	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	value, err := parseMoney(c.value)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	kind, err := captable.ParseExitKind(c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	scenario := captable.ExitScenario{
		Name:       c.name,
		ExitValue:  value,
		Kind:       kind,
		Date:       on,
		Simplified: c.simplified,
	}
	result, err := captable.EvaluateExit(reg, scenario)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ExitMarkdown(result, rounding))
	if c.record {
		return AppendEvent(captable.NewExit(on, scenario))
	}
	return subcommands.ExitSuccess
}
