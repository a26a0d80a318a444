package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type poolCreateCmd struct {
	class    string
	pct      float64
	preMoney bool
	date     string
}

func (*poolCreateCmd) Name() string     { return "pool-create" }
func (*poolCreateCmd) Synopsis() string { return "reserve an employee option pool" }
func (*poolCreateCmd) Usage() string {
	return `captab pool-create -pct <percent> [-class <id>] [-pre] [-on <date>]

  Reserves an option pool sized at the target percentage of the cap table.
  With -pre, the pool is sized on the pre-money base so only existing holders
  absorb the dilution; otherwise it dilutes everyone pro-rata.

Usage Examples:
$ captab pool-create -pct 15 -pre
`
}

func (c *poolCreateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "esop", "Id of the option class backing the pool.")
	f.Float64Var(&c.pct, "pct", 0, "Pool size as a percentage of the cap table.")
	f.BoolVar(&c.preMoney, "pre", false, "Size the pool on the pre-money base.")
	f.StringVar(&c.date, "on", "", "Date of the event (defaults to today).")
}

func (c *poolCreateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return AppendEvent(captable.NewPoolCreate(on, c.class, captable.Pct(c.pct), c.preMoney))
}

type poolRefreshCmd struct {
	pct  float64
	date string
}

func (*poolRefreshCmd) Name() string     { return "pool-refresh" }
func (*poolRefreshCmd) Synopsis() string { return "resize the option pool to a new target" }
func (*poolRefreshCmd) Usage() string {
	return `captab pool-refresh -pct <percent> [-on <date>]

  Tops the option pool up to the target percentage of the current cap table,
  under the pool's original timing semantics. A pool never shrinks.

Usage Examples:
$ captab pool-refresh -pct 12
`
}

func (c *poolRefreshCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.pct, "pct", 0, "Pool target as a percentage of the cap table.")
	f.StringVar(&c.date, "on", "", "Date of the event (defaults to today).")
}

func (c *poolRefreshCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return AppendEvent(captable.NewPoolRefresh(on, captable.Pct(c.pct)))
}
