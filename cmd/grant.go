package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type grantCmd struct {
	holder string
	shares string
	price  string
	date   string
}

func (*grantCmd) Name() string     { return "grant" }
func (*grantCmd) Synopsis() string { return "grant options from the pool to an employee" }
func (*grantCmd) Usage() string {
	return `captab grant -holder <id> -shares <count> [-price <strike>] [-on <date>]

  Allocates option pool shares to a grantee. Granting never dilutes anyone:
  the shares were already reserved when the pool was sized.

Usage Examples:
$ captab grant -holder carol -shares 100000 -price 0.25
`
}

func (c *grantCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holder, "holder", "", "Id of the grantee.")
	f.StringVar(&c.shares, "shares", "", "Shares granted.")
	f.StringVar(&c.price, "price", "", "Exercise price per share.")
	f.StringVar(&c.date, "on", "", "Date of the event (defaults to today).")
}

func (c *grantCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	shares, err := parseShares(c.shares)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	price, err := parseMoney(c.price)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return AppendEvent(captable.NewGrant(on, c.holder, shares, price))
}

type exerciseCmd struct {
	holder string
	shares string
	date   string
}

func (*exerciseCmd) Name() string     { return "exercise" }
func (*exerciseCmd) Synopsis() string { return "exercise granted options into issued shares" }
func (*exerciseCmd) Usage() string {
	return `captab exercise -holder <id> -shares <count> [-on <date>]

  Converts a grantee's allocated options into issued option shares. The
  fully diluted total does not move: those shares were counted at grant time.

Usage Examples:
$ captab exercise -holder carol -shares 40000
`
}

func (c *exerciseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holder, "holder", "", "Id of the grantee.")
	f.StringVar(&c.shares, "shares", "", "Shares exercised.")
	f.StringVar(&c.date, "on", "", "Date of the event (defaults to today).")
}

func (c *exerciseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	shares, err := parseShares(c.shares)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return AppendEvent(captable.NewExercise(on, c.holder, shares))
}
