package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type foundCmd struct {
	company    string
	class      string
	authorized string
	date       string
}

func (*foundCmd) Name() string     { return "found" }
func (*foundCmd) Synopsis() string { return "incorporate the company and issue founder shares" }
func (*foundCmd) Usage() string {
	return `captab found -company <name> [-class <id>] [-authorized <shares>] [-on <date>] <holder>=<shares> ...

  Records the founding event: creates the initial common stock class and
  issues the listed founder allocations.

Usage Examples:
$ captab found -company "Acme Inc" -authorized 10000000 alice=6000000 bob=4000000
`
}

func (c *foundCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "Company name.")
	f.StringVar(&c.class, "class", "common", "Id of the founding common class.")
	f.StringVar(&c.authorized, "authorized", "", "Authorized shares of the class. Defaults to the issued total.")
	f.StringVar(&c.date, "on", "", "Date of the event (defaults to today).")
}

func (c *foundCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(f.Args()) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one <holder>=<shares> allocation is required.")
		return subcommands.ExitUsageError
	}
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	authorized, err := parseShares(c.authorized)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	var founders []captable.FounderAllocation
	for _, arg := range f.Args() {
		holder, value, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: allocation %q is not of the form <holder>=<shares>.\n", arg)
			return subcommands.ExitUsageError
		}
		shares, err := parseShares(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		founders = append(founders, captable.FounderAllocation{Holder: holder, Shares: shares})
	}

	return AppendEvent(captable.NewFound(on, c.company, c.class, authorized, founders...))
}
