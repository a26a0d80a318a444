package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type antiDilutionCmd struct {
	class    string
	price    string
	amount   string
	shares   string
	carveOut string
}

func (*antiDilutionCmd) Name() string { return "antidilution" }
func (*antiDilutionCmd) Synopsis() string {
	return "model a protected class's adjustment for a down round"
}
func (*antiDilutionCmd) Usage() string {
	return `captab antidilution -class <id> -price <per-share> -amount <amount> -shares <count> [-carve-out <id,...>]

  Shows the adjustment a protected class would receive if the described down
  round happened: full ratchet reprices to the new price, weighted-average
  blends it over the pre-round base. A price at or above the class's original
  issue price triggers nothing. -carve-out excludes classes from the
  weighted-average base.

Usage Examples:
$ captab antidilution -class series-a -price 0.50 -amount 1000000 -shares 2000000
`
}

func (c *antiDilutionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "", "Id of the protected class.")
	f.StringVar(&c.price, "price", "", "Hypothetical down-round price per share.")
	f.StringVar(&c.amount, "amount", "", "New money the down round raises.")
	f.StringVar(&c.shares, "shares", "", "Shares the down round issues.")
	f.StringVar(&c.carveOut, "carve-out", "", "Comma-separated class ids excluded from the base.")
}

func (c *antiDilutionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rounding, err := Rounding()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	var round captable.DownRound
	if round.Price, err = parseMoney(c.price); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if round.Amount, err = parseMoney(c.amount); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if round.Shares, err = parseShares(c.shares); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	var carveOut []string
	if c.carveOut != "" {
		carveOut = strings.Split(c.carveOut, ",")
	}

	reg, _, err := Replay()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	_, result, err := captable.ApplyAntiDilution(reg, c.class, round, carveOut)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AntiDilutionMarkdown(result, rounding))
	return subcommands.ExitSuccess
}
