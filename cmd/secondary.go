package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type secondaryCmd struct {
	seller string
	buyer  string
	class  string
	shares string
	price  string
	date   string
}

func (*secondaryCmd) Name() string     { return "secondary" }
func (*secondaryCmd) Synopsis() string { return "record a secondary sale between shareholders" }
func (*secondaryCmd) Usage() string {
	return `captab secondary -seller <id> -buyer <id> -class <id> -shares <count> -price <per-share> [-on <date>]

  Transfers already issued shares from one holder to another. The company
  receives nothing and no new shares are created, so total and fully
  diluted share counts are unchanged.

Usage Examples:
$ captab secondary -seller alice -buyer fund -class common -shares 1000000 -price 1.50
`
}

func (c *secondaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.seller, "seller", "", "Id of the selling shareholder.")
	f.StringVar(&c.buyer, "buyer", "", "Id of the buying shareholder.")
	f.StringVar(&c.class, "class", "", "Id of the share class sold.")
	f.StringVar(&c.shares, "shares", "", "Shares transferred.")
	f.StringVar(&c.price, "price", "", "Price per share paid to the seller.")
	f.StringVar(&c.date, "on", "", "Date of the event (defaults to today).")
}

func (c *secondaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	tx := captable.SecondaryTransaction{
		Date:          on,
		Seller:        c.seller,
		Buyer:         c.buyer,
		Class:         c.class,
		Shares:        shares,
		PricePerShare: price,
	}
	return AppendEvent(captable.NewSecondarySale(on, tx))
}
