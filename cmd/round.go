package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type roundCmd struct {
	id            string
	amount        string
	preMoney      string
	postMoney     string
	sharePrice    string
	class         string
	className     string
	pref          string
	participating bool
	pcap          string
	antiDilution  string
	seniority     int
	poolPct       float64
	poolPre       bool
	date          string
}

func (*roundCmd) Name() string     { return "round" }
func (*roundCmd) Synopsis() string { return "record a priced equity round" }
func (*roundCmd) Usage() string {
	return `captab round -amount <amount> (-pre <valuation> | -post <valuation> | -price <price>) -class <id> [options] <holder>=<amount> ...

  Records a priced round. Exactly one of -pre, -post and -price must be given;
  the other two valuation figures are derived. Outstanding SAFEs convert at
  the round's terms before the new money is priced in. Investor allocations
  must sum to the round amount.

Usage Examples:
$ captab round -id series-a -amount 2500000 -pre 10000000 -class series-a vc-one=2500000
$ captab round -amount 2000000 -pre 8000000 -class series-a -pool-pct 15 -pool-pre vc-one=2000000
`
}

func (c *roundCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Round id. Generated when empty.")
	f.StringVar(&c.amount, "amount", "", "New money raised.")
	f.StringVar(&c.preMoney, "pre", "", "Pre-money valuation.")
	f.StringVar(&c.postMoney, "post", "", "Post-money valuation.")
	f.StringVar(&c.sharePrice, "price", "", "Price per share.")
	f.StringVar(&c.class, "class", "", "Id of the preferred class the round issues.")
	f.StringVar(&c.className, "name", "", "Display name of the class.")
	f.StringVar(&c.pref, "pref", "", "Liquidation preference multiple (defaults to 1).")
	f.BoolVar(&c.participating, "participating", false, "Participating preferred.")
	f.StringVar(&c.pcap, "pcap", "", "Participation cap as a multiple of invested.")
	f.StringVar(&c.antiDilution, "antidilution", "", "Anti-dilution protection (none, weighted-average-narrow, weighted-average-broad, full-ratchet).")
	f.IntVar(&c.seniority, "seniority", 0, "Waterfall rank, lower is paid first.")
	f.Float64Var(&c.poolPct, "pool-pct", 0, "Option pool target percentage for the round.")
	f.BoolVar(&c.poolPre, "pool-pre", false, "Size the pool top-up pre-money (existing holders absorb it).")
	f.StringVar(&c.date, "on", "", "Date of the event (defaults to today).")
}

func (c *roundCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(f.Args()) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one <holder>=<amount> investor is required.")
		return subcommands.ExitUsageError
	}
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	round := captable.PricedRound{
		ID: c.id,
		Class: captable.ShareClass{
			ID:            c.class,
			Name:          c.className,
			Kind:          captable.Preferred,
			Participating: c.participating,
			Seniority:     c.seniority,
		},
	}
	if round.Amount, err = parseMoney(c.amount); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if round.PreMoney, err = parseMoney(c.preMoney); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if round.PostMoney, err = parseMoney(c.postMoney); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if round.SharePrice, err = parseMoney(c.sharePrice); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if c.pref != "" {
		if round.Class.LiquidationPref, err = decimal.NewFromString(c.pref); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid preference multiple %q: %v\n", c.pref, err)
			return subcommands.ExitUsageError
		}
	}
	if c.pcap != "" {
		if round.Class.ParticipationCap, err = decimal.NewFromString(c.pcap); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid participation cap %q: %v\n", c.pcap, err)
			return subcommands.ExitUsageError
		}
	}
	if c.antiDilution != "" {
		if round.Class.AntiDilution, err = captable.ParseAntiDilutionKind(c.antiDilution); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	if c.poolPct > 0 {
		round.Pool = &captable.PoolAdjustment{TargetPct: captable.Pct(c.poolPct), PreMoney: c.poolPre}
	}

	for _, arg := range f.Args() {
		holder, value, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: investor %q is not of the form <holder>=<amount>.\n", arg)
			return subcommands.ExitUsageError
		}
		amount, err := parseMoney(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		round.Investors = append(round.Investors, captable.InvestorRecord{Holder: holder, Amount: amount})
	}

	return AppendEvent(captable.NewRound(on, round))
}
