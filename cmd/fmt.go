package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `captab fmt

  Validates and formats the ledger file. This command reads all events,
  replays them to check they still apply, sorts them by date, and writes
  them back in a canonical JSONL format.

Usage Examples:
# Rewrites the default ledger file in place.
$ captab fmt

`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedgerFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, _, err := ledger.Replay(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: ledger does not replay: %v\n", err)
		return subcommands.ExitFailure
	}

	f2, err := os.Create(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rewriting ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer f2.Close()
	if err := captable.EncodeLedger(f2, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Successfully formatted %s.\n", *ledgerFile)
	return subcommands.ExitSuccess
}
