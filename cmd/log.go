package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type logCmd struct{}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "display the event history" }
func (*logCmd) Usage() string {
	return `captab log

  Replays the ledger and prints each event with the fully diluted share
  count it left behind.

Usage Examples:
$ captab log
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rounding, err := Rounding()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	_, checkpoints, err := Replay()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LogMarkdown(checkpoints, rounding))
	return subcommands.ExitSuccess
}
