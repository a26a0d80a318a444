// Package cmd implements the CLI application to manage a cap table.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/captable"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package calls Register() to declare the subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&foundCmd{}, "events")
	c.Register(&safeCmd{}, "events")
	c.Register(&roundCmd{}, "events")
	c.Register(&poolCreateCmd{}, "events")
	c.Register(&poolRefreshCmd{}, "events")
	c.Register(&grantCmd{}, "events")
	c.Register(&exerciseCmd{}, "events")
	c.Register(&secondaryCmd{}, "events")

	c.Register(&tableCmd{}, "reports")
	c.Register(&logCmd{}, "reports")
	c.Register(&exitCmd{}, "reports")
	c.Register(&waterfallCmd{}, "reports")
	c.Register(&antiDilutionCmd{}, "reports")
	c.Register(&validateCmd{}, "reports")

	c.Register(&fmtCmd{}, "ledger")
	c.Register(&topicCmd{}, "ledger")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "captable.jsonl", "Path to the ledger file containing financing events (JSONL format)")
var currency = flag.String("currency", "USD", "Reporting currency for all monetary amounts")
var roundingMethod = flag.String("rounding", "nearest", "Rounding method for reported numbers (nearest, down, up)")

// Rounding builds the output rounding policy from the global flags.
func Rounding() (captable.Rounding, error) {
	method, err := captable.ParseRoundingMethod(*roundingMethod)
	if err != nil {
		return captable.Rounding{}, err
	}
	r := captable.DefaultRounding
	r.Method = method
	return r, nil
}

// DecodeLedgerFile reads the app ledger file. A missing file yields an empty
// ledger so the first event can be recorded without ceremony.
func DecodeLedgerFile() (*captable.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, starting from an empty ledger")
		return captable.NewLedger(*currency), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return captable.DecodeLedger(f, *currency)
}

// AppendEvent validates an event against the replayed ledger and appends it
// to the app ledger file.
func AppendEvent(e captable.Event) subcommands.ExitStatus {
	ledger, err := DecodeLedgerFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// Dry-run the whole history including the new event, so a bad event never
	// reaches the file.
	ledger.Append(e)
	if _, _, err := ledger.Replay(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: event is not applicable: %v\n", err)
		return subcommands.ExitFailure
	}

	f, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := captable.EncodeEvent(f, e); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended %s event to %s\n", e.What(), *ledgerFile)
	return subcommands.ExitSuccess
}

// Replay loads the app ledger and folds it into the current registry.
func Replay() (*captable.Registry, []captable.Checkpoint, error) {
	ledger, err := DecodeLedgerFile()
	if err != nil {
		return nil, nil, err
	}
	return ledger.Replay()
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when the renderer is unavailable.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// parseDate parses a -on flag, defaulting to today when empty.
func parseDate(s string) (captable.Date, error) {
	if s == "" {
		return captable.Today(), nil
	}
	return captable.ParseDate(s)
}

// parseMoney parses a monetary flag value in the reporting currency. Empty
// means zero, which the engine reads as "not set".
func parseMoney(s string) (captable.Money, error) {
	if s == "" {
		return captable.Money{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return captable.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return captable.M(d, *currency), nil
}

// parseShares parses a share count flag value.
func parseShares(s string) (captable.Quantity, error) {
	if s == "" {
		return captable.Quantity{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return captable.Quantity{}, fmt.Errorf("invalid share count %q: %w", s, err)
	}
	return captable.Q(d), nil
}
