package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/captable"
)

// Event renders a financing event to a one-line summary.
func Event(e captable.Event) string {
	switch v := e.(type) {
	case captable.Found:
		return fmt.Sprintf("Founded %s with %d founder(s) on class %q", v.Company, len(v.Founders), v.Class)
	case captable.SAFEIssue:
		return fmt.Sprintf("Issued SAFE of %s to %s", v.Note.Terms.Principal, v.Note.Holder)
	case captable.Round:
		valuation := v.PreMoney
		if valuation.IsZero() {
			valuation = v.PostMoney
		}
		if valuation.IsZero() {
			return fmt.Sprintf("Priced round %q raised %s at %s per share", v.ID, v.Amount, v.SharePrice)
		}
		return fmt.Sprintf("Priced round %q raised %s at %s", v.ID, v.Amount, valuation)
	case captable.PoolCreate:
		return fmt.Sprintf("Created option pool %q at %s", v.Class, v.Pct)
	case captable.PoolRefresh:
		return fmt.Sprintf("Refreshed option pool to %s", v.Pct)
	case captable.Grant:
		return fmt.Sprintf("Granted %s options to %s", v.Shares, v.Holder)
	case captable.Exercise:
		return fmt.Sprintf("%s exercised %s options", v.Holder, v.Shares)
	case captable.SecondarySale:
		return fmt.Sprintf("%s sold %s %s shares to %s", v.Seller, v.Shares, v.SecondaryTransaction.Class, v.Buyer)
	case captable.Exit:
		return fmt.Sprintf("Evaluated exit %q at %s", v.Name, v.ExitValue)
	default:
		return string(e.What())
	}
}

// LogMarkdown renders the ledger history as a chronological list, one line
// per event with the fully diluted total after it.
func LogMarkdown(checkpoints []captable.Checkpoint, rounding captable.Rounding) string {
	var b strings.Builder
	b.WriteString("# History\n\n")
	if len(checkpoints) == 0 {
		b.WriteString("The ledger is empty.\n")
		return b.String()
	}
	for _, cp := range checkpoints {
		fd := rounding.Shares(cp.Registry.FullyDilutedShares())
		fmt.Fprintf(&b, "* %s: %s (fully diluted %s)\n", cp.Event.When(), Event(cp.Event), fd)
	}
	return b.String()
}
