package renderer

import (
	"strconv"
	"strings"

	"github.com/etnz/captable"
)

// CapTable is the view of an ownership table, ready to render.
// Numbers are kept as the engine's exact types so templates can use their
// String renderers; they are rounded through the policy when the view is
// built, never in the template.
type CapTable struct {
	// Company or ledger name, optional.
	Name string `json:"name,omitempty"`
	// TotalShares is the issued share count.
	TotalShares captable.Quantity `json:"totalShares"`
	// FullyDiluted is issued plus the unissued option pool.
	FullyDiluted captable.Quantity `json:"fullyDiluted"`
	// Holders lists per-shareholder ownership in descending share order.
	Holders []CapTableHolder `json:"holders"`
	// Pool summarizes the option pool, nil when none exists.
	Pool *CapTablePool `json:"pool,omitempty"`
	// Classes lists the share classes and their key terms.
	Classes []CapTableClass `json:"classes"`
}

// CapTableHolder is one line of the ownership table.
type CapTableHolder struct {
	Holder  string            `json:"holder"`
	Name    string            `json:"name,omitempty"`
	Role    string            `json:"role"`
	Shares  captable.Quantity `json:"shares"`
	Percent captable.Percent  `json:"percent"`
}

// CapTablePool is the option pool summary line.
type CapTablePool struct {
	Class     string            `json:"class"`
	Total     captable.Quantity `json:"total"`
	Available captable.Quantity `json:"available"`
	Allocated captable.Quantity `json:"allocated"`
	Exercised captable.Quantity `json:"exercised"`
	Unissued  captable.Quantity `json:"unissued"`
	Percent   captable.Percent  `json:"percent"` // unissued share of fully diluted
}

// CapTableClass is one share class line.
type CapTableClass struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Kind       string            `json:"kind"`
	Issued     captable.Quantity `json:"issued"`
	Authorized captable.Quantity `json:"authorized"`
	IssuePrice string            `json:"issuePrice,omitempty"`
	Terms      string            `json:"terms,omitempty"`
}

// NewCapTable builds the ownership view from a registry snapshot, rounding
// every reported number through the policy.
func NewCapTable(name string, reg *captable.Registry, rounding captable.Rounding) *CapTable {
	view := &CapTable{
		Name:         name,
		TotalShares:  rounding.Shares(reg.TotalShares()),
		FullyDiluted: rounding.Shares(reg.FullyDilutedShares()),
	}
	for _, o := range reg.OwnershipTable() {
		view.Holders = append(view.Holders, CapTableHolder{
			Holder:  o.Holder,
			Name:    o.Name,
			Role:    string(o.Role),
			Shares:  rounding.Shares(o.Shares),
			Percent: rounding.Ownership(o.Percent),
		})
	}
	if pool := reg.Pool(); pool != nil {
		view.Pool = &CapTablePool{
			Class:     pool.Class,
			Total:     rounding.Shares(pool.Total),
			Available: rounding.Shares(pool.Available),
			Allocated: rounding.Shares(pool.Allocated),
			Exercised: rounding.Shares(pool.Exercised),
			Unissued:  rounding.Shares(pool.Unissued()),
			Percent:   rounding.Ownership(captable.PercentOf(pool.Unissued(), reg.FullyDilutedShares())),
		}
	}
	for _, c := range reg.Classes() {
		row := CapTableClass{
			ID:         c.ID,
			Name:       c.Name,
			Kind:       string(c.Kind),
			Issued:     rounding.Shares(reg.ClassShares(c.ID)),
			Authorized: rounding.Shares(c.Authorized),
		}
		if !c.IssuePrice.IsZero() {
			row.IssuePrice = rounding.Cash(c.IssuePrice).String()
		}
		row.Terms = classTerms(c, rounding)
		view.Classes = append(view.Classes, row)
	}
	return view
}

// classTerms summarizes a class's preferred terms in one short cell.
func classTerms(c captable.ShareClass, rounding captable.Rounding) string {
	var terms []string
	if !c.LiquidationPref.IsZero() {
		terms = append(terms, rounding.Multiple(c.LiquidationPref).String()+"x pref")
	}
	if c.Participating {
		if c.ParticipationCap.IsZero() {
			terms = append(terms, "participating")
		} else {
			terms = append(terms, "participating capped "+rounding.Multiple(c.ParticipationCap).String()+"x")
		}
	}
	if c.AntiDilution != "" && c.AntiDilution != captable.NoAntiDilution {
		terms = append(terms, string(c.AntiDilution))
	}
	if c.Seniority != 0 {
		terms = append(terms, "rank "+strconv.Itoa(c.Seniority))
	}
	return strings.Join(terms, ", ")
}
