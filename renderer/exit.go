package renderer

import "github.com/etnz/captable"

// Exit is the view of one exit scenario evaluation.
type Exit struct {
	Name          string         `json:"name"`
	Kind          string         `json:"kind,omitempty"`
	ExitValue     captable.Money `json:"exitValue"`
	Simplified    bool           `json:"simplified,omitempty"`
	PricePerShare captable.Money `json:"pricePerShare"`
	AvgMultiple   string         `json:"avgMultiple"`
	Payouts       []ExitPayout   `json:"payouts"`
}

// ExitPayout is one shareholder's exit line.
type ExitPayout struct {
	Holder   string            `json:"holder"`
	Name     string            `json:"name,omitempty"`
	Shares   captable.Quantity `json:"shares"`
	Payout   captable.Money    `json:"payout"`
	Invested string            `json:"invested"`
	Multiple string            `json:"multiple"`
}

// NewExit builds the exit view, rounding every number through the policy.
func NewExit(r *captable.ExitResult, rounding captable.Rounding) *Exit {
	view := &Exit{
		Name:          r.Scenario.Name,
		Kind:          string(r.Scenario.Kind),
		ExitValue:     rounding.Cash(r.Scenario.ExitValue),
		Simplified:    r.Scenario.Simplified,
		PricePerShare: rounding.Cash(r.Summary.PricePerShare),
		AvgMultiple:   rounding.Multiple(r.Summary.AvgMultiple).String() + "x",
	}
	for _, p := range r.Payouts {
		line := ExitPayout{
			Holder: p.Holder,
			Name:   p.Name,
			Shares: rounding.Shares(p.Shares),
			Payout: rounding.Cash(p.Payout),
		}
		if p.Invested.IsPositive() {
			line.Invested = rounding.Cash(p.Invested).String()
			line.Multiple = rounding.Multiple(p.Multiple).String() + "x"
		}
		view.Payouts = append(view.Payouts, line)
	}
	return view
}

// ExitMarkdown renders one exit scenario evaluation.
func ExitMarkdown(r *captable.ExitResult, rounding captable.Rounding) string {
	return renderTemplate("exit", "exit.md", nil, NewExit(r, rounding))
}

// ExitsMarkdown renders a batch of scenario evaluations side by side.
func ExitsMarkdown(results []*captable.ExitResult, rounding captable.Rounding) string {
	views := make([]*Exit, 0, len(results))
	for _, r := range results {
		views = append(views, NewExit(r, rounding))
	}
	return renderTemplate("exits", "exits.md", map[string]string{"exit": "exit.md"}, views)
}
