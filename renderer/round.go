package renderer

import "github.com/etnz/captable"

// Round is the view of a priced round result.
type Round struct {
	Round      string             `json:"round"`
	Amount     captable.Money     `json:"amount"`
	PreMoney   captable.Money     `json:"preMoney"`
	PostMoney  captable.Money     `json:"postMoney"`
	SharePrice captable.Money     `json:"sharePrice"`
	NewShares  captable.Quantity  `json:"newShares"`
	PoolShares captable.Quantity  `json:"poolShares"`
	Holders    []RoundHolder      `json:"holders"`
	Warnings   []captable.Warning `json:"warnings,omitempty"`

	FounderDilution  captable.Percent `json:"founderDilution"`
	InvestorDilution captable.Percent `json:"investorDilution"`
}

// RoundHolder is one shareholder's dilution line.
type RoundHolder struct {
	Holder   string           `json:"holder"`
	Name     string           `json:"name,omitempty"`
	Before   captable.Percent `json:"before"`
	After    captable.Percent `json:"after"`
	Dilution string           `json:"dilution"`
}

// NewRound builds the round view, rounding every number through the policy.
func NewRound(r *captable.RoundResult, rounding captable.Rounding) *Round {
	view := &Round{
		Round:            r.Round,
		Amount:           rounding.Cash(r.Amount),
		PreMoney:         rounding.Cash(r.PreMoney),
		PostMoney:        rounding.Cash(r.PostMoney),
		SharePrice:       rounding.Cash(r.SharePrice),
		NewShares:        rounding.Shares(r.NewShares),
		PoolShares:       rounding.Shares(r.PoolShares),
		Warnings:         r.Warnings,
		FounderDilution:  rounding.Ownership(r.FounderDilution),
		InvestorDilution: rounding.Ownership(r.InvestorDilution),
	}
	for _, h := range r.Holders {
		view.Holders = append(view.Holders, RoundHolder{
			Holder:   h.Holder,
			Name:     h.Name,
			Before:   rounding.Ownership(h.Before),
			After:    rounding.Ownership(h.After),
			Dilution: rounding.Ownership(h.Dilution).SignedString(),
		})
	}
	return view
}

// RoundMarkdown renders a priced round result.
func RoundMarkdown(r *captable.RoundResult, rounding captable.Rounding) string {
	return renderTemplate("round", "round.md", nil, NewRound(r, rounding))
}
