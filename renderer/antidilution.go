package renderer

import "github.com/etnz/captable"

// AntiDilution is the view of a protection adjustment.
type AntiDilution struct {
	Class           string            `json:"class"`
	Kind            string            `json:"kind"`
	OriginalPrice   captable.Money    `json:"originalPrice"`
	NewPrice        captable.Money    `json:"newPrice"`
	Ratio           string            `json:"ratio"`
	OriginalShares  captable.Quantity `json:"originalShares"`
	AdjustedShares  captable.Quantity `json:"adjustedShares"`
	ConversionRatio string            `json:"conversionRatio"`
	Triggered       bool              `json:"triggered"`
}

// NewAntiDilution builds the adjustment view.
func NewAntiDilution(r *captable.AntiDilutionResult, rounding captable.Rounding) *AntiDilution {
	one := r.OriginalShares.Equal(r.AdjustedShares)
	return &AntiDilution{
		Class:           r.Class,
		Kind:            string(r.Kind),
		OriginalPrice:   rounding.Cash(r.OriginalPrice),
		NewPrice:        rounding.Cash(r.NewPrice),
		Ratio:           rounding.Multiple(r.Ratio).String(),
		OriginalShares:  rounding.Shares(r.OriginalShares),
		AdjustedShares:  rounding.Shares(r.AdjustedShares),
		ConversionRatio: rounding.Multiple(r.ConversionRatio).String(),
		Triggered:       !one,
	}
}

// AntiDilutionMarkdown renders an anti-dilution adjustment.
func AntiDilutionMarkdown(r *captable.AntiDilutionResult, rounding captable.Rounding) string {
	return renderTemplate("antidilution", "antidilution.md", nil, NewAntiDilution(r, rounding))
}
