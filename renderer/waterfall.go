package renderer

import "github.com/etnz/captable"

// Waterfall is the view of a liquidation waterfall result.
type Waterfall struct {
	ExitValue        captable.Money  `json:"exitValue"`
	TotalDistributed captable.Money  `json:"totalDistributed"`
	Remaining        captable.Money  `json:"remaining"`
	Converted        []string        `json:"converted,omitempty"`
	Lines            []WaterfallLine `json:"lines"`
}

// WaterfallLine is one payout line, holder by holder and step by step.
type WaterfallLine struct {
	Holder string         `json:"holder"`
	Class  string         `json:"class"`
	Source string         `json:"source"`
	Amount captable.Money `json:"amount"`
}

// NewWaterfall builds the waterfall view in distribution order.
func NewWaterfall(w *captable.WaterfallResult, rounding captable.Rounding) *Waterfall {
	view := &Waterfall{
		ExitValue:        rounding.Cash(w.ExitValue),
		TotalDistributed: rounding.Cash(w.TotalDistributed),
		Remaining:        rounding.Cash(w.Remaining),
		Converted:        w.Converted,
	}
	for _, d := range w.Distributions {
		view.Lines = append(view.Lines, WaterfallLine{
			Holder: d.Holder,
			Class:  d.Class,
			Source: string(d.Source),
			Amount: rounding.Cash(d.Amount),
		})
	}
	return view
}

// WaterfallMarkdown renders a liquidation waterfall.
func WaterfallMarkdown(w *captable.WaterfallResult, rounding captable.Rounding) string {
	return renderTemplate("waterfall", "waterfall.md", nil, NewWaterfall(w, rounding))
}
