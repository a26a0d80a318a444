package renderer

import "github.com/etnz/captable"

// Validation is the view of an integrity report.
type Validation struct {
	IsValid        bool               `json:"isValid"`
	OwnershipTotal captable.Percent   `json:"ownershipTotal"`
	TotalShares    captable.Quantity  `json:"totalShares"`
	FullyDiluted   captable.Quantity  `json:"fullyDiluted"`
	Errors         []ValidationError  `json:"errors,omitempty"`
	Warnings       []captable.Warning `json:"warnings,omitempty"`
	Classes        []ValidationClass  `json:"classes"`
}

// ValidationError is one failed check line.
type ValidationError struct {
	Check string `json:"check"`
	Msg   string `json:"msg"`
}

// ValidationClass is one per-class reconciliation line.
type ValidationClass struct {
	Class      string            `json:"class"`
	Issued     captable.Quantity `json:"issued"`
	Authorized captable.Quantity `json:"authorized"`
}

// NewValidation builds the report view, rounding every number through the policy.
func NewValidation(r *captable.ValidationReport, rounding captable.Rounding) *Validation {
	view := &Validation{
		IsValid:        r.IsValid,
		OwnershipTotal: rounding.Ownership(r.OwnershipTotal),
		TotalShares:    rounding.Shares(r.TotalShares),
		FullyDiluted:   rounding.Shares(r.FullyDiluted),
		Warnings:       r.Warnings,
	}
	for _, e := range r.Errors {
		view.Errors = append(view.Errors, ValidationError{Check: e.Check, Msg: e.Msg})
	}
	for _, c := range r.ClassTotals {
		view.Classes = append(view.Classes, ValidationClass{
			Class:      c.Class,
			Issued:     rounding.Shares(c.Issued),
			Authorized: rounding.Shares(c.Authorized),
		})
	}
	return view
}

// ValidationMarkdown renders an integrity report.
func ValidationMarkdown(r *captable.ValidationReport, rounding captable.Rounding) string {
	return renderTemplate("validation", "validation.md", nil, NewValidation(r, rounding))
}
