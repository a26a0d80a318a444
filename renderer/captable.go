package renderer

import "github.com/etnz/captable"

// CapTableMarkdown renders the ownership table of a registry snapshot.
func CapTableMarkdown(name string, reg *captable.Registry, rounding captable.Rounding) string {
	view := NewCapTable(name, reg, rounding)
	partials := map[string]string{
		"captable_holders": "captable_holders.md",
		"captable_classes": "captable_classes.md",
	}
	return renderTemplate("captable", "captable.md", partials, view)
}
