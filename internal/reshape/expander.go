// Package reshape turns wide household rows into one row per member and
// scans the same rows for members with missing required fields.
package reshape

import (
	"household-reshaper/internal/layout"
	"household-reshaper/internal/model"
)

// Expander fans one household row out into its member rows
type Expander struct {
	layout *layout.Layout

	// BlankRepeated empties prefix and suffix on every member row after the
	// first, so household identifiers appear once per household.
	BlankRepeated bool
}

// NewExpander creates an Expander over the given layout
func NewExpander(l *layout.Layout) *Expander {
	return &Expander{layout: l}
}

// Header returns the reshaped header for an original header row
func (e *Expander) Header(original model.Row) model.Row {
	return e.layout.Header(original)
}

// Expand emits size.LoopCount rows: prefix ++ kept block j ++ suffix.
// Blocks at j >= BlockCount contribute absent cells.
func (e *Expander) Expand(row model.Row, size layout.Size) []model.Row {
	prefix := e.layout.Prefix(row)
	suffix := e.layout.Suffix(row)

	out := make([]model.Row, 0, size.LoopCount)
	for j := 0; j < size.LoopCount; j++ {
		p, s := prefix, suffix
		if e.BlankRepeated && j > 0 {
			p, s = model.Absent(len(prefix)), model.Absent(len(suffix))
		}
		out = append(out, model.Concat(p, e.layout.Block(row, j).Kept(), s))
	}
	return out
}
