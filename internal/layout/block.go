package layout

import (
	"strings"

	"household-reshaper/internal/model"
)

// Block is a named-field view over one member block of a source row
type Block struct {
	layout *Layout
	row    model.Row
	index  int
}

// Block returns the view of member block j. For j >= BlockCount every field
// reads as absent.
func (l *Layout) Block(row model.Row, j int) Block {
	return Block{layout: l, row: row, index: j}
}

// Index returns the 0-based block position
func (b Block) Index() int {
	return b.index
}

// InRange reports whether the block lies inside the declared block region
func (b Block) InRange() bool {
	return b.index >= 0 && b.index < b.layout.BlockCount
}

func (b Block) field(offset int) string {
	if !b.InRange() {
		return ""
	}
	return strings.TrimSpace(b.row.At(b.layout.BlockStart(b.index) + offset))
}

// MemberID returns the member's identifier
func (b Block) MemberID() string {
	return b.field(b.layout.MemberIDOffset)
}

// Name returns the member's name
func (b Block) Name() string {
	return b.field(b.layout.NameOffset)
}

// Age returns the member's age as written in the sheet
func (b Block) Age() string {
	return b.field(b.layout.AgeOffset)
}

// HasIdentity reports whether the member id or name is present.
// This decides how many blocks a household actually fills.
func (b Block) HasIdentity() bool {
	return b.MemberID() != "" || b.Name() != ""
}

// HasSummaryContent reports whether the block belongs in the member summary
func (b Block) HasSummaryContent() bool {
	return b.Name() != "" || b.Age() != ""
}

// Kept returns the kept leading cells of the block, untrimmed.
// Out-of-range blocks yield KeepBlockLength absent cells.
func (b Block) Kept() model.Row {
	if !b.InRange() {
		return model.Absent(b.layout.KeepBlockLength)
	}
	start, end := b.layout.KeptRange(b.index)
	return b.row.Window(start, end)
}

// Summary returns the block's {name, age} entry
func (b Block) Summary() model.MemberSummary {
	return model.MemberSummary{Name: b.Name(), Age: b.Age()}
}
