// Package layout resolves the fixed-width household row layout into column
// ranges and named field accessors.
package layout

import (
	"household-reshaper/internal/config"
	"household-reshaper/internal/model"
)

// Layout describes where household and member fields live in a source row.
// It is built once from configuration and never mutated.
type Layout struct {
	PrefixLength    int
	BlockSize       int
	BlockCount      int
	KeepBlockLength int

	DeclaredCountColumn int
	AreaColumn          int
	HouseholdIDColumn   int
	ContactColumns      []int

	MemberIDOffset int
	NameOffset     int
	AgeOffset      int
}

// New builds a Layout from a validated configuration
func New(cfg *config.Config) *Layout {
	contact := make([]int, len(cfg.Columns.Contact))
	copy(contact, cfg.Columns.Contact)

	return &Layout{
		PrefixLength:        cfg.Layout.PrefixLength,
		BlockSize:           cfg.Layout.BlockSize,
		BlockCount:          cfg.Layout.BlockCount,
		KeepBlockLength:     cfg.Layout.KeepBlockLength,
		DeclaredCountColumn: cfg.Columns.DeclaredCount,
		AreaColumn:          cfg.Columns.Area,
		HouseholdIDColumn:   cfg.Columns.HouseholdID,
		ContactColumns:      contact,
		MemberIDOffset:      cfg.Columns.MemberID,
		NameOffset:          cfg.Columns.Name,
		AgeOffset:           cfg.Columns.Age,
	}
}

// Default returns the reference survey layout (70 / 15 x 32 / keep 11)
func Default() *Layout {
	return New(config.Default())
}

// SuffixStart returns the first column after the block region
func (l *Layout) SuffixStart() int {
	return l.PrefixLength + l.BlockSize*l.BlockCount
}

// PrefixRange returns the half-open column range of the household prefix
func (l *Layout) PrefixRange() (int, int) {
	return 0, l.PrefixLength
}

// BlockStart returns the first column of block j
func (l *Layout) BlockStart(j int) int {
	return l.PrefixLength + j*l.BlockSize
}

// BlockRange returns the half-open column range of block j
func (l *Layout) BlockRange(j int) (int, int) {
	start := l.BlockStart(j)
	return start, start + l.BlockSize
}

// KeptRange returns the half-open column range kept from block j
func (l *Layout) KeptRange(j int) (int, int) {
	start, _ := l.BlockRange(j)
	return start, start + l.KeepBlockLength
}

// ReshapedWidth returns the number of columns before the suffix in a reshaped row
func (l *Layout) ReshapedWidth() int {
	return l.PrefixLength + l.KeepBlockLength
}

// Prefix returns the household prefix of a row, padded to PrefixLength
func (l *Layout) Prefix(row model.Row) model.Row {
	return row.Window(l.PrefixRange())
}

// Suffix returns the trailing household fields of a row
func (l *Layout) Suffix(row model.Row) model.Row {
	return row.Tail(l.SuffixStart())
}

// Header builds the reshaped header: the prefix headers, the kept headers of
// the first block, then the suffix headers.
func (l *Layout) Header(original model.Row) model.Row {
	start, end := l.KeptRange(0)
	return model.Concat(
		l.Prefix(original),
		original.Window(start, end),
		l.Suffix(original),
	)
}

// IsShort reports whether a row ends before the suffix region
func (l *Layout) IsShort(row model.Row) bool {
	return len(row) < l.SuffixStart()
}
