package layout

import (
	"math"
	"strconv"
	"strings"

	"household-reshaper/internal/model"
)

// Size is the reconciled member count of one household row
type Size struct {
	Declared     int    // Parsed declared count, 0 when absent or malformed
	DeclaredRaw  string // Raw cell text of the declared count
	Malformed    bool   // The declared count cell held something unparsable
	FilledBlocks int    // Highest block index with an id or name, plus one
	LoopCount    int    // max(1, Declared, FilledBlocks)
}

// Corrected reports whether filled blocks outnumbered the declared count
func (s Size) Corrected() bool {
	return s.FilledBlocks > s.Declared
}

// Members returns how many in-range blocks belong to the household
func (s Size) Members(blockCount int) int {
	if s.LoopCount < blockCount {
		return s.LoopCount
	}
	return blockCount
}

// HouseholdSize reconciles the declared member count with the blocks that
// actually carry data. Both the expander and the scanner size a household
// through this function and nothing else.
func (l *Layout) HouseholdSize(row model.Row) Size {
	raw := row.At(l.DeclaredCountColumn)
	declared, ok := ParseCount(raw)

	filled := l.FilledBlocks(row)
	loop := 1
	if declared > loop {
		loop = declared
	}
	if filled > loop {
		loop = filled
	}

	return Size{
		Declared:     declared,
		DeclaredRaw:  raw,
		Malformed:    !ok,
		FilledBlocks: filled,
		LoopCount:    loop,
	}
}

// FilledBlocks returns the highest block index whose member id or name is
// present, plus one. Gaps below that index still count.
func (l *Layout) FilledBlocks(row model.Row) int {
	for k := l.BlockCount - 1; k >= 0; k-- {
		if l.Block(row, k).HasIdentity() {
			return k + 1
		}
	}
	return 0
}

// ParseCount parses a declared member count cell.
// Absent cells parse as 0. Spreadsheet numbers rendered as "3.0" are
// truncated. Anything else unparsable yields 0 and ok=false. Negative counts
// clamp to 0.
func ParseCount(raw string) (count int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		if f > math.MaxInt32 {
			return 0, false
		}
		n = int(f)
	}

	if n < 0 {
		n = 0
	}
	return n, true
}

// ContactNo returns the first non-empty contact column, in priority order
func (l *Layout) ContactNo(row model.Row) string {
	for _, idx := range l.ContactColumns {
		if row.Has(idx) {
			return strings.TrimSpace(row.At(idx))
		}
	}
	return ""
}

// Area returns the household's Grama Niladhari area
func (l *Layout) Area(row model.Row) string {
	return strings.TrimSpace(row.At(l.AreaColumn))
}

// HouseholdID returns the household identifier
func (l *Layout) HouseholdID(row model.Row) string {
	return strings.TrimSpace(row.At(l.HouseholdIDColumn))
}
