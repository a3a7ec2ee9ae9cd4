package model

import "strings"

// Row is one positional spreadsheet record.
// An empty string stands for an absent cell; positions are never compacted.
type Row []string

// At returns the cell at index i, or "" when the row is shorter
func (r Row) At(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Has reports whether the cell at index i carries non-whitespace content
func (r Row) Has(i int) bool {
	return strings.TrimSpace(r.At(i)) != ""
}

// Window copies r[from:to] into a fresh row of exactly to-from cells.
// Cells beyond the end of r come back absent.
func (r Row) Window(from, to int) Row {
	if to <= from {
		return Row{}
	}
	out := make(Row, to-from)
	for i := range out {
		out[i] = r.At(from + i)
	}
	return out
}

// Tail copies r[from:]. A row shorter than from yields an empty tail.
func (r Row) Tail(from int) Row {
	if from >= len(r) {
		return Row{}
	}
	out := make(Row, len(r)-from)
	copy(out, r[from:])
	return out
}

// Absent returns a row of n absent cells
func Absent(n int) Row {
	return make(Row, n)
}

// Concat joins rows into one newly allocated row
func Concat(parts ...Row) Row {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Row, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// IsBlank reports whether every cell of the row is absent
func (r Row) IsBlank() bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
