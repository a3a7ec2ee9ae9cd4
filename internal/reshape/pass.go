package reshape

import (
	"context"
	"errors"
	"fmt"

	"household-reshaper/internal/layout"
	"household-reshaper/internal/logger"
	"household-reshaper/internal/model"
)

// ErrEmptyInput is returned when the sheet has no data rows below the header
var ErrEmptyInput = errors.New("no data found in sheet")

// Progress receives one tick per processed household row
type Progress interface {
	Increment() error
}

// Pass runs the expander and the scanner over every household row in one
// traversal, in input order.
type Pass struct {
	layout   *layout.Layout
	expander *Expander
	scanner  *Scanner
	progress Progress
}

// NewPass creates a Pass over the given layout
func NewPass(l *layout.Layout) *Pass {
	return &Pass{
		layout:   l,
		expander: NewExpander(l),
		scanner:  NewScanner(l),
	}
}

// BlankRepeatedHousehold switches the expander to the variant that writes
// household fields only on the first member row.
func (p *Pass) BlankRepeatedHousehold(blank bool) *Pass {
	p.expander.BlankRepeated = blank
	return p
}

// WithProgress attaches a progress tracker
func (p *Pass) WithProgress(progress Progress) *Pass {
	p.progress = progress
	return p
}

// Run reshapes rows and scans them for missing member data.
// rows[0] is the header. The context is only consulted before the pass
// starts and after it ends: a partially processed sheet is never returned.
func (p *Pass) Run(ctx context.Context, rows []model.Row) (*model.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptyInput
	}

	header := rows[0]
	data := rows[1:]

	result := &model.Result{
		Header:  p.expander.Header(header),
		Rows:    make([]model.Row, 0, len(data)),
		Summary: model.NewSummary(),
	}
	sum := result.Summary

	for i, row := range data {
		sheetRow := i + 2

		size := p.layout.HouseholdSize(row)
		if size.Malformed {
			w := model.Warning{
				Kind:   model.WarningMalformedCount,
				Row:    sheetRow,
				Column: p.layout.DeclaredCountColumn,
				Raw:    size.DeclaredRaw,
				Detail: "could not parse member count, defaulting to 0",
			}
			result.Warnings = append(result.Warnings, w)
			sum.MalformedCounts++
			logger.LogRowWarning(w.Row, w.Column, w.Raw, w.Detail)
		}
		if size.Corrected() {
			sum.CorrectedCounts++
			logger.Debug("Row %d: declared %d members but %d blocks are filled", sheetRow, size.Declared, size.FilledBlocks)
		}
		if p.layout.IsShort(row) {
			sum.ShortRows++
		}

		expanded := p.expander.Expand(row, size)
		result.Rows = append(result.Rows, expanded...)

		findings, err := p.scanner.Scan(row, size, sheetRow)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to summarize members: %w", sheetRow, err)
		}
		result.Findings = append(result.Findings, findings...)

		sum.Households++
		sum.GeneratedRows += len(expanded)
		sum.MembersScanned += p.countMembers(row, size)

		if p.progress != nil {
			if err := p.progress.Increment(); err != nil {
				logger.Debug("progress update failed at row %d: %v", sheetRow, err)
			}
		}
	}

	for _, f := range result.Findings {
		if f.MissingName() {
			sum.MissingNames++
		}
		if f.MissingAge() {
			sum.MissingAges++
		}
	}
	sum.Findings = len(result.Findings)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// countMembers counts in-range blocks that carry a member id
func (p *Pass) countMembers(row model.Row, size layout.Size) int {
	n := 0
	for j := 0; j < size.Members(p.layout.BlockCount); j++ {
		if p.layout.Block(row, j).MemberID() != "" {
			n++
		}
	}
	return n
}
