package reshape

import (
	"bytes"
	"encoding/json"

	"household-reshaper/internal/layout"
	"household-reshaper/internal/model"
)

// Scanner reports members whose name or age is missing
type Scanner struct {
	layout *layout.Layout
}

// NewScanner creates a Scanner over the given layout
func NewScanner(l *layout.Layout) *Scanner {
	return &Scanner{layout: l}
}

// Scan returns the findings of one household row in block order.
// Blocks without a member id are not members for reporting purposes and
// never produce a finding. sourceRow is the 1-based sheet row number.
func (s *Scanner) Scan(row model.Row, size layout.Size, sourceRow int) ([]model.Finding, error) {
	members := size.Members(s.layout.BlockCount)

	var findings []model.Finding
	var summary string
	for j := 0; j < members; j++ {
		b := s.layout.Block(row, j)
		if b.MemberID() == "" {
			continue
		}
		if b.Name() != "" && b.Age() != "" {
			continue
		}

		if findings == nil {
			var err error
			if summary, err = s.MemberSummary(row, size); err != nil {
				return nil, err
			}
			findings = make([]model.Finding, 0, members-j)
		}

		findings = append(findings, model.Finding{
			Area:        s.layout.Area(row),
			HouseholdID: s.layout.HouseholdID(row),
			MemberID:    b.MemberID(),
			Name:        b.Name(),
			Age:         b.Age(),
			ContactNo:   s.layout.ContactNo(row),
			AllMembers:  summary,
			SourceRow:   sourceRow,
			Block:       j,
		})
	}
	return findings, nil
}

// Members returns {name, age} for every in-range block with a name or age
func (s *Scanner) Members(row model.Row, size layout.Size) []model.MemberSummary {
	members := size.Members(s.layout.BlockCount)

	list := make([]model.MemberSummary, 0, members)
	for k := 0; k < members; k++ {
		b := s.layout.Block(row, k)
		if b.HasSummaryContent() {
			list = append(list, b.Summary())
		}
	}
	return list
}

// MemberSummary serializes Members as a JSON array.
// Non-ASCII names are written as-is.
func (s *Scanner) MemberSummary(row model.Row, size layout.Size) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.Members(row, size)); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
