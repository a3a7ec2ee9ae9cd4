package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Styler holds the cell styles registered on one workbook
type Styler struct {
	HeaderStyle  int
	DefaultStyle int
	MissingStyle int // blank name or age in the missing-data report
	SummaryStyle int // serialized member list
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "D4D4D4", Style: 1},
	{Type: "top", Color: "D4D4D4", Style: 1},
	{Type: "bottom", Color: "D4D4D4", Style: 1},
	{Type: "right", Color: "D4D4D4", Style: 1},
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

// NewStyler registers the report styles on f
func NewStyler(f *excelize.File) (*Styler, error) {
	s := &Styler{}
	specs := []struct {
		name  string
		id    *int
		style excelize.Style
	}{
		{"header", &s.HeaderStyle, excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      solidFill("#E0E0E0"),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		}},
		{"default", &s.DefaultStyle, excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "center"},
		}},
		{"missing", &s.MissingStyle, excelize.Style{
			Fill:      solidFill("#FDECEA"),
			Alignment: &excelize.Alignment{Vertical: "center"},
		}},
		{"summary", &s.SummaryStyle, excelize.Style{
			Font:      &excelize.Font{Color: "#555555"},
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		}},
	}

	for _, spec := range specs {
		spec.style.Border = thinBorder
		id, err := f.NewStyle(&spec.style)
		if err != nil {
			return nil, fmt.Errorf("failed to register %s style: %w", spec.name, err)
		}
		*spec.id = id
	}
	return s, nil
}
