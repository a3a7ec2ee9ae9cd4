package exporter

import (
	"fmt"
	"io"

	"household-reshaper/internal/config"
	"household-reshaper/internal/logger"
	"household-reshaper/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	ReshapedSheet = "Reformatted Data"
	MissingSheet  = "Missing Data"
)

// ExcelExporter writes the reshaped workbook and, when members are missing
// data, the missing-data workbook.
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export saves both workbooks under the configured output directory
func (e *ExcelExporter) Export(result *model.Result, cfg *config.Config) error {
	f, err := BuildReshaped(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(cfg.GetReshapedPath()); err != nil {
		return fmt.Errorf("failed to save reshaped workbook: %w", err)
	}
	logger.Info("Saved to %s", cfg.GetReshapedPath())

	if !result.HasFindings() {
		return nil
	}

	mf, err := BuildMissing(result.Findings)
	if err != nil {
		return err
	}
	defer mf.Close()

	if err := mf.SaveAs(cfg.GetMissingPath()); err != nil {
		return fmt.Errorf("failed to save missing-data workbook: %w", err)
	}
	logger.Info("Saved missing data report to %s", cfg.GetMissingPath())

	return nil
}

// WriteReshaped encodes the reshaped workbook to w
func WriteReshaped(w io.Writer, result *model.Result) error {
	f, err := BuildReshaped(result)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

// WriteMissing encodes the missing-data workbook to w
func WriteMissing(w io.Writer, findings []model.Finding) error {
	f, err := BuildMissing(findings)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

// BuildReshaped lays out the header and one row per member.
// Rows are streamed since a survey sheet easily reaches tens of thousands
// of member rows.
func BuildReshaped(result *model.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	styler, err := NewStyler(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", ReshapedSheet); err != nil {
		f.Close()
		return nil, err
	}

	sw, err := f.NewStreamWriter(ReshapedSheet)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(result.Header))
	for i, v := range result.Header {
		header[i] = excelize.Cell{StyleID: styler.HeaderStyle, Value: v}
	}
	if err := sw.SetRow("A1", header); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range result.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, cellValues(row)); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// BuildMissing lays out the fixed 7-column missing-data report
func BuildMissing(findings []model.Finding) (*excelize.File, error) {
	f := excelize.NewFile()
	s, err := NewStyler(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	sheet := MissingSheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	writeRow(f, sheet, 1, model.MissingDataHeader, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for i, finding := range findings {
		row := i + 2
		cells := finding.Cells()
		writeRow(f, sheet, row, cells, s.DefaultStyle)

		// Columns D (Name) and E (Age) are the ones that can be blank
		if finding.MissingName() {
			f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), s.MissingStyle)
		}
		if finding.MissingAge() {
			f.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), s.MissingStyle)
		}
		f.SetCellStyle(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("G%d", row), s.SummaryStyle)
	}

	f.SetColWidth(sheet, "A", "C", 22) // Area / Household / Member
	f.SetColWidth(sheet, "D", "D", 28) // Name
	f.SetColWidth(sheet, "E", "F", 14) // Age / Contact
	f.SetColWidth(sheet, "G", "G", 80) // All Members

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if val != "" {
			f.SetCellValue(sheet, cell, val)
		}
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

// cellValues maps absent cells to nil so they stay empty in the sheet
func cellValues(row model.Row) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		if v != "" {
			out[i] = v
		}
	}
	return out
}
