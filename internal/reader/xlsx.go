package reader

import (
	"bytes"
	"fmt"

	"household-reshaper/internal/model"

	"github.com/xuri/excelize/v2"
)

func readXLSX(data []byte, opts Options) ([]model.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data (is this a valid .xlsx file?): %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	// GetRows keeps gaps inside a row and only drops trailing empty cells
	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: opts.RawValues})
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheet, err)
	}

	return toRows(records), nil
}

func pickSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheet
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q not found, available sheets: %v", ErrNoSheet, name, sheets)
}
