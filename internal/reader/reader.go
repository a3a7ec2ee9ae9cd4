// Package reader decodes a survey spreadsheet into positional rows.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"household-reshaper/internal/model"
)

var (
	// ErrNoSheet is returned when the workbook has no usable sheet
	ErrNoSheet = errors.New("no sheet found in workbook")
	// ErrUnsupportedFormat is returned for inputs that are neither xlsx nor csv
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Options controls how a source file is decoded
type Options struct {
	Sheet     string   // Sheet name; empty means the first sheet
	Encoding  []string // Encoding hints for CSV input
	RawValues bool     // Read unformatted cell values from xlsx
}

// Format identifies the container of a source file
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var zipMagic = []byte("PK\x03\x04")

// DetectFormat picks a decoder from the file name, falling back to the
// content when the extension is unknown.
func DetectFormat(name string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	}

	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX, nil
	}
	if len(head) > 0 && bytes.IndexByte(head, 0) < 0 {
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// ReadFile decodes the file at path.
// Row 0 is the header; cells keep their column position.
func ReadFile(path string, opts Options) ([]model.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ReadBytes(filepath.Base(path), data, opts)
}

// Read decodes an uploaded file. name is only used to pick the format.
func Read(name string, r io.Reader, opts Options) ([]model.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return ReadBytes(name, data, opts)
}

// ReadBytes decodes an in-memory file
func ReadBytes(name string, data []byte, opts Options) ([]model.Row, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}

	format, err := DetectFormat(name, head)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return readXLSX(data, opts)
	default:
		return readCSV(data, opts)
	}
}

func toRows(records [][]string) []model.Row {
	rows := make([]model.Row, len(records))
	for i, rec := range records {
		rows[i] = model.Row(rec)
	}
	return rows
}
