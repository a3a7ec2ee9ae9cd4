package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"household-reshaper/internal/model"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func readCSV(data []byte, opts Options) ([]model.Row, error) {
	decoded, err := decode(data, opts.Encoding)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse CSV: %w", err)
	}
	return toRows(records), nil
}

// decode converts data to UTF-8.
// A byte-order mark always wins; valid UTF-8 passes through; otherwise the
// first non-UTF-8 hint is applied, defaulting to Windows-1252.
func decode(data []byte, hints []string) ([]byte, error) {
	fallback := fallbackEncoding(data, hints)

	decoder := unicode.BOMOverride(fallback.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, fmt.Errorf("could not decode CSV text: %w", err)
	}
	return out, nil
}

func fallbackEncoding(data []byte, hints []string) encoding.Encoding {
	if utf8.Valid(data) {
		return unicode.UTF8
	}

	for _, hint := range hints {
		name := strings.ToLower(strings.TrimSpace(hint))
		if name == "" || name == "utf-8" || name == "utf8" {
			continue
		}
		enc, err := htmlindex.Get(name)
		if err == nil {
			return enc
		}
	}
	return charmap.Windows1252
}
