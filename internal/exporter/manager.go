package exporter

import (
	"context"
	"fmt"
	"strings"

	"household-reshaper/internal/config"
	"household-reshaper/internal/exporter/html"
	"household-reshaper/internal/exporter/jsonreport"
	"household-reshaper/internal/exporter/word"
	"household-reshaper/internal/logger"
	"household-reshaper/internal/model"

	"golang.org/x/sync/errgroup"
)

// GetExporters returns a list of Exporters based on requested formats
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		name := canonicalFormat(fmtStr)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case "excel":
			exporters = append(exporters, NewExcelExporter())
		case "html":
			exporters = append(exporters, html.NewHTMLExporter())
		case "word":
			exporters = append(exporters, word.NewWordExporter())
		case "json":
			exporters = append(exporters, jsonreport.NewJSONExporter())
		}
	}

	return exporters
}

func canonicalFormat(f string) string {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case "excel", "xlsx":
		return "excel"
	case "html":
		return "html"
	case "word", "docx":
		return "word"
	case "json":
		return "json"
	}
	return ""
}

// SplitFormats parses a comma-separated -format flag
func SplitFormats(formats string) []string {
	var out []string
	for _, f := range strings.Split(formats, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ExportAll runs every exporter concurrently; each writes its own file.
// done is called once per finished exporter and may be nil.
func ExportAll(ctx context.Context, exporters []Exporter, result *model.Result, cfg *config.Config, done func()) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, exp := range exporters {
		exp := exp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func() {
				if done != nil {
					done()
				}
			}()

			if err := exp.Export(result, cfg); err != nil {
				logger.Error("Export failed (%T): %v", exp, err)
				return fmt.Errorf("%T: %w", exp, err)
			}
			return nil
		})
	}

	return g.Wait()
}
