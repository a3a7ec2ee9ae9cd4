// Package jsonreport writes the run summary and findings as JSON.
package jsonreport

import (
	"encoding/json"
	"io"
	"os"

	"household-reshaper/internal/config"
	"household-reshaper/internal/model"
)

// Report is the root JSON object
type Report struct {
	Summary  *model.Summary  `json:"summary"`
	Layout   LayoutInfo      `json:"layout"`
	Warnings []model.Warning `json:"warnings"`
	Findings []Finding       `json:"findings"`
}

// LayoutInfo records the layout the run was made with
type LayoutInfo struct {
	PrefixLength    int  `json:"prefixLength"`
	BlockSize       int  `json:"blockSize"`
	BlockCount      int  `json:"blockCount"`
	KeepBlockLength int  `json:"keepBlockLength"`
	SuffixStart     int  `json:"suffixStart"`
	BlankRepeated   bool `json:"blankRepeatedHousehold"`
}

// Finding is a model.Finding with the member list decoded, so consumers get
// structured data instead of a JSON string inside JSON.
type Finding struct {
	model.Finding
	Members []model.MemberSummary `json:"members"`
}

// JSONExporter writes <report_name>.json
type JSONExporter struct {
	// Stateless
}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Export(result *model.Result, cfg *config.Config) error {
	file, err := os.Create(cfg.ReportPath("json"))
	if err != nil {
		return err
	}
	defer file.Close()

	return Write(file, result, cfg)
}

// Write encodes the report to w
func Write(w io.Writer, result *model.Result, cfg *config.Config) error {
	report := Build(result, cfg)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(report)
}

// Build assembles the report without writing it
func Build(result *model.Result, cfg *config.Config) Report {
	report := Report{
		Summary: result.Summary,
		Layout: LayoutInfo{
			PrefixLength:    cfg.Layout.PrefixLength,
			BlockSize:       cfg.Layout.BlockSize,
			BlockCount:      cfg.Layout.BlockCount,
			KeepBlockLength: cfg.Layout.KeepBlockLength,
			SuffixStart:     cfg.Layout.SuffixStart(),
			BlankRepeated:   cfg.Layout.BlankRepeatedHousehold,
		},
		Warnings: result.Warnings,
		Findings: make([]Finding, 0, len(result.Findings)),
	}
	if report.Warnings == nil {
		report.Warnings = []model.Warning{}
	}

	for _, f := range result.Findings {
		var members []model.MemberSummary
		// AllMembers is produced by the scanner and always valid JSON
		_ = json.Unmarshal([]byte(f.AllMembers), &members)
		if members == nil {
			members = []model.MemberSummary{}
		}
		report.Findings = append(report.Findings, Finding{Finding: f, Members: members})
	}

	return report
}
