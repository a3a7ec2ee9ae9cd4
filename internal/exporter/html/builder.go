package html

import (
	"encoding/json"
	"html/template"
	"io"
	"os"

	"household-reshaper/internal/config"
	"household-reshaper/internal/model"
)

type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// ReportData feeds MissingReportTemplate
type ReportData struct {
	Summary    *model.Summary
	Households []HouseholdGroup
	Warnings   []model.Warning
}

// HouseholdGroup is the findings of one household row, in block order
type HouseholdGroup struct {
	SourceRow   int
	Area        string
	HouseholdID string
	ContactNo   string
	Members     []model.MemberSummary
	Findings    []model.Finding
}

func (e *HTMLExporter) Export(result *model.Result, cfg *config.Config) error {
	f, err := os.Create(cfg.ReportPath("html"))
	if err != nil {
		return err
	}
	defer f.Close()

	return Write(f, result)
}

// Write renders the report to w
func Write(w io.Writer, result *model.Result) error {
	tmpl, err := template.New("missing-report").Funcs(template.FuncMap{
		"orDash": func(s string) string {
			if s == "" {
				return "-"
			}
			return s
		},
		"inc": func(i int) int {
			return i + 1
		},
	}).Parse(MissingReportTemplate)
	if err != nil {
		return err
	}

	data := ReportData{
		Summary:    result.Summary,
		Households: GroupByHousehold(result.Findings),
		Warnings:   result.Warnings,
	}
	return tmpl.Execute(w, data)
}

// GroupByHousehold folds consecutive findings of the same source row together.
// Findings arrive in input order, so one pass is enough.
func GroupByHousehold(findings []model.Finding) []HouseholdGroup {
	var groups []HouseholdGroup
	for _, f := range findings {
		n := len(groups)
		if n > 0 && groups[n-1].SourceRow == f.SourceRow {
			groups[n-1].Findings = append(groups[n-1].Findings, f)
			continue
		}

		var members []model.MemberSummary
		_ = json.Unmarshal([]byte(f.AllMembers), &members)

		groups = append(groups, HouseholdGroup{
			SourceRow:   f.SourceRow,
			Area:        f.Area,
			HouseholdID: f.HouseholdID,
			ContactNo:   f.ContactNo,
			Members:     members,
			Findings:    []model.Finding{f},
		})
	}
	return groups
}
