package word

import (
	"fmt"
	"os"
	"strings"

	"household-reshaper/internal/config"
	"household-reshaper/internal/model"

	"github.com/nguyenthenguyen/docx"
)

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Export(result *model.Result, cfg *config.Config) error {
	templatePath := cfg.Output.WordTemplate
	if templatePath == "" {
		// docx only opens templates from disk
		tmpFile, err := os.CreateTemp("", "household-reshaper-template-*.docx")
		if err != nil {
			return fmt.Errorf("failed to create temp file: %w", err)
		}
		defer os.Remove(tmpFile.Name())

		if err := WriteTemplate(tmpFile); err != nil {
			tmpFile.Close()
			return fmt.Errorf("failed to write template to temp file: %w", err)
		}
		if err := tmpFile.Close(); err != nil {
			return fmt.Errorf("failed to close temp file: %w", err)
		}
		templatePath = tmpFile.Name()
	}

	r, err := docx.ReadDocxFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read docx template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	sum := result.Summary

	doc.Replace(PlaceholderDate, sum.RunDate, -1)
	doc.Replace(PlaceholderSource, sum.SourceFile, -1)
	doc.Replace(PlaceholderHouseholds, fmt.Sprintf("%d", sum.Households), -1)
	doc.Replace(PlaceholderRows, fmt.Sprintf("%d", sum.GeneratedRows), -1)
	doc.Replace(PlaceholderFindings, fmt.Sprintf("%d", sum.Findings), -1)
	doc.Replace(PlaceholderContent, BuildContent(result), -1)

	if err := doc.WriteToFile(cfg.ReportPath("docx")); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}

	return nil
}

// BuildContent renders the body text: the run counters, one table line per
// member missing a name or age, then any row warnings.
func BuildContent(result *model.Result) string {
	sum := result.Summary

	var sb strings.Builder
	sb.WriteString("RUN SUMMARY\n\n")
	sb.WriteString(fmt.Sprintf("  • Households: %d\n", sum.Households))
	sb.WriteString(fmt.Sprintf("  • Member rows generated: %d\n", sum.GeneratedRows))
	sb.WriteString(fmt.Sprintf("  • Members with an ID: %d\n", sum.MembersScanned))
	sb.WriteString(fmt.Sprintf("  • Missing names: %d\n", sum.MissingNames))
	sb.WriteString(fmt.Sprintf("  • Missing ages: %d\n", sum.MissingAges))
	sb.WriteString(fmt.Sprintf("  • Declared counts corrected: %d\n", sum.CorrectedCounts))
	sb.WriteString(fmt.Sprintf("  • Unreadable member counts: %d\n", sum.MalformedCounts))
	sb.WriteString(fmt.Sprintf("  • Short rows: %d\n\n", sum.ShortRows))
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	if result.HasFindings() {
		writeFindings(&sb, result.Findings)
	} else {
		sb.WriteString("No missing data found.\n")
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("\nROW WARNINGS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, w := range result.Warnings {
			sb.WriteString(fmt.Sprintf("Row %d, column %d: %s (value %q)\n", w.Row, w.Column, w.Detail, w.Raw))
		}
	}

	return sb.String()
}

func writeFindings(sb *strings.Builder, findings []model.Finding) {
	sb.WriteString("MEMBERS MISSING DATA\n\n")
	sb.WriteString(fmt.Sprintf("%-20s %-15s %-12s %-25s %-6s %s\n", "Area", "Household", "Member", "Name", "Age", "Contact"))
	sb.WriteString(strings.Repeat("-", 100) + "\n")

	for _, f := range findings {
		sb.WriteString(fmt.Sprintf("%-20s %-15s %-12s %-25s %-6s %s\n",
			truncate(f.Area, 20),
			truncate(f.HouseholdID, 15),
			truncate(f.MemberID, 12),
			truncate(orMissing(f.Name), 25),
			truncate(orMissing(f.Age), 6),
			f.ContactNo))
	}
}

func orMissing(s string) string {
	if s == "" {
		return "(missing)"
	}
	return s
}

// truncate truncates a string to a maximum number of runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
