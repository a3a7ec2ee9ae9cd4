package word

import (
	"path/filepath"
	"strings"
	"testing"

	"household-reshaper/internal/config"
	"household-reshaper/internal/model"

	"github.com/nguyenthenguyen/docx"
)

func resultFixture() *model.Result {
	sum := model.NewSummary()
	sum.SourceFile = "households.xlsx"
	sum.RunDate = "2024-01-02"
	sum.Households = 2
	sum.GeneratedRows = 5
	sum.Findings = 1
	sum.MissingNames = 1

	return &model.Result{
		Findings: []model.Finding{
			{Area: "Kandy", HouseholdID: "HH-1", MemberID: "M2", Age: "25", ContactNo: "0771234567", SourceRow: 2, Block: 1},
		},
		Summary: sum,
	}
}

func TestBuildContent(t *testing.T) {
	content := BuildContent(resultFixture())

	for _, want := range []string{"Households: 2", "Member rows generated: 5", "MEMBERS MISSING DATA", "HH-1", "(missing)", "0771234567"} {
		if !strings.Contains(content, want) {
			t.Errorf("Content does not contain %q", want)
		}
	}
	if strings.Contains(content, "ROW WARNINGS") {
		t.Error("Warnings section should be omitted when there are none")
	}
}

func TestBuildContentNoFindings(t *testing.T) {
	content := BuildContent(&model.Result{Summary: model.NewSummary()})
	if !strings.Contains(content, "No missing data found.") {
		t.Errorf("Unexpected content: %s", content)
	}
}

func TestBuildContentWarningsWithoutFindings(t *testing.T) {
	result := &model.Result{
		Summary:  model.NewSummary(),
		Warnings: []model.Warning{{Row: 2, Column: 69, Raw: "two", Detail: "could not parse member count"}},
	}

	content := BuildContent(result)
	for _, want := range []string{"No missing data found.", "ROW WARNINGS", "Row 2, column 69", `"two"`} {
		if !strings.Contains(content, want) {
			t.Errorf("Content does not contain %q:\n%s", want, content)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"ගෙදරගෙදරගෙදර", 6, "ගෙද..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tt.in, tt.max, got, tt.expected)
		}
	}
}

func TestWordExport(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()

	if err := NewWordExporter().Export(resultFixture(), cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	r, err := docx.ReadDocxFile(cfg.ReportPath("docx"))
	if err != nil {
		t.Fatalf("Failed to read generated document: %v", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	if strings.Contains(content, "{{") {
		t.Error("Generated document still contains placeholders")
	}
	if !strings.Contains(content, "households.xlsx") {
		t.Error("Source file name was not filled in")
	}
}

func TestWordExportCustomTemplate(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Output.WordTemplate = filepath.Join(t.TempDir(), "custom.docx")

	if err := WriteTemplateFile(cfg.Output.WordTemplate); err != nil {
		t.Fatalf("WriteTemplateFile failed: %v", err)
	}
	if err := NewWordExporter().Export(resultFixture(), cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
}

func TestWordExportMissingTemplate(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Output.WordTemplate = filepath.Join(t.TempDir(), "absent.docx")

	if err := NewWordExporter().Export(resultFixture(), cfg); err == nil {
		t.Error("Expected an error for a missing template")
	}
}
