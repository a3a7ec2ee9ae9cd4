package reshape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"household-reshaper/internal/layout"
	"household-reshaper/internal/logger"
	"household-reshaper/internal/model"
)

const (
	colCount     = 69
	colArea      = 4
	colHousehold = 47
)

// headerRow returns [H0..H(n-1)]
func headerRow(n int) model.Row {
	row := make(model.Row, n)
	for i := range row {
		row[i] = fmt.Sprintf("H%d", i)
	}
	return row
}

// householdRow builds a 600-column row with household identifiers and the given cells
func householdRow(cells map[int]string) model.Row {
	row := model.Absent(600)
	row[0] = "2024-01-05"
	row[colArea] = "Kandy North"
	row[colHousehold] = "HH-001"
	row[550] = "suffix-first"
	row[599] = "suffix-last"
	for i, v := range cells {
		row[i] = v
	}
	return row
}

// block returns the column of field offset within member block j
func block(j, offset int) int {
	return 70 + j*32 + offset
}

func run(t *testing.T, rows ...model.Row) *model.Result {
	t.Helper()
	all := append([]model.Row{headerRow(600)}, rows...)
	result, err := NewPass(layout.Default()).Run(context.Background(), all)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return result
}

func TestScenarioTwoMembersOneMissingName(t *testing.T) {
	row := householdRow(map[int]string{
		colCount:    "2",
		block(0, 0): "M1", block(0, 1): "Alice", block(0, 2): "30",
		block(1, 0): "M2", block(1, 1): "", block(1, 2): "25",
	})

	result := run(t, row)

	if len(result.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, expected 2", len(result.Rows))
	}
	if result.Rows[0][70] != "M1" || result.Rows[1][70] != "M2" {
		t.Errorf("Member ids out of order: %q, %q", result.Rows[0][70], result.Rows[1][70])
	}

	if len(result.Findings) != 1 {
		t.Fatalf("len(Findings) = %d, expected 1", len(result.Findings))
	}
	f := result.Findings[0]
	if f.MemberID != "M2" || !f.MissingName() || f.MissingAge() {
		t.Errorf("Unexpected finding: %+v", f)
	}
	if f.Area != "Kandy North" || f.HouseholdID != "HH-001" {
		t.Errorf("Finding lost household context: %+v", f)
	}
	if f.AllMembers != `[{"name":"Alice","age":"30"},{"name":"","age":"25"}]` {
		t.Errorf("AllMembers = %s", f.AllMembers)
	}
	if f.SourceRow != 2 || f.Block != 1 {
		t.Errorf("SourceRow/Block = %d/%d, expected 2/1", f.SourceRow, f.Block)
	}
}

func TestScenarioEmptyHousehold(t *testing.T) {
	row := householdRow(map[int]string{colCount: "0"})

	result := run(t, row)

	if len(result.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, expected 1", len(result.Rows))
	}
	if !result.Rows[0][70:81].IsBlank() {
		t.Errorf("Kept block region should be absent, got %v", result.Rows[0][70:81])
	}
	if len(result.Findings) != 0 {
		t.Errorf("Expected no findings, got %d", len(result.Findings))
	}
	if result.HasFindings() {
		t.Error("HasFindings() should be false")
	}
}

func TestScenarioFilledBlocksOverrideDeclaredCount(t *testing.T) {
	row := householdRow(map[int]string{
		colCount:    "1",
		block(2, 0): "M3", block(2, 1): "Chamari", block(2, 2): "41",
	})

	result := run(t, row)

	if len(result.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, expected 3", len(result.Rows))
	}
	for i := 0; i < 2; i++ {
		if !result.Rows[i][70:81].IsBlank() {
			t.Errorf("Row %d should have absent block data, got %v", i, result.Rows[i][70:81])
		}
	}
	if result.Rows[2][70] != "M3" || result.Rows[2][71] != "Chamari" {
		t.Errorf("Row 2 should carry M3, got %v", result.Rows[2][70:73])
	}
	if result.Summary.CorrectedCounts != 1 {
		t.Errorf("CorrectedCounts = %d, expected 1", result.Summary.CorrectedCounts)
	}
}

func TestScenarioContactFromSubField(t *testing.T) {
	row := householdRow(map[int]string{
		colCount:    "1",
		61:          "",
		62:          "0712345678",
		block(0, 0): "M1", block(0, 1): "Nimal",
	})

	result := run(t, row)

	if len(result.Findings) != 1 {
		t.Fatalf("len(Findings) = %d, expected 1", len(result.Findings))
	}
	if result.Findings[0].ContactNo != "0712345678" {
		t.Errorf("ContactNo = %q, expected 0712345678", result.Findings[0].ContactNo)
	}
}

func TestRowCountProperty(t *testing.T) {
	l := layout.Default()

	cases := []map[int]string{
		{colCount: "3"},
		{colCount: "0", block(4, 1): "Kumari"},
		{colCount: "abc", block(0, 0): "M1"},
		{colCount: "20"},
		{block(14, 0): "M15"},
	}

	for i, cells := range cases {
		row := householdRow(cells)
		size := l.HouseholdSize(row)
		result := run(t, row)

		expected := 1
		if size.Declared > expected {
			expected = size.Declared
		}
		if size.FilledBlocks > expected {
			expected = size.FilledBlocks
		}
		if len(result.Rows) != expected {
			t.Errorf("case %d: len(Rows) = %d, expected %d", i, len(result.Rows), expected)
		}
	}
}

func TestBlocksBeyondCapacityAreAbsent(t *testing.T) {
	cells := map[int]string{colCount: "18"}
	for j := 0; j < 15; j++ {
		cells[block(j, 0)] = fmt.Sprintf("M%d", j+1)
		cells[block(j, 1)] = fmt.Sprintf("Name%d", j+1)
		cells[block(j, 2)] = "20"
	}

	result := run(t, householdRow(cells))

	if len(result.Rows) != 18 {
		t.Fatalf("len(Rows) = %d, expected 18", len(result.Rows))
	}
	for j := 15; j < 18; j++ {
		if !result.Rows[j][70:81].IsBlank() {
			t.Errorf("Row %d beyond block capacity has data: %v", j, result.Rows[j][70:81])
		}
		if result.Rows[j][0] != "2024-01-05" {
			t.Errorf("Row %d should still carry the prefix", j)
		}
	}
	if len(result.Findings) != 0 {
		t.Errorf("Complete members should not produce findings, got %d", len(result.Findings))
	}
}

func TestBlockWithoutMemberIDIsNotReported(t *testing.T) {
	row := householdRow(map[int]string{
		colCount:    "3",
		block(0, 0): "", block(0, 1): "Orphan", block(0, 2): "",
		block(1, 0): "", block(1, 1): "", block(1, 2): "",
		block(2, 0): "M3", block(2, 1): "Saman", block(2, 2): "",
	})

	result := run(t, row)

	if len(result.Findings) != 1 {
		t.Fatalf("len(Findings) = %d, expected 1", len(result.Findings))
	}
	if result.Findings[0].MemberID != "M3" {
		t.Errorf("Only M3 should be reported, got %s", result.Findings[0].MemberID)
	}
}

func TestSummaryIdenticalAcrossHousehold(t *testing.T) {
	row := householdRow(map[int]string{
		colCount:    "3",
		block(0, 0): "M1", block(0, 1): "Anura",
		block(1, 0): "M2", block(1, 2): "12",
		block(2, 0): "M3", block(2, 1): "Siri", block(2, 2): "70",
	})

	result := run(t, row)

	if len(result.Findings) != 2 {
		t.Fatalf("len(Findings) = %d, expected 2", len(result.Findings))
	}
	if result.Findings[0].AllMembers != result.Findings[1].AllMembers {
		t.Errorf("AllMembers differs within a household:\n%s\n%s", result.Findings[0].AllMembers, result.Findings[1].AllMembers)
	}

	var members []model.MemberSummary
	if err := json.Unmarshal([]byte(result.Findings[0].AllMembers), &members); err != nil {
		t.Fatalf("AllMembers is not valid JSON: %v", err)
	}
	expected := []model.MemberSummary{{Name: "Anura"}, {Age: "12"}, {Name: "Siri", Age: "70"}}
	if !reflect.DeepEqual(members, expected) {
		t.Errorf("members = %+v, expected %+v", members, expected)
	}
}

func TestSummaryKeepsNonASCII(t *testing.T) {
	row := householdRow(map[int]string{
		colCount:    "1",
		block(0, 0): "M1", block(0, 1): "සුනිල්",
	})

	result := run(t, row)

	if len(result.Findings) != 1 {
		t.Fatalf("len(Findings) = %d, expected 1", len(result.Findings))
	}
	if result.Findings[0].AllMembers != `[{"name":"සුනිල්","age":""}]` {
		t.Errorf("AllMembers = %s", result.Findings[0].AllMembers)
	}
}

func TestShortRow(t *testing.T) {
	row := model.Row{"2024-01-05", "", "", "", "Area"}

	result := run(t, row)

	if len(result.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, expected 1", len(result.Rows))
	}
	// Prefix and kept block are padded; the suffix is empty
	if len(result.Rows[0]) != 81 {
		t.Errorf("len(row) = %d, expected 81", len(result.Rows[0]))
	}
	if result.Summary.ShortRows != 1 {
		t.Errorf("ShortRows = %d, expected 1", result.Summary.ShortRows)
	}
}

func TestMalformedCountIsWarning(t *testing.T) {
	row := householdRow(map[int]string{colCount: "two", block(0, 0): "M1", block(0, 1): "A", block(0, 2): "1"})

	result := run(t, row)

	if len(result.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, expected 1", len(result.Warnings))
	}
	w := result.Warnings[0]
	if w.Kind != model.WarningMalformedCount || w.Row != 2 || w.Column != 69 || w.Raw != "two" {
		t.Errorf("Unexpected warning: %+v", w)
	}
	if len(result.Rows) != 1 {
		t.Errorf("len(Rows) = %d, expected 1", len(result.Rows))
	}
}

func TestPrefixSuffixDuplicated(t *testing.T) {
	row := householdRow(map[int]string{colCount: "3"})

	result := run(t, row)

	for i, r := range result.Rows {
		if r[0] != "2024-01-05" || r[colHousehold] != "HH-001" {
			t.Errorf("Row %d lost its prefix", i)
		}
		if r[81] != "suffix-first" || r[len(r)-1] != "suffix-last" {
			t.Errorf("Row %d lost its suffix", i)
		}
	}
}

func TestBlankRepeatedHousehold(t *testing.T) {
	row := householdRow(map[int]string{colCount: "2", block(1, 0): "M2", block(1, 1): "B", block(1, 2): "5"})
	all := []model.Row{headerRow(600), row}

	result, err := NewPass(layout.Default()).BlankRepeatedHousehold(true).Run(context.Background(), all)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Rows[0][colHousehold] != "HH-001" {
		t.Error("First member row must keep the household fields")
	}
	if !result.Rows[1][:70].IsBlank() || !result.Rows[1][81:].IsBlank() {
		t.Error("Later member rows must have blank prefix and suffix")
	}
	if result.Rows[1][70] != "M2" {
		t.Errorf("Block data must survive blanking, got %q", result.Rows[1][70])
	}
}

func TestReshapedHeader(t *testing.T) {
	result := run(t, householdRow(nil))

	if len(result.Header) != 131 {
		t.Fatalf("len(Header) = %d, expected 131", len(result.Header))
	}
	if result.Header[81] != "H550" {
		t.Errorf("Header[81] = %s, expected H550", result.Header[81])
	}
}

func TestIdempotence(t *testing.T) {
	rows := []model.Row{
		headerRow(600),
		householdRow(map[int]string{colCount: "2", block(0, 0): "M1", block(1, 0): "M2", block(1, 1): "X"}),
		householdRow(map[int]string{colCount: "zz", block(3, 1): "Y"}),
	}

	pass := NewPass(layout.Default())
	first, err := pass.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second, err := pass.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Re-running the pass produced different output")
	}
}

func TestSummaryCounters(t *testing.T) {
	result := run(t,
		householdRow(map[int]string{colCount: "2", block(0, 0): "M1", block(0, 1): "A", block(1, 0): "M2", block(1, 2): "9"}),
		householdRow(map[int]string{colCount: "x"}),
	)

	sum := result.Summary
	if sum.Households != 2 {
		t.Errorf("Households = %d, expected 2", sum.Households)
	}
	if sum.GeneratedRows != 3 {
		t.Errorf("GeneratedRows = %d, expected 3", sum.GeneratedRows)
	}
	if sum.MembersScanned != 2 {
		t.Errorf("MembersScanned = %d, expected 2", sum.MembersScanned)
	}
	if sum.Findings != 2 || sum.MissingAges != 1 || sum.MissingNames != 1 {
		t.Errorf("Unexpected finding counters: %+v", sum)
	}
	if sum.MalformedCounts != 1 {
		t.Errorf("MalformedCounts = %d, expected 1", sum.MalformedCounts)
	}
}

type countingProgress struct{ n int }

func (c *countingProgress) Increment() error {
	c.n++
	return nil
}

func TestProgressTicksPerHousehold(t *testing.T) {
	progress := &countingProgress{}
	rows := []model.Row{headerRow(600), householdRow(nil), householdRow(nil), householdRow(nil)}

	if _, err := NewPass(layout.Default()).WithProgress(progress).Run(context.Background(), rows); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if progress.n != 3 {
		t.Errorf("progress ticks = %d, expected 3", progress.n)
	}
}

type brokenProgress struct{ calls int }

func (b *brokenProgress) Increment() error {
	b.calls++
	return errors.New("terminal closed")
}

func TestProgressFailureDoesNotStopRun(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	if err := logger.Init(&bytes.Buffer{}, logPath, false); err != nil {
		t.Fatalf("logger.Init failed: %v", err)
	}
	t.Cleanup(logger.Close)

	progress := &brokenProgress{}
	rows := []model.Row{headerRow(600), householdRow(nil), householdRow(nil)}

	result, err := NewPass(layout.Default()).WithProgress(progress).Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Summary.Households != 2 || progress.calls != 2 {
		t.Errorf("Households = %d, progress calls = %d, expected 2 and 2", result.Summary.Households, progress.calls)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "progress update failed at row 2: terminal closed") {
		t.Errorf("Progress failure was not logged: %q", content)
	}
}

func TestEmptyInput(t *testing.T) {
	pass := NewPass(layout.Default())

	if _, err := pass.Run(context.Background(), nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput for no rows, got %v", err)
	}
	if _, err := pass.Run(context.Background(), []model.Row{headerRow(600)}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput for header only, got %v", err)
	}
}

func TestCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPass(layout.Default()).Run(ctx, []model.Row{headerRow(600), householdRow(nil)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
