package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Summary holds the counters of one conversion pass
type Summary struct {
	RunID      string `json:"runId"`
	SourceFile string `json:"sourceFile"`
	RunDate    string `json:"runDate"`

	Households      int `json:"households"`
	GeneratedRows   int `json:"generatedRows"`
	MembersScanned  int `json:"membersScanned"`
	Findings        int `json:"findings"`
	MissingNames    int `json:"missingNames"`
	MissingAges     int `json:"missingAges"`
	MalformedCounts int `json:"malformedCounts"`
	ShortRows       int `json:"shortRows"`

	// CorrectedCounts counts households whose filled blocks exceeded the declared count
	CorrectedCounts int `json:"correctedCounts"`
}

// NewSummary creates an empty Summary
func NewSummary() *Summary {
	return &Summary{}
}

// Stamp records where and when the pass ran and gives it a fresh run id
func (s *Summary) Stamp(sourceFile string, now time.Time) {
	s.RunID = uuid.NewString()
	s.SourceFile = sourceFile
	s.RunDate = now.Format("2006-01-02")
}

// Result is everything one pass produces
type Result struct {
	Header   Row
	Rows     []Row
	Findings []Finding
	Warnings []Warning
	Summary  *Summary
}

// HasFindings reports whether the missing-data report should be written
func (r *Result) HasFindings() bool {
	return r != nil && len(r.Findings) > 0
}

func isEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
