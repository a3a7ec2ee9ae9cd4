package model

// MissingDataHeader is the fixed header of the missing-data report
var MissingDataHeader = []string{
	"Grama Niladhari Area",
	"Household ID",
	"Member ID",
	"Name",
	"Age",
	"Contact No",
	"All Members",
}

// MemberSummary is one entry of a household's member list
type MemberSummary struct {
	Name string `json:"name"`
	Age  string `json:"age"`
}

// Finding records a member whose name or age is missing.
// AllMembers is the serialized member list of the household; it is the same
// string on every finding from that household.
type Finding struct {
	Area        string `json:"area"`
	HouseholdID string `json:"householdId"`
	MemberID    string `json:"memberId"`
	Name        string `json:"name"`
	Age         string `json:"age"`
	ContactNo   string `json:"contactNo"`
	AllMembers  string `json:"allMembers"`

	// SourceRow is the 1-based spreadsheet row the finding came from
	SourceRow int `json:"sourceRow"`
	// Block is the 0-based member block index inside that row
	Block int `json:"block"`
}

// Cells returns the finding in MissingDataHeader column order
func (f Finding) Cells() Row {
	return Row{f.Area, f.HouseholdID, f.MemberID, f.Name, f.Age, f.ContactNo, f.AllMembers}
}

// MissingName reports whether the member's name is empty
func (f Finding) MissingName() bool {
	return isEmpty(f.Name)
}

// MissingAge reports whether the member's age is empty
func (f Finding) MissingAge() bool {
	return isEmpty(f.Age)
}

// WarningKind classifies a recoverable row-level anomaly
type WarningKind string

const (
	WarningMalformedCount WarningKind = "MALFORMED_COUNT"
)

// Warning is a row-level anomaly that was recovered with a default
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Row    int         `json:"row"`
	Column int         `json:"column"`
	Raw    string      `json:"raw"`
	Detail string      `json:"detail"`
}
