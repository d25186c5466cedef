package records

import (
	"strings"
	"time"
)

// RawRecord is one backend record as decoded from JSON. No schema is assumed.
type RawRecord map[string]any

// Tag is a semantic key for attributes outside the canonical slots.
type Tag string

const (
	TagExamType    Tag = "Exam Type"
	TagBoardType   Tag = "Board Type"
	TagDiseaseType Tag = "Disease Type"
	TagCaseType    Tag = "Case Type"
	TagGroupType   Tag = "Group Type"
)

// extraFields maps raw keys to tags, in "Additional Info" order.
var extraFields = []struct {
	Key string
	Tag Tag
}{
	{"examType", TagExamType},
	{"boardType", TagBoardType},
	{"diseaseType", TagDiseaseType},
	{"caseType", TagCaseType},
	{"groupType", TagGroupType},
}

// Placeholder is shown for empty cells in every export format.
const Placeholder = "-"

// DateLayout is the display layout for record dates and reporting periods.
const DateLayout = "2006-01-02"

// NormalizedRecord is a record in the canonical shape shared by all categories.
// Values are built once by Normalize and treated as read-only afterwards.
type NormalizedRecord struct {
	ID              string         `json:"id"`
	DisplayName     string         `json:"displayName"`
	Status          string         `json:"status"`
	Date            *time.Time     `json:"date"`
	WardNo          string         `json:"wardNo"`
	Habitation      string         `json:"habitation"`
	ClassOrGrade    string         `json:"classOrGrade"`
	TreatmentStatus string         `json:"treatmentStatus"`
	ExtraAttributes map[Tag]string `json:"extraAttributes,omitempty"`
}

// DateLabel formats the record date, or Placeholder when it is absent.
func (r NormalizedRecord) DateLabel() string {
	if r.Date == nil {
		return Placeholder
	}
	return r.Date.Format(DateLayout)
}

// AdditionalInfo joins the present tagged attributes as "Tag: value" with "; ".
func (r NormalizedRecord) AdditionalInfo() string {
	var parts []string
	for _, f := range extraFields {
		if v := r.ExtraAttributes[f.Tag]; v != "" {
			parts = append(parts, string(f.Tag)+": "+v)
		}
	}
	return strings.Join(parts, "; ")
}

// DetailColumns are the detail-table headings, aligned with Cells.
var DetailColumns = []string{"Name", "Status", "Date", "Ward", "Habitation", "Class", "Treatment"}

// Cells returns the display values for DetailColumns. Every renderer goes
// through here so the formats never derive a cell differently.
func (r NormalizedRecord) Cells() []string {
	return []string{
		cell(r.DisplayName),
		cell(r.Status),
		r.DateLabel(),
		cell(r.WardNo),
		cell(r.Habitation),
		cell(r.ClassOrGrade),
		cell(r.TreatmentStatus),
	}
}

func cell(v string) string {
	if strings.TrimSpace(v) == "" {
		return Placeholder
	}
	return v
}
