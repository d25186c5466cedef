package stats

import "mis-reports/internal/records"

// Recognized status values. Matching is case-sensitive and the set is not closed:
// other strings count toward the total only.
const (
	StatusActive    = "active"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Summary holds the aggregate figures shown in every export.
type Summary struct {
	TotalRecords   int `json:"totalRecords"`
	Active         int `json:"active"`
	Pending        int `json:"pending"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completionRate"`
}

// ActiveRate is the share of active records, as a rounded percentage.
func (s Summary) ActiveRate() int {
	return Percentage(s.Active, s.TotalRecords)
}

// PendingRate is the share of pending records, as a rounded percentage.
func (s Summary) PendingRate() int {
	return Percentage(s.Pending, s.TotalRecords)
}

// Summarize counts records by status and derives the completion rate.
func Summarize(recs []records.NormalizedRecord) Summary {
	s := Summary{TotalRecords: len(recs)}
	for _, r := range recs {
		switch r.Status {
		case StatusActive:
			s.Active++
		case StatusPending:
			s.Pending++
		case StatusCompleted:
			s.Completed++
		}
	}
	s.CompletionRate = Percentage(s.Completed, s.TotalRecords)
	return s
}

// Aggregate computes the summary and the monthly series in one call.
func Aggregate(recs []records.NormalizedRecord) (Summary, ChartSeries) {
	return Summarize(recs), MonthlySeries(recs)
}
