package stats

import "mis-reports/internal/records"

// MonthLabels are the fixed calendar-order bucket labels.
var MonthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ChartSeries is a 12-bucket histogram of records per calendar month.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// Total returns the number of records that landed in a bucket.
func (c ChartSeries) Total() int {
	return Sum(c.Counts)
}

// HasData reports whether at least one record has been bucketed.
func (c ChartSeries) HasData() bool {
	return c.Total() > 0
}

// MonthlySeries buckets records by the calendar month of their date. The year is
// ignored, so multi-year data folds onto the same twelve buckets. Records without
// a date are left out of the series.
func MonthlySeries(recs []records.NormalizedRecord) ChartSeries {
	series := ChartSeries{
		Labels: make([]string, len(MonthLabels)),
		Counts: make([]int, len(MonthLabels)),
	}
	copy(series.Labels, MonthLabels)

	for _, r := range recs {
		if r.Date == nil {
			continue
		}
		series.Counts[int(r.Date.Month())-1]++
	}
	return series
}
