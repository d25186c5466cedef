package report

import (
	"fmt"
	"strings"
	"time"

	"mis-reports/internal/records"
	"mis-reports/internal/registry"
	"mis-reports/internal/stats"
)

// DateRange is an inclusive reporting period. Zero times mean "not chosen".
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Request is one report generation request.
type Request struct {
	Module    registry.Module   `json:"module"`
	Category  string            `json:"category"`
	DateRange DateRange         `json:"dateRange"`
	Filters   map[string]string `json:"filters,omitempty"`
}

// Validate checks the request in the order the errors are reported to users.
// Category membership is checked later against the registry.
func (r Request) Validate() error {
	switch {
	case r.Module == "":
		return ErrMissingModule
	case r.Category == "":
		return ErrMissingCategory
	case r.DateRange.Start.IsZero() || r.DateRange.End.IsZero():
		return ErrMissingDateRange
	case r.DateRange.Start.After(r.DateRange.End):
		return ErrInvalidDateRange
	}
	return nil
}

// Clone returns a copy that shares no maps with r.
func (r Request) Clone() Request {
	out := r
	if r.Filters != nil {
		out.Filters = make(map[string]string, len(r.Filters))
		for k, v := range r.Filters {
			out.Filters[k] = v
		}
	}
	return out
}

// Report is the result of one successful generation. It is never mutated after
// Generate returns; the next generation replaces it.
type Report struct {
	Summary stats.Summary              `json:"summary"`
	Records []records.NormalizedRecord `json:"records"`
	Chart   stats.ChartSeries          `json:"chart"`
}

// ParseRequest builds a request from user-supplied strings. Module spellings
// are normalized; an unrecognized module is kept verbatim so that lookup
// reports it as an unknown category. Empty dates are left zero.
func ParseRequest(module, category, start, end string, filters map[string]string) (Request, error) {
	req := Request{
		Module:   registry.Module(strings.TrimSpace(module)),
		Category: strings.TrimSpace(category),
		Filters:  map[string]string{},
	}
	if m, ok := registry.ParseModule(string(req.Module)); ok {
		req.Module = m
	}
	var err error
	if req.DateRange.Start, err = parseDay(start); err != nil {
		return Request{}, err
	}
	if req.DateRange.End, err = parseDay(end); err != nil {
		return Request{}, err
	}
	for k, v := range filters {
		if v = strings.TrimSpace(v); v != "" {
			req.Filters[k] = v
		}
	}
	return req, nil
}

func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(records.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}
