package report

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"mis-reports/internal/backend"
	"mis-reports/internal/registry"
)

type mockClient struct {
	backend.Client
	ListFunc func(ctx context.Context, collection string, params map[string]string) (any, error)
	calls    atomic.Int32
}

func (m *mockClient) List(ctx context.Context, collection string, params map[string]string) (any, error) {
	m.calls.Add(1)
	return m.ListFunc(ctx, collection, params)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tbRequest() Request {
	return Request{
		Module:    registry.Health,
		Category:  "tuberculosis",
		DateRange: DateRange{Start: date(2024, 1, 1), End: date(2024, 12, 31)},
	}
}

func tbResponse() any {
	return map[string]any{
		"data": []any{
			map[string]any{"name": "A", "status": "active", "date": "2024-03-05"},
			map[string]any{"name": "B", "status": "completed", "date": "2024-03-20"},
			map[string]any{"name": "C", "status": "pending", "createdAt": "2024-07-01"},
		},
	}
}

func TestGenerate_TuberculosisScenario(t *testing.T) {
	client := &mockClient{ListFunc: func(ctx context.Context, collection string, params map[string]string) (any, error) {
		if collection != "health/tuberculosis" {
			t.Errorf("unexpected collection %q", collection)
		}
		return tbResponse(), nil
	}}
	gen := NewGenerator(registry.New(client))

	rep, err := gen.Generate(context.Background(), tbRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := rep.Summary
	if s.TotalRecords != 3 || s.Active != 1 || s.Pending != 1 || s.Completed != 1 || s.CompletionRate != 33 {
		t.Errorf("unexpected summary %+v", s)
	}
	if rep.Chart.Counts[2] != 2 || rep.Chart.Counts[6] != 1 || rep.Chart.Total() != 3 {
		t.Errorf("unexpected chart %v", rep.Chart.Counts)
	}
	if len(rep.Records) != 3 || rep.Records[0].DisplayName != "A" {
		t.Errorf("unexpected records %+v", rep.Records)
	}
}

func TestGenerate_ValidationBeforeFetch(t *testing.T) {
	valid := tbRequest()
	cases := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"missing module", func(r *Request) { r.Module = "" }, ErrMissingModule},
		{"missing category", func(r *Request) { r.Category = "" }, ErrMissingCategory},
		{"missing start", func(r *Request) { r.DateRange.Start = time.Time{} }, ErrMissingDateRange},
		{"missing end", func(r *Request) { r.DateRange.End = time.Time{} }, ErrMissingDateRange},
		{"inverted range", func(r *Request) { r.DateRange.Start, r.DateRange.End = r.DateRange.End, r.DateRange.Start }, ErrInvalidDateRange},
		{"unknown category", func(r *Request) { r.Category = "payroll" }, ErrUnknownCategory},
		{"category from other module", func(r *Request) { r.Category = "schools" }, ErrUnknownCategory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
				return nil, nil
			}}
			gen := NewGenerator(registry.New(client))
			req := valid.Clone()
			tc.mutate(&req)

			_, err := gen.Generate(context.Background(), req)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if !IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
			if client.calls.Load() != 0 {
				t.Errorf("expected no fetch, got %d calls", client.calls.Load())
			}
		})
	}
}

func TestGenerate_SameDayRangeIsValid(t *testing.T) {
	client := &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
		return []any{}, nil
	}}
	req := tbRequest()
	req.DateRange.End = req.DateRange.Start

	rep, err := NewGenerator(registry.New(client)).Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Summary.TotalRecords != 0 || rep.Chart.HasData() {
		t.Errorf("expected an empty report, got %+v", rep.Summary)
	}
}

func TestGenerate_FetchFailure(t *testing.T) {
	cause := &backend.APIError{StatusCode: 500, Message: "Database unavailable"}
	client := &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
		return nil, cause
	}}

	_, err := NewGenerator(registry.New(client)).Generate(context.Background(), tbRequest())
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
		t.Errorf("expected the backend error to be reachable, got %v", err)
	}
	if UserMessage(err) != "Database unavailable" {
		t.Errorf("expected backend message verbatim, got %q", UserMessage(err))
	}
	if client.calls.Load() != 1 {
		t.Errorf("expected exactly one fetch, got %d", client.calls.Load())
	}
}

func TestUserMessage_Fallback(t *testing.T) {
	err := &FetchError{Err: errors.New("  ")}
	if got := UserMessage(err); got != ErrFetchFailed.Error() {
		t.Errorf("expected fallback message, got %q", got)
	}
	if got := UserMessage(errors.New("")); got != GenericFailureMessage {
		t.Errorf("expected generic message, got %q", got)
	}
}

func TestParams(t *testing.T) {
	reg := registry.New(nil)
	entry, err := reg.Lookup(registry.Health, "other-diseases")
	if err != nil {
		t.Fatal(err)
	}
	req := tbRequest()
	req.Category = "other-diseases"
	req.Filters = map[string]string{
		"diseaseType": "Malaria",
		"status":      "active",
		"wardNo":      " ",
		"salary":      "high",
	}

	params := Params(entry, req)

	want := map[string]string{
		"startDate":   "2024-01-01",
		"endDate":     "2024-12-31",
		"diseaseType": "Malaria",
		"status":      "active",
	}
	if len(params) != len(want) {
		t.Errorf("expected %v, got %v", want, params)
	}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("param %s: expected %q, got %q", k, v, params[k])
		}
	}
}
