package report

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"mis-reports/internal/registry"
)

func newTBSession(client *mockClient) *Session {
	s := NewSession(NewGenerator(registry.New(client)))
	req := tbRequest()
	s.SetModule(req.Module)
	s.SetCategory(req.Category)
	s.SetDateRange(req.DateRange.Start, req.DateRange.End)
	return s
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch to start")
	}
}

func TestSession_GenerateStoresCurrent(t *testing.T) {
	client := &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
		return tbResponse(), nil
	}}
	s := newTBSession(client)

	snap, err := s.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.ID == "" || snap.Report.Summary.TotalRecords != 3 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	cur, ok := s.Current()
	if !ok || cur.ID != snap.ID {
		t.Errorf("expected current report %s, got %+v", snap.ID, cur)
	}
	if s.Loading() {
		t.Error("expected loading to be cleared")
	}
}

func TestSession_FailureKeepsPreviousReport(t *testing.T) {
	fail := false
	client := &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
		if fail {
			return nil, errors.New("Service temporarily unavailable")
		}
		return tbResponse(), nil
	}}
	s := newTBSession(client)

	first, err := s.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	fail = true
	if _, err := s.Generate(context.Background()); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected fetch failure, got %v", err)
	}

	cur, ok := s.Current()
	if !ok || cur.ID != first.ID {
		t.Errorf("expected previous report to survive the failure")
	}
	if s.Loading() {
		t.Error("expected loading to be cleared after failure")
	}
}

func TestSession_ValidationDoesNotTouchState(t *testing.T) {
	client := &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
		return tbResponse(), nil
	}}
	s := NewSession(NewGenerator(registry.New(client)))

	if _, err := s.Generate(context.Background()); !errors.Is(err, ErrMissingModule) {
		t.Errorf("expected ErrMissingModule, got %v", err)
	}
	if client.calls.Load() != 0 || s.Loading() {
		t.Error("validation failure must not fetch or start loading")
	}
}

func TestSession_NewerGenerationCancelsOlder(t *testing.T) {
	var n atomic.Int32
	started := make(chan struct{})
	client := &mockClient{ListFunc: func(ctx context.Context, _ string, _ map[string]string) (any, error) {
		if n.Add(1) == 1 {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return tbResponse(), nil
	}}
	s := newTBSession(client)

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background())
		done <- err
	}()
	waitFor(t, started)

	snap, err := s.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected older generation to be superseded, got %v", err)
	}
	cur, _ := s.Current()
	if cur.ID != snap.ID {
		t.Errorf("expected newest report to be current")
	}
}

func TestSession_ModuleChangeDiscardsInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client := &mockClient{ListFunc: func(ctx context.Context, _ string, _ map[string]string) (any, error) {
		close(started)
		<-release
		return tbResponse(), nil
	}}
	s := newTBSession(client)
	s.SetFilter("treatmentStatus", "ongoing")

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background())
		done <- err
	}()
	waitFor(t, started)

	s.SetModule(registry.Education)
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected in-flight result to be discarded, got %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Error("expected no current report after module change")
	}
	req := s.Request()
	if req.Category != "" || len(req.Filters) != 0 {
		t.Errorf("expected category and filters to reset, got %+v", req)
	}
	if req.DateRange.Start.IsZero() {
		t.Error("expected date range to survive a module change")
	}
	if s.Loading() {
		t.Error("expected loading to be cleared")
	}
}

func TestSession_CategoryChangeDropsReportAndForeignFilters(t *testing.T) {
	client := &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
		return tbResponse(), nil
	}}
	s := newTBSession(client)
	s.SetFilter("status", "active")
	s.SetFilter("treatmentStatus", "ongoing")
	if _, err := s.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.SetCategory("health-camps")

	if _, ok := s.Current(); ok {
		t.Error("expected report to be discarded on category change")
	}
	req := s.Request()
	if req.Filters["status"] != "active" {
		t.Errorf("expected common filter to survive, got %v", req.Filters)
	}
	if _, ok := req.Filters["treatmentStatus"]; ok {
		t.Errorf("expected category filter to be dropped, got %v", req.Filters)
	}
}

func TestSession_Apply(t *testing.T) {
	client := &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
		return tbResponse(), nil
	}}
	s := NewSession(NewGenerator(registry.New(client)))
	req := tbRequest()
	req.Filters = map[string]string{"wardNo": "7"}

	s.Apply(req)
	got := s.Request()
	if got.Module != req.Module || got.Category != req.Category || got.Filters["wardNo"] != "7" {
		t.Errorf("unexpected selections %+v", got)
	}
	if !got.DateRange.Start.Equal(req.DateRange.Start) {
		t.Errorf("expected date range to be applied")
	}
}

func blockingTBClient(started, release chan struct{}) *mockClient {
	return &mockClient{ListFunc: func(_ context.Context, collection string, _ map[string]string) (any, error) {
		if collection == "health/tuberculosis" {
			close(started)
			<-release
		}
		return tbResponse(), nil
	}}
}

func TestSession_CategoryChangeDiscardsInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := newTBSession(blockingTBClient(started, release))

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background())
		done <- err
	}()
	waitFor(t, started)

	s.SetCategory("hiv")
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected in-flight result to be discarded, got %v", err)
	}
	if cur, ok := s.Current(); ok {
		t.Errorf("expected no current report after category change, got one for %q", cur.Request.Category)
	}
	if got := s.Request().Category; got != "hiv" {
		t.Errorf("expected category hiv, got %q", got)
	}
	if s.Loading() {
		t.Error("expected loading to be cleared")
	}
}

func TestSession_GenerateRequestKeepsSelectionsConsistent(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := NewSession(NewGenerator(registry.New(blockingTBClient(started, release))))

	done := make(chan error, 1)
	go func() {
		_, err := s.GenerateRequest(context.Background(), tbRequest())
		done <- err
	}()
	waitFor(t, started)

	hiv := tbRequest()
	hiv.Category = "hiv"
	snap, err := s.GenerateRequest(context.Background(), hiv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected earlier request to be superseded, got %v", err)
	}
	cur, ok := s.Current()
	if !ok || cur.ID != snap.ID || cur.Request.Category != "hiv" {
		t.Errorf("expected the hiv report to be current, got %+v", cur.Request)
	}
	if got := s.Request().Category; got != "hiv" {
		t.Errorf("expected selections to match the current report, got %q", got)
	}
}
