package report

import (
	"context"
	"sync"
	"time"

	"mis-reports/internal/registry"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Snapshot is a generated report together with the request that produced it.
type Snapshot struct {
	ID          string    `json:"id"`
	Request     Request   `json:"request"`
	Report      *Report   `json:"report"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Session holds the current selections and the most recent report for one
// user. At most one generation is current: a newer Generate cancels the older
// one, and a module change invalidates it without cancelling.
type Session struct {
	gen *Generator
	now func() time.Time

	mu       sync.Mutex
	req      Request
	current  *Snapshot
	inflight string
	cancel   context.CancelFunc
}

// NewSession creates an empty session.
func NewSession(gen *Generator) *Session {
	return &Session{
		gen: gen,
		now: time.Now,
		req: Request{Filters: map[string]string{}},
	}
}

// Request returns a copy of the current selections.
func (s *Session) Request() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.req.Clone()
}

// SetModule switches module. The category, filters and current report are
// discarded and any in-flight generation will be ignored when it settles.
func (s *Session) SetModule(m registry.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setModule(m)
}

func (s *Session) setModule(m registry.Module) {
	s.discardInflight("Module changed")
	s.req = Request{
		Module:    m,
		DateRange: s.req.DateRange,
		Filters:   map[string]string{},
	}
	s.current = nil
}

// SetCategory switches category, dropping the current report and any filter
// the new category does not recognize. A generation still in flight for the
// previous category is ignored when it settles.
func (s *Session) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCategory(category)
}

func (s *Session) setCategory(category string) {
	if category != s.req.Category {
		s.discardInflight("Category changed")
	}
	s.req.Category = category
	s.current = nil
	entry, err := s.gen.resolver.Lookup(s.req.Module, category)
	for key := range s.req.Filters {
		if err != nil || !entry.AcceptsFilter(key) {
			delete(s.req.Filters, key)
		}
	}
}

// discardInflight forgets the in-flight generation without cancelling it, so
// its result is dropped as stale once it settles. Callers hold s.mu.
func (s *Session) discardInflight(reason string) {
	if s.inflight != "" {
		log.Debug().Str("generation", s.inflight).Msg(reason + "; in-flight report will be discarded")
	}
	s.inflight = ""
	s.cancel = nil
}

// SetDateRange sets the reporting period.
func (s *Session) SetDateRange(start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req.DateRange = DateRange{Start: start, End: end}
}

// SetFilter sets one filter value. An empty value clears it.
func (s *Session) SetFilter(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.req.Filters, key)
		return
	}
	s.req.Filters[key] = value
}

// Loading reports whether a generation is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight != ""
}

// Current returns the most recent successful report, if any.
func (s *Session) Current() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Snapshot{}, false
	}
	return *s.current, true
}

// Generate produces a report for the current selections. Validation errors
// leave any in-flight generation alone. A failed generation keeps the previous
// report; a superseded one returns ErrSuperseded and changes nothing.
func (s *Session) Generate(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	return s.generate(ctx)
}

// GenerateRequest applies req and generates for it as one step, so concurrent
// callers cannot interleave their selections.
func (s *Session) GenerateRequest(ctx context.Context, req Request) (Snapshot, error) {
	s.mu.Lock()
	s.apply(req)
	return s.generate(ctx)
}

// generate is entered with s.mu held and releases it while fetching.
func (s *Session) generate(ctx context.Context) (Snapshot, error) {
	req := s.req.Clone()
	if err := req.Validate(); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	if s.cancel != nil {
		log.Debug().Str("generation", s.inflight).Msg("Cancelling superseded report generation")
		s.cancel()
	}
	token := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.inflight = token
	s.cancel = cancel
	s.mu.Unlock()

	rep, err := s.gen.Generate(runCtx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight != token {
		log.Debug().Str("generation", token).Msg("Discarding stale report")
		return Snapshot{}, ErrSuperseded
	}
	s.inflight = ""
	s.cancel = nil
	if err != nil {
		return Snapshot{}, err
	}

	s.current = &Snapshot{
		ID:          token,
		Request:     req,
		Report:      rep,
		GeneratedAt: s.now(),
	}
	return *s.current, nil
}

// Apply replaces all selections with req, honoring the same reset rules as the
// individual setters.
func (s *Session) Apply(req Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(req)
}

func (s *Session) apply(req Request) {
	moduleChanged := req.Module != s.req.Module
	if moduleChanged {
		s.setModule(req.Module)
	}
	if moduleChanged || req.Category != s.req.Category {
		s.setCategory(req.Category)
	}
	s.req.DateRange = DateRange{Start: req.DateRange.Start, End: req.DateRange.End}

	s.req.Filters = make(map[string]string, len(req.Filters))
	for k, v := range req.Filters {
		if v != "" {
			s.req.Filters[k] = v
		}
	}
}
