package report

import (
	"context"
	"strings"

	"mis-reports/internal/records"
	"mis-reports/internal/registry"
	"mis-reports/internal/stats"

	"github.com/rs/zerolog/log"
)

// Resolver resolves a (module, category) pair to its capability descriptor.
type Resolver interface {
	Lookup(module registry.Module, category string) (registry.Entry, error)
}

// Generator turns requests into reports. It keeps no state between calls and
// does not serialize concurrent calls; callers that need one-at-a-time semantics
// use a Session.
type Generator struct {
	resolver Resolver
}

// NewGenerator creates a Generator over the given resolver.
func NewGenerator(resolver Resolver) *Generator {
	return &Generator{resolver: resolver}
}

// Resolve validates req and resolves its registry entry without fetching anything.
func (g *Generator) Resolve(req Request) (registry.Entry, error) {
	if err := req.Validate(); err != nil {
		return registry.Entry{}, err
	}
	return g.resolver.Lookup(req.Module, req.Category)
}

// Generate validates, fetches once, then unwraps, normalizes and aggregates.
// Fetch failures are returned as *FetchError and never retried.
func (g *Generator) Generate(ctx context.Context, req Request) (*Report, error) {
	entry, err := g.Resolve(req)
	if err != nil {
		return nil, err
	}

	params := Params(entry, req)
	logger := log.With().
		Str("module", string(req.Module)).
		Str("category", req.Category).
		Logger()
	logger.Debug().Interface("params", params).Msg("Fetching report data")

	resp, err := entry.Fetch(ctx, params)
	if err != nil {
		logger.Warn().Err(err).Msg("Report fetch failed")
		return nil, &FetchError{Module: req.Module, Category: req.Category, Err: err}
	}

	raws := records.Unwrap(resp)
	recs := records.NormalizeAll(raws)
	summary, chart := stats.Aggregate(recs)

	logger.Info().
		Int("total", summary.TotalRecords).
		Int("completed", summary.Completed).
		Int("charted", chart.Total()).
		Msg("Report generated")

	return &Report{
		Summary: summary,
		Records: recs,
		Chart:   chart,
	}, nil
}

// Params builds the query parameters sent to the fetch capability: the
// reporting period plus every non-empty filter the category recognizes.
func Params(entry registry.Entry, req Request) map[string]string {
	params := map[string]string{
		"startDate": req.DateRange.Start.Format(records.DateLayout),
		"endDate":   req.DateRange.End.Format(records.DateLayout),
	}
	for key, value := range req.Filters {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if !entry.AcceptsFilter(key) {
			log.Debug().Str("filter", key).Str("category", entry.Category.Key).Msg("Dropping filter not recognized by category")
			continue
		}
		params[key] = value
	}
	return params
}
