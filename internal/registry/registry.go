package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"mis-reports/internal/backend"
)

// ErrUnknownCategory is returned when a (module, category) pair is not registered.
var ErrUnknownCategory = errors.New("unknown category")

// FetchFunc retrieves the raw backend response for one category.
type FetchFunc func(ctx context.Context, params map[string]string) (any, error)

// Entry is the capability descriptor resolved for a (module, category) pair.
type Entry struct {
	Module   Module
	Category Category
	Fetch    FetchFunc
}

// AcceptsFilter reports whether key is a recognized filter for this entry.
func (e Entry) AcceptsFilter(key string) bool {
	return slices.Contains(CommonFilterKeys, key) || slices.Contains(e.Category.FilterKeys, key)
}

// Registry resolves categories to fetch capabilities bound to a backend client.
type Registry struct {
	client  backend.Client
	entries map[Module]map[string]Entry
}

// New builds the registry over the static catalog.
func New(client backend.Client) *Registry {
	r := &Registry{
		client:  client,
		entries: make(map[Module]map[string]Entry, len(catalog)),
	}
	for module, categories := range catalog {
		byKey := make(map[string]Entry, len(categories))
		for _, c := range categories {
			byKey[c.Key] = Entry{
				Module:   module,
				Category: c,
				Fetch:    r.fetcher(c.Collection),
			}
		}
		r.entries[module] = byKey
	}
	return r
}

func (r *Registry) fetcher(collection string) FetchFunc {
	return func(ctx context.Context, params map[string]string) (any, error) {
		if r.client == nil {
			return nil, fmt.Errorf("no backend client configured for %s", collection)
		}
		return r.client.List(ctx, collection, params)
	}
}

// Lookup resolves (module, category) or returns ErrUnknownCategory.
func (r *Registry) Lookup(module Module, category string) (Entry, error) {
	if byKey, ok := r.entries[module]; ok {
		if e, ok := byKey[category]; ok {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q is not registered for module %q", ErrUnknownCategory, category, module)
}

// Categories lists the categories of a module in catalog order.
func (r *Registry) Categories(module Module) []Category {
	categories := catalog[module]
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryLabel returns the display label of a category, or the key when unknown.
func (r *Registry) CategoryLabel(module Module, category string) string {
	if e, err := r.Lookup(module, category); err == nil {
		return e.Category.Label
	}
	return category
}
