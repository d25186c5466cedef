package registry

import (
	"context"
	"errors"
	"testing"

	"mis-reports/internal/backend"
)

type mockClient struct {
	backend.Client
	list func(ctx context.Context, collection string, params map[string]string) (any, error)
}

func (m *mockClient) List(ctx context.Context, collection string, params map[string]string) (any, error) {
	if m.list != nil {
		return m.list(ctx, collection, params)
	}
	return nil, nil
}

func TestLookup_KnownCategories(t *testing.T) {
	r := New(&mockClient{})

	tests := []struct {
		module   Module
		category string
		label    string
	}{
		{Education, "study-centers", "Study Centers"},
		{Education, "board-preparation", "Board Preparation"},
		{Health, "tuberculosis", "Tuberculosis"},
		{Health, "mother-child", "Mother & Child"},
		{SocialJustice, "legal-aid", "Legal Aid"},
	}

	for _, tt := range tests {
		e, err := r.Lookup(tt.module, tt.category)
		if err != nil {
			t.Errorf("Lookup(%s, %s) error: %v", tt.module, tt.category, err)
			continue
		}
		if e.Category.Label != tt.label {
			t.Errorf("Lookup(%s, %s) label = %q, want %q", tt.module, tt.category, e.Category.Label, tt.label)
		}
		if e.Fetch == nil {
			t.Errorf("Lookup(%s, %s) has no fetch capability", tt.module, tt.category)
		}
	}
}

func TestLookup_UnknownCategory(t *testing.T) {
	r := New(&mockClient{})

	cases := []struct {
		module   Module
		category string
	}{
		{Health, "study-centers"}, // registered under Education only
		{Education, "nope"},
		{Module("finance"), "schools"},
	}
	for _, c := range cases {
		if _, err := r.Lookup(c.module, c.category); !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("Lookup(%s, %s) err = %v, want ErrUnknownCategory", c.module, c.category, err)
		}
	}
}

func TestCatalog_ClosedSets(t *testing.T) {
	r := New(nil)
	want := map[Module]int{Education: 6, Health: 10, SocialJustice: 5}
	for m, n := range want {
		if got := len(r.Categories(m)); got != n {
			t.Errorf("Categories(%s) = %d entries, want %d", m, got, n)
		}
	}
	if len(r.Categories(Module("finance"))) != 0 {
		t.Error("unknown module should have no categories")
	}
}

func TestFetch_UsesCollection(t *testing.T) {
	var gotCollection string
	var gotParams map[string]string
	client := &mockClient{
		list: func(_ context.Context, collection string, params map[string]string) (any, error) {
			gotCollection = collection
			gotParams = params
			return []any{}, nil
		},
	}

	e, err := New(client).Lookup(SocialJustice, "cbucbo")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Fetch(context.Background(), map[string]string{"groupType": "SHG"}); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotCollection != "social-justice/cbucbo" {
		t.Errorf("collection = %q", gotCollection)
	}
	if gotParams["groupType"] != "SHG" {
		t.Errorf("params = %v", gotParams)
	}
}

func TestFetch_NoClient(t *testing.T) {
	e, _ := New(nil).Lookup(Health, "hiv")
	if _, err := e.Fetch(context.Background(), nil); err == nil {
		t.Error("expected error without a backend client")
	}
}

func TestEntry_AcceptsFilter(t *testing.T) {
	e, _ := New(nil).Lookup(Health, "other-diseases")
	for _, k := range []string{"status", "search", "diseaseType", "wardNo"} {
		if !e.AcceptsFilter(k) {
			t.Errorf("AcceptsFilter(%q) = false, want true", k)
		}
	}
	if e.AcceptsFilter("examType") {
		t.Error("examType should not apply to other-diseases")
	}
}

func TestParseModule(t *testing.T) {
	tests := []struct {
		in   string
		want Module
		ok   bool
	}{
		{"education", Education, true},
		{"Health", Health, true},
		{"socialJustice", SocialJustice, true},
		{"social-justice", SocialJustice, true},
		{"", "", false},
		{"finance", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseModule(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseModule(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if SocialJustice.Label() != "Social Justice" {
		t.Errorf("Label() = %q", SocialJustice.Label())
	}
}
