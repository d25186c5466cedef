package records

import "testing"

func TestUnwrap_Envelopes(t *testing.T) {
	one := map[string]any{"name": "Asha"}
	two := map[string]any{"name": "Ravi"}

	tests := []struct {
		name string
		resp any
		want int
	}{
		{"bare list", []any{one, two}, 2},
		{"data list", map[string]any{"data": []any{one}}, 1},
		{"nested data list", map[string]any{"data": map[string]any{"data": []any{one}}}, 1},
		{"records container", map[string]any{"records": []any{one, two}}, 2},
		{"beneficiaries under data", map[string]any{"data": map[string]any{"beneficiaries": []any{one, two}}}, 2},
		{"cases top level", map[string]any{"success": true, "cases": []any{one}}, 1},
		{"empty object", map[string]any{}, 0},
		{"nil", nil, 0},
		{"scalar", "oops", 0},
		{"data is null", map[string]any{"data": nil}, 0},
		{"wrapped but empty", map[string]any{"data": map[string]any{"data": []any{}}}, 0},
		{"typed slice", []map[string]any{one, two}, 2},
		{"non-object elements skipped", []any{one, "x", 3.0, two}, 2},
	}

	for _, tt := range tests {
		got := Unwrap(tt.resp)
		if got == nil {
			t.Errorf("%s: Unwrap returned nil, want empty slice", tt.name)
			continue
		}
		if len(got) != tt.want {
			t.Errorf("%s: len = %d, want %d", tt.name, len(got), tt.want)
		}
	}
}

func TestUnwrap_ResolutionOrder(t *testing.T) {
	// data wins over a top-level records container
	resp := map[string]any{
		"data":    []any{map[string]any{"name": "from-data"}},
		"records": []any{map[string]any{"name": "from-records"}, map[string]any{"name": "x"}},
	}
	got := Unwrap(resp)
	if len(got) != 1 || got[0]["name"] != "from-data" {
		t.Errorf("expected data list to win, got %v", got)
	}

	// records wins over beneficiaries when both are present
	resp = map[string]any{
		"beneficiaries": []any{map[string]any{"name": "b"}},
		"records":       []any{map[string]any{"name": "r"}},
	}
	got = Unwrap(resp)
	if len(got) != 1 || got[0]["name"] != "r" {
		t.Errorf("expected records to win, got %v", got)
	}

	// inner data object without a list falls back to the top-level container
	resp = map[string]any{
		"data":  map[string]any{"total": 3},
		"cases": []any{map[string]any{"name": "c"}},
	}
	got = Unwrap(resp)
	if len(got) != 1 || got[0]["name"] != "c" {
		t.Errorf("expected top-level cases, got %v", got)
	}
}

func TestUnwrap_PreservesOrder(t *testing.T) {
	resp := map[string]any{"data": map[string]any{"data": []any{
		map[string]any{"id": "1"},
		map[string]any{"id": "2"},
		map[string]any{"id": "3"},
	}}}
	got := Unwrap(resp)
	for i, want := range []string{"1", "2", "3"} {
		if got[i]["id"] != want {
			t.Errorf("position %d = %v, want %s", i, got[i]["id"], want)
		}
	}
}
