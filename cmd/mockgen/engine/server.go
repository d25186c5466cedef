package engine

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"mis-reports/internal/records"
)

// nameKeys are the raw fields "search" matches against.
var nameKeys = []string{"centreName", "name", "studentName", "firstName", "lastName", "schoolName", "patientName", "campName"}

// Handler serves the dataset under /{module}/{category}. startDate and
// endDate bound the record date inclusively; search matches name fields;
// any other query parameter must equal the record field of the same name.
func Handler(ds Dataset) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/{module}/{category}", func(w http.ResponseWriter, req *http.Request) {
		col, ok := ds[chi.URLParam(req, "module")+"/"+chi.URLParam(req, "category")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "collection not found"})
			return
		}
		matched, err := filter(col.Records, req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, col.Envelope.Wrap(matched))
	})
	return r
}

func filter(in []map[string]any, req *http.Request) ([]map[string]any, error) {
	q := req.URL.Query()
	var start, end time.Time
	var err error
	if v := q.Get("startDate"); v != "" {
		if start, err = time.Parse(records.DateLayout, v); err != nil {
			return nil, err
		}
	}
	if v := q.Get("endDate"); v != "" {
		if end, err = time.Parse(records.DateLayout, v); err != nil {
			return nil, err
		}
		end = end.AddDate(0, 0, 1)
	}

	out := make([]map[string]any, 0, len(in))
	for _, rec := range in {
		if !start.IsZero() || !end.IsZero() {
			d, ok := dateOf(rec)
			if !ok || (!start.IsZero() && d.Before(start)) || (!end.IsZero() && !d.Before(end)) {
				continue
			}
		}
		if !matches(rec, q) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func dateOf(rec map[string]any) (time.Time, bool) {
	for _, k := range []string{"date", "createdAt"} {
		if v, ok := rec[k]; ok {
			return records.ParseDate(v)
		}
	}
	return time.Time{}, false
}

func matches(rec map[string]any, q map[string][]string) bool {
	for k, vals := range q {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		want := vals[0]
		switch k {
		case "startDate", "endDate":
		case "search":
			if !searchHit(rec, want) {
				return false
			}
		default:
			got, _ := rec[k].(string)
			if got != want {
				return false
			}
		}
	}
	return true
}

func searchHit(rec map[string]any, term string) bool {
	term = strings.ToLower(term)
	for _, k := range nameKeys {
		if s, ok := rec[k].(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
