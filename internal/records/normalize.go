package records

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order for string dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Normalize converts one raw record into the canonical shape. It is pure:
// the same input always yields an equal record, and malformed fields degrade
// to defaults instead of failing.
func Normalize(raw RawRecord) NormalizedRecord {
	rec := NormalizedRecord{
		ID:              firstText(raw, "id", "_id"),
		DisplayName:     displayName(raw),
		Status:          text(raw["status"]),
		Date:            recordDate(raw),
		WardNo:          text(raw["wardNo"]),
		Habitation:      text(raw["habitation"]),
		ClassOrGrade:    text(raw["classOrGrade"]),
		TreatmentStatus: text(raw["treatmentStatus"]),
	}

	for _, f := range extraFields {
		if v := text(raw[f.Key]); v != "" {
			if rec.ExtraAttributes == nil {
				rec.ExtraAttributes = make(map[Tag]string)
			}
			rec.ExtraAttributes[f.Tag] = v
		}
	}
	return rec
}

// NormalizeAll applies Normalize to every record, preserving order.
func NormalizeAll(raws []RawRecord) []NormalizedRecord {
	out := make([]NormalizedRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

func displayName(raw RawRecord) string {
	if name := firstText(raw, "centreName", "name", "studentName"); name != "" {
		return name
	}

	first, last := text(raw["firstName"]), text(raw["lastName"])
	if first != "" && last != "" {
		return first + " " + last
	}
	if first != "" {
		return first
	}

	if name := firstText(raw, "schoolName", "patientName", "campName"); name != "" {
		return name
	}
	return "N/A"
}

// recordDate takes the first non-empty of date/createdAt. An unparseable value is nil,
// it does not fall through to the next key.
func recordDate(raw RawRecord) *time.Time {
	for _, key := range []string{"date", "createdAt"} {
		v, ok := raw[key]
		if !ok || isEmpty(v) {
			continue
		}
		t, ok := ParseDate(v)
		if !ok {
			return nil
		}
		return &t
	}
	return nil
}

// ParseDate accepts the string layouts in dateLayouts, plausible epoch
// milliseconds and time.Time.
func ParseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return time.Time{}, false
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return time.Time{}, false
			}
			ms = int64(f)
		}
		return epochMillis(ms)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, false
		}
		return epochMillis(int64(t))
	case int64:
		return epochMillis(t)
	case int:
		return epochMillis(int64(t))
	}
	return time.Time{}, false
}

// Numbers outside this window (1973-03-03 to 2100-01-01 in milliseconds) are
// years, counters or seconds, not timestamps.
const (
	minEpochMillis = 100_000_000_000
	maxEpochMillis = 4_102_444_800_000
)

func epochMillis(ms int64) (time.Time, bool) {
	if ms < minEpochMillis || ms >= maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

func firstText(raw RawRecord, keys ...string) string {
	for _, k := range keys {
		if s := text(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

// text renders a scalar JSON value verbatim. Objects, arrays and null are empty.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
