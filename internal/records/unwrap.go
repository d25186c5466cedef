package records

// containerKeys are domain-named list fields some collections use instead of "data".
var containerKeys = []string{"records", "beneficiaries", "cases"}

// Unwrap extracts the record list from a backend response. Resolution order:
//  1. the response is itself a list
//  2. response.data is a list
//  3. response.data.data is a list
//  4. response.data or the response has one of containerKeys as a list (first present wins)
//  5. nothing matched: empty
//
// Unwrap never fails; list elements that are not objects are skipped.
func Unwrap(resp any) []RawRecord {
	if list, ok := asList(resp); ok {
		return toRecords(list)
	}

	obj, ok := asObject(resp)
	if !ok {
		return []RawRecord{}
	}

	data, hasData := obj["data"]
	if list, ok := asList(data); ok {
		return toRecords(list)
	}

	dataObj, dataIsObject := asObject(data)
	if hasData && dataIsObject {
		if list, ok := asList(dataObj["data"]); ok {
			return toRecords(list)
		}
		if list, ok := namedContainer(dataObj); ok {
			return toRecords(list)
		}
	}

	if list, ok := namedContainer(obj); ok {
		return toRecords(list)
	}
	return []RawRecord{}
}

func namedContainer(obj map[string]any) ([]any, bool) {
	for _, key := range containerKeys {
		if list, ok := asList(obj[key]); ok {
			return list, true
		}
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []RawRecord:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	}
	return nil, false
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case RawRecord:
		return t, true
	}
	return nil, false
}

func toRecords(list []any) []RawRecord {
	out := make([]RawRecord, 0, len(list))
	for _, item := range list {
		if obj, ok := asObject(item); ok {
			out = append(out, RawRecord(obj))
		}
	}
	return out
}
