package filter

import "maps"

// Apply filters the records of a parsed API response and reports how many
// records matched. List payloads ({"data": [...]}) and bare arrays are
// filtered element by element; a single-record payload ({"data": {...}}) is
// kept or emptied as a whole. Anything else is returned unchanged.
func (f *Filter) Apply(parsed any) (any, int) {
	switch v := parsed.(type) {
	case []any:
		kept := f.filterRecords(v)
		return kept, len(kept)

	case map[string]any:
		switch data := v["data"].(type) {
		case []any:
			kept := f.filterRecords(data)
			out := maps.Clone(v)
			out["data"] = kept
			return out, len(kept)

		case map[string]any:
			if f.Match(data) {
				return v, 1
			}
			out := maps.Clone(v)
			out["data"] = nil
			return out, 0
		}
	}

	return parsed, 0
}

func (f *Filter) filterRecords(records []any) []any {
	kept := make([]any, 0, len(records))
	for _, item := range records {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if f.Match(record) {
			kept = append(kept, item)
		}
	}
	return kept
}
