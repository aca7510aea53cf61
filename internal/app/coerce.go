package app

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Query records arrive either as decoded JSON or as URL query values, so
// every field is accepted in its string form too. Values that cannot be
// coerced are passed through unchanged and rejected by the schema.

var (
	textFields    = []string{"destination", "city", "country", "type", "checkIn", "checkOut"}
	numericFields = []string{"stars", "minPrice", "maxPrice", "minCapacity", "maxCapacity", "adults", "children"}
)

// normalizeRecord copies the known fields of raw into a JSON-shaped document.
func normalizeRecord(raw map[string]any) map[string]any {
	doc := make(map[string]any, len(raw))
	for _, k := range textFields {
		if v, ok := raw[k]; ok {
			if v = flexibleText(v); v != nil {
				doc[k] = v
			}
		}
	}
	for _, k := range numericFields {
		if v, ok := raw[k]; ok {
			if v = flexibleNumber(v); v != nil {
				doc[k] = v
			}
		}
	}
	if v, ok := raw["available"]; ok {
		if v = flexibleBool(v); v != nil {
			doc["available"] = v
		}
	}
	if v, ok := raw["services"]; ok {
		if v = flexibleList(v); v != nil {
			doc["services"] = v
		}
	}
	return doc
}

// single unwraps one-element lists, the shape url.Values produces. Longer
// string lists become JSON arrays so the schema rejects them on the field.
func single(v any) any {
	switch t := v.(type) {
	case []string:
		if len(t) == 1 {
			return t[0]
		}
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		if len(t) == 1 {
			return t[0]
		}
	}
	return v
}

func flexibleText(v any) any {
	v = single(v)
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s == "" {
			return nil
		}
		return s
	}
	return v
}

// flexibleNumber: float64 from JSON numbers, Go ints or strings like "8,5".
func flexibleNumber(v any) any {
	switch t := single(v).(type) {
	case nil:
		return nil
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return t
	default:
		return t
	}
}

func flexibleBool(v any) any {
	switch t := single(v).(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return t
	default:
		return t
	}
}

// flexibleList accepts a single label, []string or []any.
func flexibleList(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []any{t}
	case []string:
		out := make([]any, 0, len(t))
		for _, s := range t {
			out = append(out, s)
		}
		return out
	default:
		return t
	}
}
