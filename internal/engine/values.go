// Package engine implements the ADA treatment rule set and the evaluation
// engine that maps a patient record to ordered treatment recommendations.
package engine

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseNumber coerces a raw clinical value into a float64. It accepts
// numeric types, numeric strings (surrounding whitespace trimmed) and
// booleans (1/0). It reports ok=false for nil, empty strings and anything
// non-numeric. An empty or missing value means "unknown", which is
// semantically distinct from zero. ParseNumber never panics.
func ParseNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// TruthyFlag interprets the enumerated set of true-like values that survey
// datasets and form inputs produce for yes/no fields: the number 1, boolean
// true, and the case-insensitive strings "1", "yes", "y" and "true".
// Everything else, including nil, 0, "no" and absent keys, is false. There
// is no tri-state here: unknown collapses to false.
func TruthyFlag(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case int32:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	case float32:
		return v == 1
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "yes", "y", "true":
			return true
		}
	}
	return false
}
