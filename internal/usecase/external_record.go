package usecase

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// ExternalRecord is one raw provider object as decoded from JSON. Every field
// read goes through the accessors below so a missing or oddly typed value
// falls back to an explicit default instead of panicking.
type ExternalRecord map[string]any

// FootballDataProvider is the upstream catalog the sync services read from.
type FootballDataProvider interface {
	FetchLeagues(ctx context.Context) ([]ExternalRecord, error)
	FetchTeams(ctx context.Context, leagueRef string) ([]ExternalRecord, error)
	FetchEvents(ctx context.Context, leagueRef, from, to string) ([]ExternalRecord, error)
}

// String returns the trimmed textual form of key; numbers are formatted
// without exponent. ok is false when the key is absent, null or blank.
func (r ExternalRecord) String(key string) (string, bool) {
	raw, exists := r[key]
	if !exists || raw == nil {
		return "", false
	}

	var out string
	switch v := raw.(type) {
	case string:
		out = v
	case float64:
		out = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		out = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		out = strconv.Itoa(v)
	case int64:
		out = strconv.FormatInt(v, 10)
	case uint64:
		out = strconv.FormatUint(v, 10)
	case bool:
		out = strconv.FormatBool(v)
	default:
		return "", false
	}

	out = strings.TrimSpace(out)
	return out, out != ""
}

// VerbatimString returns the value as sent, without trimming, so "" stays
// "". Numbers are formatted; absent, null and non-scalar values are nil.
func (r ExternalRecord) VerbatimString(key string) *string {
	if raw, ok := r[key].(string); ok {
		return &raw
	}
	value, ok := r.String(key)
	if !ok {
		return nil
	}
	return &value
}

// OptionalString is String as a pointer: nil when absent.
func (r ExternalRecord) OptionalString(key string) *string {
	value, ok := r.String(key)
	if !ok {
		return nil
	}
	return &value
}

// OptionalInt parses numeric values and numeric strings; anything else is nil.
func (r ExternalRecord) OptionalInt(key string) *int {
	raw, exists := r[key]
	if !exists || raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil
		}
		out := int(v)
		return &out
	case int:
		return &v
	case int64:
		out := int(v)
		return &out
	}

	text, ok := r.String(key)
	if !ok {
		return nil
	}
	out, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	return &out
}

// Record returns a nested object, or an empty record.
func (r ExternalRecord) Record(key string) ExternalRecord {
	switch v := r[key].(type) {
	case map[string]any:
		return ExternalRecord(v)
	case ExternalRecord:
		return v
	default:
		return ExternalRecord{}
	}
}

// Records returns a nested list of objects; non-object entries are dropped.
func (r ExternalRecord) Records(key string) []ExternalRecord {
	switch v := r[key].(type) {
	case []ExternalRecord:
		return v
	case []any:
		out := make([]ExternalRecord, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				out = append(out, ExternalRecord(obj))
			}
		}
		return out
	case []map[string]any:
		out := make([]ExternalRecord, 0, len(v))
		for _, item := range v {
			out = append(out, ExternalRecord(item))
		}
		return out
	default:
		return nil
	}
}

func stringKey(key string) func(ExternalRecord) string {
	return func(r ExternalRecord) string {
		value, _ := r.String(key)
		return value
	}
}
