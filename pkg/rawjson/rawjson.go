// Package rawjson reads loosely typed JSON values as they come back from
// storage written by several generations of clients. Every reader is total:
// a value of the wrong type counts as absent.
package rawjson

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Decode turns whatever the persistence layer handed over into plain JSON
// values (map[string]any, []any, string, float64, bool, nil). Anything that
// cannot be decoded becomes nil.
func Decode(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case map[string]any, []any:
		return v
	case json.RawMessage:
		return unmarshal(v)
	case []byte:
		return unmarshal(v)
	case string, float64, bool:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return unmarshal(data)
	}
}

func unmarshal(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// String returns the first non-empty trimmed string stored under keys.
// Non-string values are skipped.
func String(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// Int returns the first value under keys that reads as a non-negative integer.
func Int(obj map[string]any, keys ...string) int64 {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case float64:
			if v >= 0 && v < 1<<53 {
				return int64(v)
			}
		case json.Number:
			if n, err := v.Int64(); err == nil && n >= 0 {
				return n
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n >= 0 {
				return n
			}
		}
	}
	return 0
}

// Has reports whether obj carries a non-empty value under any of keys.
func Has(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) != "" {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// Time returns the first value under keys that parses as a timestamp.
func Time(obj map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		if t, ok := ParseTimestamp(obj[k]); ok {
			return t
		}
	}
	return time.Time{}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads the timestamp encodings seen in stored records:
// RFC 3339 strings, bare dates, epoch milliseconds, and Firestore-style
// {seconds, nanoseconds} objects. Results are in UTC; the zero time is
// reported as absent.
func ParseTimestamp(v any) (time.Time, bool) {
	var t time.Time
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		parsed := false
		for _, layout := range timeLayouts {
			if p, err := time.Parse(layout, s); err == nil {
				t, parsed = p, true
				break
			}
		}
		if !parsed {
			ms, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return time.Time{}, false
			}
			t = time.UnixMilli(ms)
		}
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val <= 0 {
			return time.Time{}, false
		}
		t = time.UnixMilli(int64(val))
	case map[string]any:
		secs, ok := numberField(val, "seconds", "_seconds")
		if !ok {
			return time.Time{}, false
		}
		nanos, _ := numberField(val, "nanoseconds", "_nanoseconds", "nanos")
		t = time.Unix(int64(secs), int64(nanos))
	default:
		return time.Time{}, false
	}
	if t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func numberField(obj map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := obj[k].(float64); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}
