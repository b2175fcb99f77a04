package repository

import (
	"strconv"
	"strings"
	"time"
)

// timestampLayouts covers timestamptz and plain timestamp columns as PostgREST
// serializes them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

func getString(data map[string]interface{}, key string) string {
	if val, ok := data[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// getID reads a primary key that may be a uuid string or a bigint.
func getID(data map[string]interface{}, key string) string {
	if val, ok := data[key]; ok && val != nil {
		switch v := val.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatInt(int64(v), 10)
		case int64:
			return strconv.FormatInt(v, 10)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

func getTime(data map[string]interface{}, key string) time.Time {
	raw := getString(data, key)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sanitizeText drops NUL bytes, which Postgres rejects in text columns (22P05).
func sanitizeText(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
