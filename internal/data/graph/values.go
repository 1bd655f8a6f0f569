package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

func recordString(rec *neo4j.Record, key string) string {
	if rec == nil {
		return ""
	}
	val, ok := rec.Get(key)
	if !ok || val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// recordFloat returns nil when key is absent, null or not numeric.
func recordFloat(rec *neo4j.Record, key string) *float64 {
	if rec == nil {
		return nil
	}
	val, ok := rec.Get(key)
	if !ok || val == nil {
		return nil
	}
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// recordTime reads a temporal property. ok is false when the property is absent or null.
func recordTime(rec *neo4j.Record, key string) (t time.Time, ok bool, err error) {
	if rec == nil {
		return time.Time{}, false, nil
	}
	val, found := rec.Get(key)
	if !found || val == nil {
		return time.Time{}, false, nil
	}
	t, err = toTime(val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", key, err)
	}
	return t, true, nil
}

func toTime(val any) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case dbtype.Date:
		return v.Time(), nil
	case dbtype.LocalDateTime:
		return v.Time(), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", val)
	}
}
