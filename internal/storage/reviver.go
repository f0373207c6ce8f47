package storage

import (
	"fmt"
	"strings"
	"time"
)

// Reviver rewrites one decoded JSON node. key is the object field name or
// array index the node was found under.
type Reviver func(key string, value any) (any, error)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DateReviver normalizes the named fields to RFC3339Nano text so they
// decode into time.Time. Arrays under those fields are converted element
// by element with null elements dropped; empty text and null become null.
func DateReviver(fields ...string) Reviver {
	names := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		names[f] = struct{}{}
	}
	return func(key string, value any) (any, error) {
		if _, ok := names[key]; !ok {
			return value, nil
		}
		switch v := value.(type) {
		case nil:
			return nil, nil
		case string:
			return reviveDate(key, v)
		case []any:
			out := make([]any, 0, len(v))
			for _, el := range v {
				if el == nil {
					continue
				}
				s, ok := el.(string)
				if !ok {
					return nil, fmt.Errorf("field %s: expected date text, got %T", key, el)
				}
				d, err := reviveDate(key, s)
				if err != nil {
					return nil, err
				}
				if d != nil {
					out = append(out, d)
				}
			}
			return out, nil
		default:
			return nil, fmt.Errorf("field %s: expected date text, got %T", key, value)
		}
	}
}

func reviveDate(key, text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t.Format(time.RFC3339Nano), nil
		}
	}
	return nil, fmt.Errorf("field %s: unparsable date %q", key, text)
}
