package scraper

import (
	"strconv"
	"strings"
	"time"
)

// valueAt walks decoded JSON with a dot-notation path ("data.streams[0].title").
// Negative indexes count from the end. The boolean is false whenever any
// segment is missing or typed wrong; mapping treats that as "field absent".
func valueAt(data any, path string) (any, bool) {
	if path == "" || path == "." {
		return data, data != nil
	}

	current := data
	for _, seg := range splitPath(path) {
		if current == nil {
			return nil, false
		}
		if idx, err := strconv.Atoi(seg); err == nil {
			arr, ok := current.([]any)
			if !ok {
				return nil, false
			}
			if idx < 0 {
				idx += len(arr)
			}
			if idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
			continue
		}
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

// splitPath breaks a path into segments, treating bracketed indexes as their
// own segment: "a.b[2].c" becomes [a b 2 c].
func splitPath(path string) []string {
	var segments []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			segments = append(segments, cur.String())
			cur.Reset()
		}
	}
	for _, r := range path {
		switch r {
		case '.', '[', ']':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return segments
}

func stringAt(data any, path string) (string, bool) {
	v, ok := valueAt(data, path)
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10), true
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

func intAt(data any, path string) (int, bool) {
	v, ok := valueAt(data, path)
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return int(val), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func int64At(data any, path string) (int64, bool) {
	v, ok := valueAt(data, path)
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return int64(val), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func boolAt(data any, path string) (bool, bool) {
	v, ok := valueAt(data, path)
	if !ok {
		return false, false
	}
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

func timeAt(data any, path string) (time.Time, bool) {
	s, ok := stringAt(data, path)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Unix seconds are common in provider APIs.
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0).UTC(), true
	}
	return time.Time{}, false
}
