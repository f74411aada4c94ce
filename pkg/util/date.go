package util

import (
    "strconv"
    "time"
)

// ParseTime accepts RFC3339, RFC3339Nano, or unix seconds.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
        if t, err := time.Parse(layout, s); err == nil {
            return t, true
        }
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns def if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// AlignFromTo truncates a query range to the bucket boundaries of the given
// cadence, so range reads line up with the materialized bins.
func AlignFromTo(from, to time.Time, cadence string) (time.Time, time.Time) {
    step := time.Minute
    switch cadence {
    case "1s":
        step = time.Second
    case "5m":
        step = 5 * time.Minute
    }
    return from.Truncate(step), to.Truncate(step)
}
