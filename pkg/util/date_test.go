package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2026-03-01T12:00:00Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeInvalid(t *testing.T) {
    if _, ok := ParseTime("not-a-time"); ok {
        t.Fatalf("expected parse failure")
    }
    if _, ok := ParseTime(""); ok {
        t.Fatalf("expected empty string to fail")
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
    if got := ParseTimeDefault("", def); !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestAlignFromTo(t *testing.T) {
    from := time.Date(2026, 3, 1, 12, 0, 30, 500, time.UTC)
    to := time.Date(2026, 3, 1, 12, 5, 59, 0, time.UTC)

    af, at := AlignFromTo(from, to, "1s")
    if af.Nanosecond() != 0 || at.Second() != 59 {
        t.Fatalf("1s alignment wrong: %v %v", af, at)
    }

    af, at = AlignFromTo(from, to, "1m")
    if af.Second() != 0 || at.Minute() != 5 || at.Second() != 0 {
        t.Fatalf("1m alignment wrong: %v %v", af, at)
    }

    af, _ = AlignFromTo(from, to, "5m")
    if af.Minute() != 0 {
        t.Fatalf("5m alignment wrong: %v", af)
    }
}
