package http

import (
    "time"

    xutil "TransitScan/pkg/util"
)

// Re-exports of pkg/util parsers, so handlers only import this package for
// query-string handling.

func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

func ParseTime(s string) (time.Time, bool) { return xutil.ParseTime(s) }

func ParseTimeDefault(s string, def time.Time) time.Time { return xutil.ParseTimeDefault(s, def) }
