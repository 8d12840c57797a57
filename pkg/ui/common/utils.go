package common

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

// TruncateString is a convenient wrapper around truncate.TruncateString.
func TruncateString(s string, max int) string { //nolint:revive
	if max < 0 {
		max = 0 //nolint:revive
	}
	return truncate.StringWithTail(s, uint(max), "…") //nolint:gosec
}

// Ago formats a time relative to now. The zero unix time reads "never".
func Ago(t time.Time) string {
	if t.Unix() <= 0 {
		return "never"
	}
	return humanize.Time(t)
}
