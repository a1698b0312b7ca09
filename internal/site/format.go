package site

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
)

// DefaultTruncate is the length Truncate uses when n is not positive.
const DefaultTruncate = 100

// FormatDate formats an API timestamp as "January 2, 2006". Empty or
// unparseable input yields "".
func FormatDate(s string) string {
	t, ok := digest.ParseTime(s)
	if !ok {
		return ""
	}
	return t.Format("January 2, 2006")
}

// RelativeTime describes s relative to now, e.g. "3 days ago".
func RelativeTime(s string, now time.Time) string {
	t, ok := digest.ParseTime(s)
	if !ok {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Truncate cuts text to n runes and appends "...".
func Truncate(text string, n int) string {
	if n <= 0 {
		n = DefaultTruncate
	}
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
