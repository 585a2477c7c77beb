package core

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts understood by the tracker. Rows written by this app use the
// ISO form; older rows entered by hand use the slash form.
const (
	DateLayoutISO     = "2006-01-02"
	DateLayoutDisplay = "02/01/2006"
)

// MonthsShort labels the twelve chart columns.
var MonthsShort = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ParseDate converts a cell value into a time.Time. time.Time values pass
// through unchanged. Strings containing a dash parse as YYYY-MM-DD and
// everything else as DD/MM/YYYY; the dash is the only format
// discriminator, so a dashed non-ISO string fails rather than falling back
// to the slash form. ok is false for empty or unparseable input. ParseDate
// never panics.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d, true
	case string:
		return parseDateString(d)
	default:
		return parseDateString(fmt.Sprint(v))
	}
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	layout := DateLayoutDisplay
	if strings.Contains(s, "-") {
		layout = DateLayoutISO
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t in the display form DD/MM/YYYY. The zero time
// renders as the empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayoutDisplay)
}

// FormatDateISO renders t as YYYY-MM-DD, the form written back to the
// store. The zero time renders as the empty string.
func FormatDateISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayoutISO)
}
