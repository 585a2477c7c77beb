package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// requestTimeout bounds the store work done for a single request.
const requestTimeout = 7 * time.Second

// parseYear reads the year query parameter. Missing or malformed values
// fall back to the current year; 0 or "all" disables the year filter.
func parseYear(q url.Values) int {
	raw := strings.TrimSpace(q.Get("year"))
	if raw == "" {
		return time.Now().Year()
	}
	if strings.EqualFold(raw, "all") {
		return 0
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return time.Now().Year()
	}
	if year != 0 && (year < 1900 || year > 2200) {
		return time.Now().Year()
	}
	return year
}

// yearOptions lists the selectable years, next year first so entries
// dated slightly ahead stay reachable.
func yearOptions() []int {
	current := time.Now().Year()
	years := make([]int, 0, 6)
	for y := current + 1; y >= current-4; y-- {
		years = append(years, y)
	}
	return years
}

// sanitizeInput strips control characters and caps the length of
// user-supplied text before it reaches the services or the log.
func sanitizeInput(input string) string {
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, input)

	const maxLength = 1000
	if len(sanitized) > maxLength {
		sanitized = sanitized[:maxLength]
	}
	return strings.TrimSpace(sanitized)
}

// redirectWithSuccess sends the post-redirect-get hop with a flash
// message in the query string.
func redirectWithSuccess(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

// redirectWithError sends the post-redirect-get hop carrying the failure.
func redirectWithError(w http.ResponseWriter, r *http.Request, path string, err error) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
}

// flashFromQuery pulls the one-shot messages a redirect left behind.
func flashFromQuery(q url.Values) (msg, errMsg string) {
	return sanitizeInput(q.Get("msg")), sanitizeInput(q.Get("error"))
}

// formColumn indexes into a repeated form field, padding with blanks so
// ragged bulk rows still line up.
func formColumn(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// methodNotAllowed answers requests outside a handler's method set.
func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
