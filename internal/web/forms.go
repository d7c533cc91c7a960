package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskfollow/internal/errors"
)

// deadlineFormats are the accepted deadline input layouts. The first is
// what an HTML datetime-local control submits.
var deadlineFormats = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.RFC3339,
}

// parseDeadline parses a submitted deadline in the application zone.
// Inputs without an explicit offset are interpreted in loc.
func parseDeadline(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.NewValidationError("deadline is required", nil)
	}
	for _, layout := range deadlineFormats {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewValidationError("deadline format is invalid", nil)
}

// parseTaskID extracts the numeric task identifier from a route variable
func parseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.NewValidationError("task id must be a positive integer", err)
	}
	return id, nil
}

// parseMonthQuery reads the year and month query parameters, falling back
// to the current date in loc for anything missing or malformed.
func parseMonthQuery(r *http.Request, now time.Time, loc *time.Location) (int, time.Month) {
	local := now.In(loc)
	year, month := local.Year(), local.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil && y >= 1 {
			year = y
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if m, err := strconv.Atoi(raw); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}
	return year, month
}

// safeRedirectTarget validates a "next" parameter. Only site-local paths
// are honored; anything else falls back to the default target.
func safeRedirectTarget(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return fallback
	}
	return raw
}
