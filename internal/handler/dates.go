package handler

import (
	"strings"
	"time"

	"github.com/jinzhu/now"
)

var dueDateFormats = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	time.DateTime,
}

// parseDueDate accepts a date, or a date with time, in local time.
func parseDueDate(s string) (time.Time, error) {
	cfg := &now.Config{
		TimeLocation: time.Local,
		TimeFormats:  dueDateFormats,
	}

	t, err := cfg.Parse(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, usagef("invalid value for 'DUE_DATE': %q does not match the formats %s",
			s, strings.Join(dueDateFormats, ", "))
	}
	return t, nil
}
