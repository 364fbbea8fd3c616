package service

import (
	"strings"
	"time"

	"go-farm-inventory/pkg/validator"
)

// parseDate reads a YYYY-MM-DD value as midnight UTC.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(validator.DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, invalid("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

// parseOptionalDate returns nil for an empty value.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// today is the current UTC calendar date.
func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
