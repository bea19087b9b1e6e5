package utils

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration safely parses a duration string like "30s", returning
// fallback when d is empty or invalid.
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// ParseYear parses an API date field ("2021") into a year.
func ParseYear(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
