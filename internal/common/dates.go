package common

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseTimestamp accepts RFC3339 or a bare calendar date and returns UTC.
func ParseTimestamp(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, BadInput("%s no tiene formato valido.", field)
}

// ParseDate is ParseTimestamp truncated to the UTC calendar date.
func ParseDate(field, value string) (time.Time, error) {
	t, err := ParseTimestamp(field, value)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// ParseOptionalDate returns nil for a nil or blank value.
func ParseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var Now = time.Now

func Today() time.Time { return DateOf(Now()) }

var timeOfDayPattern = regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2}))?$`)

// ParseTimeOfDay validates HH:mm or HH:mm:ss and returns HH:mm:ss.
func ParseTimeOfDay(field, value string) (string, error) {
	bad := BadInput("%s debe tener formato HH:mm o HH:mm:ss.", field)
	m := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return "", bad
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	s := 0
	if m[3] != "" {
		s, _ = strconv.Atoi(m[3])
	}
	if h > 23 || mi > 59 || s > 59 {
		return "", bad
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, mi, s), nil
}

// ParseOptionalTimeOfDay returns nil for a nil or blank value.
func ParseOptionalTimeOfDay(field string, value *string) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := ParseTimeOfDay(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
