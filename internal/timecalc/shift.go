package timecalc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field names reported by ValidationError.
const (
	FieldStart = "start_time"
	FieldEnd   = "end_time"
)

// ValidationKind classifies a ValidationError.
type ValidationKind int

const (
	Missing ValidationKind = iota + 1
	Malformed
	NotAfterStart
)

// ValidationError reports bad time input for a single field.
type ValidationError struct {
	Field string
	Kind  ValidationKind
	Value string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case Missing:
		return fmt.Sprintf("%s is required", e.Field)
	case Malformed:
		return fmt.Sprintf("%s %q has an invalid format, want HH:mm", e.Field, e.Value)
	case NotAfterStart:
		return "end must be after start"
	}
	return fmt.Sprintf("%s is invalid", e.Field)
}

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// String returns the clock as HH:mm.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the clock time on day's date, in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// ParseClock parses a 24-hour H:mm or HH:mm value for field.
func ParseClock(field, value string) (Clock, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Clock{}, &ValidationError{Field: field, Kind: Missing}
	}
	m := clockPattern.FindStringSubmatch(value)
	if m == nil {
		return Clock{}, &ValidationError{Field: field, Kind: Malformed, Value: value}
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return Clock{Hour: h, Minute: min}, nil
}

// ShiftHours returns the hours worked between start and end on day. An end
// before the start is taken to be on the following day, so a 22:00–06:00
// shift is 8 hours. Identical start and end is rejected.
func ShiftHours(day time.Time, start, end Clock) (float64, error) {
	if start == end {
		return 0, &ValidationError{Field: FieldEnd, Kind: NotAfterStart, Value: end.String()}
	}
	from := start.On(day)
	to := end.On(day)
	if to.Before(from) {
		to = end.On(day.AddDate(0, 0, 1))
	}
	hours := to.Sub(from).Seconds() / 3600
	if hours <= 0 {
		return 0, &ValidationError{Field: FieldEnd, Kind: NotAfterStart, Value: end.String()}
	}
	return hours, nil
}

// NormalizeClockInput applies the HH:mm input mask: non-digits are dropped,
// a colon is inserted after the first two digits and the result is cut to
// five characters. "0930" becomes "09:30".
func NormalizeClockInput(raw string) string {
	if clockPattern.MatchString(strings.TrimSpace(raw)) {
		return strings.TrimSpace(raw)
	}
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	v := digits.String()
	if len(v) > 2 {
		v = v[:2] + ":" + v[2:]
	}
	if len(v) > 5 {
		v = v[:5]
	}
	return v
}
