package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTimeWithoutDate is returned when a clock time is picked before a date.
var ErrTimeWithoutDate = errors.New("pick a date before setting a time")

// dateLayouts are tried in order. RFC 3339 is what JSON encoders produce;
// the rest are what people type.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime parses a date or date-time in any accepted layout.
// Layouts without a zone are interpreted in loc.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format %q", value)
}

// DateTimePick merges a calendar pick and a separate clock pick into one
// optional date-time. Changing the date keeps the time of day already
// chosen, changing the time keeps the date, and clearing the date clears
// both.
type DateTimePick struct {
	value *time.Time
}

// NewDateTimePick starts from an existing value, which may be nil.
func NewDateTimePick(current *time.Time) DateTimePick {
	if current == nil {
		return DateTimePick{}
	}
	t := *current
	return DateTimePick{value: &t}
}

// SetDate applies a calendar pick. Only the year, month and day of date are
// used. A nil date clears the pick.
func (p DateTimePick) SetDate(date *time.Time) DateTimePick {
	if date == nil {
		return DateTimePick{}
	}
	loc := date.Location()
	hour, minute := 0, 0
	if p.value != nil {
		loc = p.value.Location()
		hour, minute = p.value.Hour(), p.value.Minute()
	}
	t := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc)
	return DateTimePick{value: &t}
}

// SetTime applies a clock pick in "HH:MM" form. Seconds are zeroed.
func (p DateTimePick) SetTime(hhmm string) (DateTimePick, error) {
	if p.value == nil {
		return p, ErrTimeWithoutDate
	}
	clock, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return p, fmt.Errorf("invalid time %q: expected HH:MM", hhmm)
	}
	v := *p.value
	t := time.Date(v.Year(), v.Month(), v.Day(), clock.Hour(), clock.Minute(), 0, 0, v.Location())
	return DateTimePick{value: &t}, nil
}

// Value returns the merged date-time, or nil when no date is picked.
func (p DateTimePick) Value() *time.Time {
	if p.value == nil {
		return nil
	}
	t := *p.value
	return &t
}

// String renders the pick in the form accepted by ParseDateTime, or "".
func (p DateTimePick) String() string {
	if p.value == nil {
		return ""
	}
	return p.value.Format(time.RFC3339)
}
