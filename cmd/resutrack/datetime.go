package main

import (
	"strings"
	"time"

	"github.com/jonathan/resutrack/internal/validation"
)

// pickDateTime merges a --<field> date flag and a --<field>-time flag onto
// current the way the date and time pickers do: a bare date keeps the time
// already set, a time alone moves the existing date, an empty date clears
// both. A value that already carries a time is taken as is.
func pickDateTime(current *time.Time, date string, dateSet bool, clock string, clockSet bool) (string, error) {
	pick := validation.NewDateTimePick(current)

	if dateSet {
		date = strings.TrimSpace(date)
		switch {
		case date == "":
			pick = pick.SetDate(nil)
		case isBareDate(date):
			day, err := validation.ParseDateTime(date, time.Local)
			if err != nil {
				return "", err
			}
			pick = pick.SetDate(&day)
		default:
			t, err := validation.ParseDateTime(date, time.Local)
			if err != nil {
				// Left to the validator so the error is reported per field.
				return date, nil
			}
			pick = validation.NewDateTimePick(&t)
		}
	}

	if clockSet {
		var err error
		if pick, err = pick.SetTime(clock); err != nil {
			return "", err
		}
	}
	return pick.String(), nil
}

func isBareDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
