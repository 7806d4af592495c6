package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parts is one instant split into the two pieces the form edits
// independently. Date carries only the calendar day; Time is "HH:MM".
type Parts struct {
	Date *time.Time `json:"date"`
	Time string     `json:"time"`
}

// Complete reports whether both pieces are present.
func (p Parts) Complete() bool {
	return p.Date != nil && p.Time != ""
}

// Combine merges a calendar date and an "HH:MM" wall-clock time into one
// instant with seconds and sub-seconds zeroed.
func Combine(date time.Time, clock string) (time.Time, error) {
	hours, minutes, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, date.Location()), nil
}

// FormatTime renders the wall-clock part of an instant as "HH:MM".
func FormatTime(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Split breaks an instant back into Parts.
func Split(t time.Time) Parts {
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Parts{Date: &date, Time: FormatTime(t)}
}

// ValidRange checks the cross-field rule: with any component missing it
// has no opinion (per-field required validation owns that case) and
// reports valid; otherwise the range is invalid iff end is strictly
// before start. Equal instants are allowed.
func ValidRange(start, end Parts) bool {
	if !start.Complete() || !end.Complete() {
		return true
	}
	s, err := Combine(*start.Date, start.Time)
	if err != nil {
		return true
	}
	e, err := Combine(*end.Date, end.Time)
	if err != nil {
		return true
	}
	return !e.Before(s)
}

func parseClock(clock string) (int, int, error) {
	pieces := strings.SplitN(clock, ":", 2)
	if len(pieces) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q", clock)
	}
	hours, err := strconv.Atoi(pieces[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q", clock)
	}
	minutes, err := strconv.Atoi(pieces[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q", clock)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("invalid time %q", clock)
	}
	return hours, minutes, nil
}
