// Package hours implements the operating-hours schedule used to gate kiosk
// sessions. A schedule is stored as a single string of seven windows,
// Sunday first, separated by commas:
//
//	"08:00-22:00,08:00-22:00,08:00-22:00,08:00-22:00,08:00-14:00,-,20:00-23:00"
//
// A window of "-" (or empty) means the organization is closed that day.
package hours

import (
	"fmt"
	"strings"
	"time"
)

// Window is a single day's opening window, in minutes from midnight.
type Window struct {
	OpenMinute  int
	CloseMinute int
	Closed      bool
}

// Week is a full weekly schedule, indexed by time.Weekday (Sunday = 0).
type Week [7]Window

const closedMark = "-"

// ParseWeek parses a stored schedule string into a Week.
//
// The string must contain exactly seven comma-separated windows. Each
// window is either "-" for a closed day or "HH:MM-HH:MM" with open
// strictly before close.
func ParseWeek(s string) (Week, error) {
	const op = "hours.ParseWeek"
	var week Week

	parts := strings.Split(s, ",")
	if len(parts) != 7 {
		return week, fmt.Errorf("%s: expected 7 day windows, got %d", op, len(parts))
	}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == closedMark {
			week[i] = Window{Closed: true}
			continue
		}
		openStr, closeStr, ok := strings.Cut(part, "-")
		if !ok {
			return week, fmt.Errorf("%s: day %d: window %q has no '-' separator", op, i, part)
		}
		openMin, err := parseClock(openStr)
		if err != nil {
			return week, fmt.Errorf("%s: day %d: %w", op, i, err)
		}
		closeMin, err := parseClock(closeStr)
		if err != nil {
			return week, fmt.Errorf("%s: day %d: %w", op, i, err)
		}
		if openMin >= closeMin {
			return week, fmt.Errorf("%s: day %d: open %q is not before close %q", op, i, openStr, closeStr)
		}
		week[i] = Window{OpenMinute: openMin, CloseMinute: closeMin}
	}
	return week, nil
}

// IsOpen reports whether t falls inside the schedule, and when it does not,
// a machine-readable reason: "closed_today" or "outside_hours".
func (w Week) IsOpen(t time.Time) (bool, string) {
	win := w[int(t.Weekday())]
	if win.Closed {
		return false, "closed_today"
	}
	minute := t.Hour()*60 + t.Minute()
	if minute < win.OpenMinute || minute >= win.CloseMinute {
		return false, "outside_hours"
	}
	return true, ""
}

// String renders the week back into the stored format.
func (w Week) String() string {
	parts := make([]string, 7)
	for i, win := range w {
		if win.Closed {
			parts[i] = closedMark
			continue
		}
		parts[i] = fmt.Sprintf("%02d:%02d-%02d:%02d",
			win.OpenMinute/60, win.OpenMinute%60,
			win.CloseMinute/60, win.CloseMinute%60)
	}
	return strings.Join(parts, ",")
}

func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return clock.Hour()*60 + clock.Minute(), nil
}
