// Package schedule implements the slot availability computation for the
// booking flow: a fixed daily catalog of 12-hour clock slot strings, minus
// already-booked times, minus anything inside the advance-booking window.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/clipperline/barbershop-api/internal/model"
)

// MinLeadTime is the minimum gap between "now" and a bookable slot.
const MinLeadTime = 8 * time.Hour

// DefaultCatalog lists every bookable start time in chronological order.
// Business hours: 9 AM open, last chair at 7 PM.
var DefaultCatalog = []string{
	"9:00 AM", "10:00 AM", "11:00 AM", "11:30 AM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM",
	"5:00 PM", "6:00 PM", "7:00 PM",
}

// ParseSlot converts a catalog slot string ("9:00 AM", "12:30 PM") into
// 24-hour clock components. Hour 12 is the special case: 12 PM is noon,
// 12 AM is midnight.
func ParseSlot(slot string) (hour, minute int, err error) {
	clock, period, ok := strings.Cut(slot, " ")
	if !ok {
		return 0, 0, fmt.Errorf("malformed slot %q", slot)
	}

	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, 0, fmt.Errorf("malformed slot %q", slot)
	}

	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("malformed slot %q", slot)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("malformed slot %q", slot)
	}

	switch period {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	default:
		return 0, 0, fmt.Errorf("malformed slot %q", slot)
	}

	return hour, minute, nil
}

// SlotTime anchors a slot string to a calendar day in the day's location.
func SlotTime(day time.Time, slot string) (time.Time, error) {
	hour, minute, err := ParseSlot(slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// Bucket derives the time-of-day tab for a slot. The canonical rule: AM
// slots are morning, PM before 5 (including noon) is afternoon, 5 PM and
// later is evening.
func Bucket(slot string) (model.TimeOfDay, error) {
	hour, _, err := ParseSlot(slot)
	if err != nil {
		return "", err
	}
	switch {
	case hour < 12:
		return model.TimeOfDayMorning, nil
	case hour < 17:
		return model.TimeOfDayAfternoon, nil
	default:
		return model.TimeOfDayEvening, nil
	}
}

// Available filters catalog down to the slots still bookable on day for a
// barber with the given booked times, evaluated at now. Catalog order is
// preserved. Malformed catalog entries are skipped rather than offered.
func Available(catalog []string, booked []string, day time.Time, now time.Time) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	open := make([]string, 0, len(catalog))
	for _, slot := range catalog {
		if _, ok := taken[slot]; ok {
			continue
		}
		at, err := SlotTime(day, slot)
		if err != nil {
			continue
		}
		if at.Sub(now) < MinLeadTime {
			continue
		}
		open = append(open, slot)
	}
	return open
}

// Day truncates t to its calendar day, preserving the location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
