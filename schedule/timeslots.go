package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	config "github.com/truthdriving/driving_school/configs"
)

// BusinessHours describes when lessons can start. Sunday runs on the
// weekend hours, Monday through Saturday on the weekday hours.
type BusinessHours struct {
	WeekdayStart string
	WeekdayEnd   string
	WeekendStart string
	WeekendEnd   string
	IntervalMins int
}

func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		WeekdayStart: "09:00",
		WeekdayEnd:   "19:00",
		WeekendStart: "10:00",
		WeekendEnd:   "17:00",
		IntervalMins: 30,
	}
}

// HoursFromConfig reads the business hours from the environment, falling
// back to the defaults for any unset or unparsable key.
func HoursFromConfig() BusinessHours {
	hours := DefaultBusinessHours()

	if v := config.Config("BOOKING_WEEKDAY_START"); v != "" {
		hours.WeekdayStart = v
	}
	if v := config.Config("BOOKING_WEEKDAY_END"); v != "" {
		hours.WeekdayEnd = v
	}
	if v := config.Config("BOOKING_WEEKEND_START"); v != "" {
		hours.WeekendStart = v
	}
	if v := config.Config("BOOKING_WEEKEND_END"); v != "" {
		hours.WeekendEnd = v
	}
	if v := config.Config("BOOKING_SLOT_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hours.IntervalMins = n
		}
	}

	return hours
}

// GenerateTimeSlots returns the ordered "HH:MM" start times from startTime
// (inclusive) up to endTime (exclusive), stepping by intervalMinutes.
func GenerateTimeSlots(startTime, endTime string, intervalMinutes int) []string {
	start, err := ToMinutes(startTime)
	if err != nil {
		return nil
	}
	end, err := ToMinutes(endTime)
	if err != nil {
		return nil
	}
	if intervalMinutes <= 0 {
		return nil
	}

	var slots []string
	for m := start; m < end; m += intervalMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// SlotsForDate maps a calendar date to its bookable start times.
func SlotsForDate(date time.Time, hours BusinessHours) []string {
	if date.Weekday() == time.Sunday {
		return GenerateTimeSlots(hours.WeekendStart, hours.WeekendEnd, hours.IntervalMins)
	}
	return GenerateTimeSlots(hours.WeekdayStart, hours.WeekdayEnd, hours.IntervalMins)
}

// BookedSlot is an occupied interval used by the advisory availability
// display: a verified booking's start time and duration.
type BookedSlot struct {
	Time            string
	DurationMinutes int
}

// Overlaps reports whether [startA, startA+durA) intersects
// [startB, startB+durB).
func Overlaps(startA string, durA int, startB string, durB int) bool {
	a1, err := ToMinutes(startA)
	if err != nil {
		return false
	}
	b1, err := ToMinutes(startB)
	if err != nil {
		return false
	}
	a2 := a1 + durA
	b2 := b1 + durB
	return a1 < b2 && b1 < a2
}

// FilterAvailable drops the slots a candidate lesson of the given duration
// would overlap with. This is display-path advice only: the write-path
// conflict rule is strict (date, time) equality.
func FilterAvailable(slots []string, durationMinutes int, booked []BookedSlot) []string {
	available := make([]string, 0, len(slots))
	for _, slot := range slots {
		occupied := false
		for _, b := range booked {
			if Overlaps(slot, durationMinutes, b.Time, b.DurationMinutes) {
				occupied = true
				break
			}
		}
		if !occupied {
			available = append(available, slot)
		}
	}
	return available
}

// ToMinutes converts an "HH:MM" string to minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", hhmm)
	}
	return h*60 + m, nil
}
