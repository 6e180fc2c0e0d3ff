package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTimeSlots(t *testing.T) {
	tests := []struct {
		description string
		start       string
		end         string
		interval    int
		expected    []string
	}{
		{
			description: "hourly slots",
			start:       "09:00",
			end:         "12:00",
			interval:    60,
			expected:    []string{"09:00", "10:00", "11:00"},
		},
		{
			description: "half hour slots exclude the end time",
			start:       "16:00",
			end:         "17:30",
			interval:    30,
			expected:    []string{"16:00", "16:30", "17:00"},
		},
		{
			description: "interval crossing the hour boundary",
			start:       "09:15",
			end:         "10:30",
			interval:    45,
			expected:    []string{"09:15", "10:00"},
		},
		{
			description: "invalid start yields nothing",
			start:       "late",
			end:         "10:00",
			interval:    30,
			expected:    nil,
		},
		{
			description: "zero interval yields nothing",
			start:       "09:00",
			end:         "10:00",
			interval:    0,
			expected:    nil,
		},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, GenerateTimeSlots(test.start, test.end, test.interval), test.description)
	}
}

func TestSlotsForDateUsesWeekendHoursOnSunday(t *testing.T) {
	hours := BusinessHours{
		WeekdayStart: "09:00",
		WeekdayEnd:   "11:00",
		WeekendStart: "10:00",
		WeekendEnd:   "12:00",
		IntervalMins: 60,
	}

	sunday := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Sunday, sunday.Weekday())
	assert.Equal(t, []string{"10:00", "11:00"}, SlotsForDate(sunday, hours))

	monday := sunday.AddDate(0, 0, 1)
	assert.Equal(t, []string{"09:00", "10:00"}, SlotsForDate(monday, hours))

	saturday := sunday.AddDate(0, 0, 6)
	assert.Equal(t, time.Saturday, saturday.Weekday())
	assert.Equal(t, []string{"09:00", "10:00"}, SlotsForDate(saturday, hours), "Saturday runs on weekday hours")
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		description string
		startA      string
		durA        int
		startB      string
		durB        int
		expected    bool
	}{
		{"identical slots", "09:00", 60, "09:00", 60, true},
		{"candidate starts inside existing", "09:30", 60, "09:00", 60, true},
		{"existing starts inside candidate", "09:00", 90, "10:00", 60, true},
		{"back to back do not overlap", "09:00", 60, "10:00", 60, false},
		{"disjoint slots", "09:00", 60, "14:00", 90, false},
		{"90 minute lesson spills into next hour", "09:00", 90, "10:00", 60, true},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, Overlaps(test.startA, test.durA, test.startB, test.durB), test.description)
	}
}

func TestFilterAvailable(t *testing.T) {
	slots := []string{"09:00", "09:30", "10:00", "10:30", "11:00"}
	booked := []BookedSlot{{Time: "09:30", DurationMinutes: 60}}

	available := FilterAvailable(slots, 60, booked)
	assert.Equal(t, []string{"11:00"}, available[len(available)-1:])
	assert.NotContains(t, available, "09:30")
	assert.NotContains(t, available, "10:00", "a 60 minute lesson at 10:00 would overlap the 09:30 booking")
	assert.NotContains(t, available, "09:00", "a 60 minute lesson at 09:00 would overlap the 09:30 booking")
	assert.Contains(t, available, "10:30")
}

func TestFilterAvailableNoBookings(t *testing.T) {
	slots := []string{"09:00", "10:00"}
	assert.Equal(t, slots, FilterAvailable(slots, 90, nil))
}

func TestToMinutes(t *testing.T) {
	m, err := ToMinutes("13:45")
	assert.NoError(t, err)
	assert.Equal(t, 13*60+45, m)

	_, err = ToMinutes("25:00")
	assert.Error(t, err)

	_, err = ToMinutes("0900")
	assert.Error(t, err)
}
