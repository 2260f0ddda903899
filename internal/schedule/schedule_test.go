package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipperline/barbershop-api/internal/model"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		slot   string
		hour   int
		minute int
	}{
		{"9:00 AM", 9, 0},
		{"11:30 AM", 11, 30},
		{"12:00 PM", 12, 0},
		{"12:30 PM", 12, 30},
		{"12:00 AM", 0, 0},
		{"1:00 PM", 13, 0},
		{"7:00 PM", 19, 0},
	}

	for _, tt := range tests {
		hour, minute, err := ParseSlot(tt.slot)
		require.NoError(t, err, tt.slot)
		assert.Equal(t, tt.hour, hour, tt.slot)
		assert.Equal(t, tt.minute, minute, tt.slot)
	}
}

func TestParseSlotMalformed(t *testing.T) {
	for _, slot := range []string{"", "9:00", "9 AM", "13:00 PM", "0:00 AM", "9:60 AM", "9:00 XX"} {
		_, _, err := ParseSlot(slot)
		assert.Error(t, err, slot)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		slot string
		want model.TimeOfDay
	}{
		{"9:00 AM", model.TimeOfDayMorning},
		{"11:30 AM", model.TimeOfDayMorning},
		{"12:00 PM", model.TimeOfDayAfternoon},
		{"1:00 PM", model.TimeOfDayAfternoon},
		{"4:00 PM", model.TimeOfDayAfternoon},
		{"5:00 PM", model.TimeOfDayEvening},
		{"7:00 PM", model.TimeOfDayEvening},
	}

	for _, tt := range tests {
		got, err := Bucket(tt.slot)
		require.NoError(t, err, tt.slot)
		assert.Equal(t, tt.want, got, tt.slot)
	}
}

func TestAvailableExcludesBookedSlot(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 9, 8, 0, 0, 0, time.UTC)

	open := Available(DefaultCatalog, []string{"2:00 PM"}, day, now)

	assert.NotContains(t, open, "2:00 PM")
	assert.Contains(t, open, "9:00 AM")
	assert.Contains(t, open, "7:00 PM")
	assert.Len(t, open, len(DefaultCatalog)-1)
}

func TestAvailableEnforcesLeadTime(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	// 6 AM same day: 9:00 AM is 3h away, 2:00 PM exactly 8h, 1:00 PM only 7h.
	now := time.Date(2024, 6, 10, 6, 0, 0, 0, time.UTC)

	open := Available(DefaultCatalog, nil, day, now)

	assert.Equal(t, []string{"2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM", "6:00 PM", "7:00 PM"}, open)

	for _, slot := range open {
		at, err := SlotTime(day, slot)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, at.Sub(now), MinLeadTime, slot)
	}
}

func TestAvailablePreservesCatalogOrder(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := day.AddDate(0, 0, -2)

	open := Available(DefaultCatalog, []string{"10:00 AM", "5:00 PM"}, day, now)

	want := []string{"9:00 AM", "11:00 AM", "11:30 AM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "6:00 PM", "7:00 PM"}
	assert.Equal(t, want, open)
}

func TestAvailableAllInPast(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, Available(DefaultCatalog, nil, day, now))
}

func TestDay(t *testing.T) {
	ts := time.Date(2024, 6, 1, 9, 30, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Day(ts))
}
