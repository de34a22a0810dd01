package visit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func at(hhmm string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", "2024-03-01 "+hhmm)
	return t
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		a0, a1, b0, b1 string
		want           bool
	}{
		{"identical", "10:00", "10:30", "10:00", "10:30", true},
		{"partial start", "10:15", "10:45", "10:00", "10:30", true},
		{"partial end", "09:45", "10:15", "10:00", "10:30", true},
		{"contained", "10:05", "10:10", "10:00", "10:30", true},
		{"containing", "09:00", "11:00", "10:00", "10:30", true},
		{"back to back after", "10:30", "11:00", "10:00", "10:30", false},
		{"back to back before", "09:30", "10:00", "10:00", "10:30", false},
		{"disjoint", "12:00", "12:30", "10:00", "10:30", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(at(tc.a0), at(tc.a1), at(tc.b0), at(tc.b1))
			assert.Equal(t, tc.want, got)

			// symmetric
			assert.Equal(t, tc.want, Overlaps(at(tc.b0), at(tc.b1), at(tc.a0), at(tc.a1)))
		})
	}
}

func TestNewSlot(t *testing.T) {
	s, err := NewSlot("2024-03-01", "10:00", 30)
	require.NoError(t, err)

	assert.Equal(t, at("10:00"), s.Start)
	assert.Equal(t, at("10:30"), s.End)
	assert.Equal(t, time.UTC, s.Start.Location())
}

func TestNewSlot_EndsAtMidnight(t *testing.T) {
	s, err := NewSlot("2024-03-01", "23:30", 30)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02 00:00", s.End.Format("2006-01-02 15:04"))
}

func TestNewSlot_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		date     string
		clock    string
		duration int
		code     string
	}{
		{"bad date", "2024-13-01", "10:00", 30, "invalid_date"},
		{"not a date", "01/03/2024", "10:00", 30, "invalid_date"},
		{"bad hour", "2024-03-01", "24:00", 30, "invalid_time"},
		{"bad minute", "2024-03-01", "10:60", 30, "invalid_time"},
		{"no padding", "2024-03-01", "9:00", 30, "invalid_time"},
		{"zero duration", "2024-03-01", "10:00", 0, "invalid_duration"},
		{"negative duration", "2024-03-01", "10:00", -15, "invalid_duration"},
		{"crosses midnight", "2024-03-01", "23:45", 30, "slot_crosses_midnight"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSlot(tc.date, tc.clock, tc.duration)
			require.Error(t, err)
			assert.True(t, httperr.IsValidation(err))
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestSlotOf_DefaultsDuration(t *testing.T) {
	v := &models.Visit{ScheduledDate: "2024-03-01", ScheduledTime: "10:00"}

	s, err := SlotOf(v)
	require.NoError(t, err)
	assert.Equal(t, at("10:30"), s.End)
}

func TestApplySlot(t *testing.T) {
	v := &models.Visit{}
	s, err := NewSlot("2024-03-01", "14:15", 45)
	require.NoError(t, err)

	ApplySlot(v, "2024-03-01", "14:15", 45, s)

	assert.Equal(t, "2024-03-01", v.ScheduledDate)
	assert.Equal(t, "14:15", v.ScheduledTime)
	assert.Equal(t, 45, v.DurationMinutes)
	assert.Equal(t, at("14:15"), v.StartsAt)
	assert.Equal(t, at("15:00"), v.EndsAt)
}
