package visit

import (
	"regexp"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultDurationMinutes = 30
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Slot is the half-open interval [Start, End) occupied by a visit. Times are
// clinic-local wall clock carried in UTC so they compare without zone math.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [a0,a1) and [b0,b1) share any instant.
func Overlaps(a0, a1, b0, b1 time.Time) bool {
	return a0.Before(b1) && b0.Before(a1)
}

func (s Slot) Overlaps(o Slot) bool {
	return Overlaps(s.Start, s.End, o.Start, o.End)
}

func ParseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, httperr.ValidationErr("invalid_date", "scheduled_date must be YYYY-MM-DD")
	}
	return d, nil
}

func ValidateClock(clock string) error {
	if !clockPattern.MatchString(clock) {
		return httperr.ValidationErr("invalid_time", "scheduled_time must be HH:MM (24h)")
	}
	return nil
}

func ValidateDuration(minutes int) error {
	if minutes <= 0 {
		return httperr.ValidationErr("invalid_duration", "duration_minutes must be a positive integer")
	}
	return nil
}

// NewSlot turns a calendar day, a time of day and a duration into a slot.
// A slot may end at midnight but not run into the next day, since the
// overlap scan only looks at one day.
func NewSlot(date, clock string, durationMinutes int) (Slot, error) {
	day, err := ParseDate(date)
	if err != nil {
		return Slot{}, err
	}
	if err := ValidateClock(clock); err != nil {
		return Slot{}, err
	}
	if err := ValidateDuration(durationMinutes); err != nil {
		return Slot{}, err
	}

	t, _ := time.Parse(TimeLayout, clock)
	start := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	if end.After(day.AddDate(0, 0, 1)) {
		return Slot{}, httperr.ValidationErr("slot_crosses_midnight", "visit must end on its scheduled day")
	}

	return Slot{Start: start, End: end}, nil
}

// SlotOf computes the slot of a stored visit from its scheduling fields.
func SlotOf(v *models.Visit) (Slot, error) {
	duration := v.DurationMinutes
	if duration == 0 {
		duration = DefaultDurationMinutes
	}
	return NewSlot(v.ScheduledDate, v.ScheduledTime, duration)
}

// ApplySlot writes the scheduling fields and derived bounds onto v.
func ApplySlot(v *models.Visit, date, clock string, durationMinutes int, slot Slot) {
	v.ScheduledDate = date
	v.ScheduledTime = clock
	v.DurationMinutes = durationMinutes
	v.StartsAt = slot.Start
	v.EndsAt = slot.End
}
