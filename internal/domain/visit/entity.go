package visit

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func CheckIn(v *models.Visit, vitals map[string]any, now time.Time) error {
	if err := CanCheckIn(v); err != nil {
		return err
	}

	if len(vitals) > 0 {
		merged, err := MergeVitalSigns(v.VitalSigns, vitals)
		if err != nil {
			return err
		}
		v.VitalSigns = merged
	}

	v.CheckInTime = &now
	return nil
}

func Start(v *models.Visit, vitals map[string]any, now time.Time) error {
	if err := CanStart(v); err != nil {
		return err
	}

	if len(vitals) > 0 {
		merged, err := MergeVitalSigns(v.VitalSigns, vitals)
		if err != nil {
			return err
		}
		v.VitalSigns = merged
	}

	v.Status = string(StatusInProgress)
	v.StartTime = &now
	return nil
}

func Complete(v *models.Visit, now time.Time) error {
	if err := CanComplete(Status(v.Status)); err != nil {
		return err
	}

	v.Status = string(StatusCompleted)
	v.EndTime = &now
	return nil
}

func Cancel(v *models.Visit, reason string, cancelledBy uuid.UUID, now time.Time) error {
	if err := CanCancel(Status(v.Status)); err != nil {
		return err
	}

	v.Status = string(StatusCancelled)
	v.CancellationReason = reason
	v.CancelledBy = &cancelledBy
	v.CancelledAt = &now
	return nil
}

// Reschedule moves v to a new slot. The caller must have checked the new
// slot against the practitioner's agenda.
func Reschedule(v *models.Visit, date, clock string, durationMinutes int) (Slot, error) {
	if err := CanReschedule(Status(v.Status)); err != nil {
		return Slot{}, err
	}
	if durationMinutes == 0 {
		durationMinutes = v.DurationMinutes
	}

	slot, err := NewSlot(date, clock, durationMinutes)
	if err != nil {
		return Slot{}, err
	}

	ApplySlot(v, date, clock, durationMinutes, slot)
	return slot, nil
}
