package visit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var now = time.Date(2024, 3, 1, 10, 2, 0, 0, time.UTC)

func scheduled() *models.Visit {
	return &models.Visit{
		ID:              uuid.New(),
		Status:          string(StatusScheduled),
		ScheduledDate:   "2024-03-01",
		ScheduledTime:   "10:00",
		DurationMinutes: 30,
	}
}

func TestStatus_Classification(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, s.IsTerminal(), s)
	}
	for _, s := range []Status{StatusScheduled, StatusCheckedIn, StatusInProgress} {
		assert.False(t, s.IsTerminal(), s)
		assert.True(t, s.BlocksSlot(), s)
	}

	assert.False(t, StatusCancelled.BlocksSlot())
	assert.False(t, StatusNoShow.BlocksSlot())
	assert.True(t, StatusCompleted.BlocksSlot())

	assert.False(t, Status("ARCHIVED").Valid())
	assert.ElementsMatch(t, []string{"CANCELLED", "NO_SHOW"}, NonBlockingStatuses())
}

func TestCheckIn_KeepsStatusAndStampsTime(t *testing.T) {
	v := scheduled()

	require.NoError(t, CheckIn(v, map[string]any{"bp": "120/80"}, now))

	assert.Equal(t, string(StatusScheduled), v.Status)
	require.NotNil(t, v.CheckInTime)
	assert.Equal(t, now, *v.CheckInTime)
	assert.Equal(t, "120/80", v.VitalSigns["bp"])
	assert.True(t, HasCheckedIn(v))
}

func TestCheckIn_Twice(t *testing.T) {
	v := scheduled()
	require.NoError(t, CheckIn(v, nil, now))

	err := CheckIn(v, nil, now)
	assert.True(t, httperr.IsBusiness(err, "already_checked_in"))
}

func TestCheckIn_RequiresScheduled(t *testing.T) {
	for _, s := range []Status{StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow} {
		v := scheduled()
		v.Status = string(s)

		err := CheckIn(v, nil, now)
		assert.True(t, httperr.IsInvalidState(err), s)
	}
}

func TestStart_RequiresCheckIn(t *testing.T) {
	v := scheduled()

	err := Start(v, nil, now)
	require.Error(t, err)
	assert.True(t, httperr.IsInvalidState(err))
	assert.Contains(t, err.Error(), "must check in before starting")
	assert.Equal(t, string(StatusScheduled), v.Status)
}

func TestStart_AfterCheckIn(t *testing.T) {
	v := scheduled()
	require.NoError(t, CheckIn(v, map[string]any{"pulse": 72.0}, now))

	later := now.Add(5 * time.Minute)
	require.NoError(t, Start(v, map[string]any{"pain": 4.0}, later))

	assert.Equal(t, string(StatusInProgress), v.Status)
	assert.Equal(t, later, *v.StartTime)
	assert.Equal(t, 72.0, v.VitalSigns["pulse"])
	assert.Equal(t, 4.0, v.VitalSigns["pain"])
}

func TestStart_Twice(t *testing.T) {
	v := scheduled()
	require.NoError(t, CheckIn(v, nil, now))
	require.NoError(t, Start(v, nil, now))

	err := Start(v, nil, now)
	assert.True(t, httperr.IsBusiness(err, "visit_already_started"))
}

func TestComplete(t *testing.T) {
	v := scheduled()
	assert.True(t, httperr.IsInvalidState(Complete(v, now)))

	require.NoError(t, CheckIn(v, nil, now))
	require.NoError(t, Start(v, nil, now))
	require.NoError(t, Complete(v, now.Add(time.Hour)))

	assert.Equal(t, string(StatusCompleted), v.Status)
	require.NotNil(t, v.EndTime)
}

func TestCancel(t *testing.T) {
	by := uuid.New()

	for _, s := range []Status{StatusScheduled, StatusCheckedIn, StatusInProgress} {
		v := scheduled()
		v.Status = string(s)

		require.NoError(t, Cancel(v, "patient sick", by, now), s)
		assert.Equal(t, string(StatusCancelled), v.Status)
		assert.Equal(t, "patient sick", v.CancellationReason)
		assert.Equal(t, by, *v.CancelledBy)
		assert.Equal(t, now, *v.CancelledAt)
	}
}

func TestCancel_Completed(t *testing.T) {
	v := scheduled()
	v.Status = string(StatusCompleted)

	err := Cancel(v, "", uuid.New(), now)
	require.Error(t, err)
	assert.True(t, httperr.IsInvalidState(err))
	assert.True(t, httperr.IsBusiness(err, "cannot_cancel_completed"))
	assert.Contains(t, err.Error(), "cannot cancel a completed visit")
}

func TestCancel_AlreadyClosed(t *testing.T) {
	for _, s := range []Status{StatusCancelled, StatusNoShow} {
		v := scheduled()
		v.Status = string(s)
		assert.True(t, httperr.IsInvalidState(Cancel(v, "", uuid.New(), now)), s)
	}
}

// No operation leaves a terminal status.
func TestTerminalStatusesAreClosed(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		v := scheduled()
		v.Status = string(s)
		v.CheckInTime = &now

		assert.Error(t, CheckIn(v, nil, now), s)
		assert.Error(t, Start(v, nil, now), s)
		assert.Error(t, Complete(v, now), s)
		assert.Error(t, Cancel(v, "", uuid.New(), now), s)
		_, err := Reschedule(v, "2024-03-02", "09:00", 30)
		assert.Error(t, err, s)
		assert.Error(t, CanUpdate(s), s)

		assert.Equal(t, string(s), v.Status)
	}
}

func TestReschedule(t *testing.T) {
	v := scheduled()
	v.Status = string(StatusInProgress)

	slot, err := Reschedule(v, "2024-03-02", "11:00", 0)
	require.NoError(t, err)

	assert.Equal(t, string(StatusInProgress), v.Status)
	assert.Equal(t, "2024-03-02", v.ScheduledDate)
	assert.Equal(t, "11:00", v.ScheduledTime)
	assert.Equal(t, 30, v.DurationMinutes)
	assert.Equal(t, slot.Start, v.StartsAt)
	assert.Equal(t, slot.End, v.EndsAt)
}

func TestReschedule_InvalidSlot(t *testing.T) {
	v := scheduled()

	_, err := Reschedule(v, "2024-03-02", "25:00", 30)
	assert.True(t, httperr.IsValidation(err))
	assert.Equal(t, "2024-03-01", v.ScheduledDate)
}
