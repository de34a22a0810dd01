package visit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	visituc "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/visit"
)

func TestReschedule_MovesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.book(t, "10:00", 30)

	got, err := f.reschedule.Execute(ctx, visituc.RescheduleVisitInput{
		VisitID: v.ID,
		Date:    day,
		Time:    "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "14:00", got.ScheduledTime)
	assert.Equal(t, 30, got.DurationMinutes)
	assert.Equal(t, string(domain.StatusScheduled), got.Status)

	// the old slot is free again
	f.book(t, "10:00", 30)
}

func TestReschedule_OverlappingItselfIsAllowed(t *testing.T) {
	f := newFixture(t)
	v := f.book(t, "10:00", 30)

	got, err := f.reschedule.Execute(context.Background(), visituc.RescheduleVisitInput{
		VisitID:         v.ID,
		Date:            day,
		Time:            "10:15",
		DurationMinutes: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, got.DurationMinutes)
}

func TestReschedule_Conflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "10:00", 30)
	v := f.book(t, "11:00", 30)

	_, err := f.reschedule.Execute(ctx, visituc.RescheduleVisitInput{
		VisitID: v.ID,
		Date:    day,
		Time:    "10:20",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))

	stored, err := f.get.Execute(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "11:00", stored.ScheduledTime)
}

func TestReschedule_AnotherDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.book(t, "10:00", 30)

	got, err := f.reschedule.Execute(ctx, visituc.RescheduleVisitInput{
		VisitID: v.ID,
		Date:    "2024-03-04",
		Time:    "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", got.ScheduledDate)

	agenda, err := f.list.Execute(ctx, listInput(f))
	require.NoError(t, err)
	assert.Empty(t, agenda)
}

func TestReschedule_KeepsInProgressStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.book(t, "10:00", 30)
	_, err := f.checkIn.Execute(ctx, v.ID, nil, nil)
	require.NoError(t, err)
	_, err = f.start.Execute(ctx, v.ID, nil, nil)
	require.NoError(t, err)

	got, err := f.reschedule.Execute(ctx, visituc.RescheduleVisitInput{
		VisitID: v.ID, Date: day, Time: "10:00", DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInProgress), got.Status)
	assert.NotNil(t, got.StartTime)
}

func TestReschedule_TerminalVisit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.book(t, "10:00", 30)
	_, err := f.cancel.Execute(ctx, v.ID, "", f.staff)
	require.NoError(t, err)

	_, err = f.reschedule.Execute(ctx, visituc.RescheduleVisitInput{
		VisitID: v.ID, Date: day, Time: "12:00",
	})
	assert.True(t, httperr.IsInvalidState(err))
}

func TestReschedule_InvalidInput(t *testing.T) {
	f := newFixture(t)
	v := f.book(t, "10:00", 30)

	_, err := f.reschedule.Execute(context.Background(), visituc.RescheduleVisitInput{
		VisitID: v.ID, Date: "tomorrow", Time: "12:00",
	})
	assert.True(t, httperr.IsValidation(err))
}
