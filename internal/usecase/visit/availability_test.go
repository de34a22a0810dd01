package visit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func TestAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booked := f.book(t, "10:00", 30)

	cases := []struct {
		clock    string
		duration int
		free     bool
	}{
		{"09:30", 30, true},
		{"09:45", 30, false},
		{"10:00", 30, false},
		{"10:29", 5, false},
		{"10:30", 30, true},
		{"09:00", 180, false},
	}

	for _, tc := range cases {
		free, err := f.checker.IsAvailable(ctx, f.query(tc.clock, tc.duration))
		require.NoError(t, err)
		assert.Equal(t, tc.free, free, "%s +%d", tc.clock, tc.duration)
	}

	conflicts, err := f.checker.Conflicts(ctx, f.query("10:15", 30))
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.Conflict{VisitID: booked.ID, Start: "10:00", End: "10:30"}, conflicts[0])
}

func TestAvailability_ExcludeVisit(t *testing.T) {
	f := newFixture(t)
	booked := f.book(t, "10:00", 30)

	q := f.query("10:00", 30)
	q.ExcludeVisitID = &booked.ID

	free, err := f.checker.IsAvailable(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestAvailability_IgnoresClosedVisits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cancelled := f.book(t, "10:00", 30)
	_, err := f.cancel.Execute(ctx, cancelled.ID, "", f.staff)
	require.NoError(t, err)

	noShow := f.book(t, "11:00", 30)
	f.store.SetVisitStatus(noShow.ID, domain.StatusNoShow)

	for _, clock := range []string{"10:00", "11:00"} {
		free, err := f.checker.IsAvailable(ctx, f.query(clock, 30))
		require.NoError(t, err)
		assert.True(t, free, clock)
	}
}

func TestAvailability_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, "10:00", 30)

	q := f.query("10:10", 10)
	first, err := f.checker.Conflicts(ctx, q)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := f.checker.Conflicts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	agenda, err := f.list.Execute(ctx, listInput(f))
	require.NoError(t, err)
	assert.Len(t, agenda, 1)
}

func TestAvailability_InvalidQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, q := range []domain.AvailabilityQuery{
		f.query("10:00", 0),
		f.query("10:00", -5),
		f.query("1000", 30),
		{PractitionerID: f.practitioner, ClinicID: f.clinic.ID, Date: "2024/03/01", Time: "10:00", DurationMinutes: 30},
	} {
		_, err := f.checker.IsAvailable(ctx, q)
		assert.True(t, httperr.IsValidation(err), "%+v", q)
	}
}

func TestListVisitsByDate_OrderedAndIncludesCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	late := f.book(t, "15:00", 30)
	early := f.book(t, "08:00", 30)
	mid := f.book(t, "11:00", 30)
	_, err := f.cancel.Execute(ctx, mid.ID, "", f.staff)
	require.NoError(t, err)

	agenda, err := f.list.Execute(ctx, listInput(f))
	require.NoError(t, err)
	require.Len(t, agenda, 3)

	assert.Equal(t, early.ID, agenda[0].ID)
	assert.Equal(t, mid.ID, agenda[1].ID)
	assert.Equal(t, string(domain.StatusCancelled), agenda[1].Status)
	assert.Equal(t, late.ID, agenda[2].ID)
}

func TestListVisitsByDate_Validation(t *testing.T) {
	f := newFixture(t)
	in := listInput(f)
	in.Date = "March 1"

	_, err := f.list.Execute(context.Background(), in)
	assert.True(t, httperr.IsValidation(err))
}
