package visit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/locker"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memstore"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	visituc "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/visit"
)

const day = "2024-03-01"

var fixedNow = time.Date(2024, 3, 1, 9, 55, 0, 0, time.UTC)

type fixture struct {
	store        *memstore.Store
	clinic       models.Clinic
	patient      models.Patient
	practitioner uuid.UUID
	staff        uuid.UUID

	create     *visituc.CreateVisit
	checkIn    *visituc.CheckInVisit
	start      *visituc.StartVisit
	complete   *visituc.CompleteVisit
	cancel     *visituc.CancelVisit
	reschedule *visituc.RescheduleVisit
	update     *visituc.UpdateVisit
	get        *visituc.GetVisit
	list       *visituc.ListVisitsByDate
	checker    *visituc.AvailabilityChecker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithLocker(t, locker.NewMemoryLocker(2*time.Second))
}

func newFixtureWithLocker(t *testing.T, l domain.Locker) *fixture {
	t.Helper()

	store := memstore.New()
	clinic := store.AddClinic(models.Clinic{Name: "Downtown Physio", Timezone: "America/Sao_Paulo"})
	patient := store.AddPatient(models.Patient{ClinicID: clinic.ID, Name: "Ana"})

	clock := func() time.Time { return fixedNow }

	return &fixture{
		store:        store,
		clinic:       clinic,
		patient:      patient,
		practitioner: uuid.New(),
		staff:        uuid.New(),

		create:     visituc.NewCreateVisit(store, l, nil, clock),
		checkIn:    visituc.NewCheckInVisit(store, nil, clock),
		start:      visituc.NewStartVisit(store, nil, clock),
		complete:   visituc.NewCompleteVisit(store, nil, clock),
		cancel:     visituc.NewCancelVisit(store, nil, clock),
		reschedule: visituc.NewRescheduleVisit(store, l, nil, clock),
		update:     visituc.NewUpdateVisit(store, l, nil, clock),
		get:        visituc.NewGetVisit(store),
		list:       visituc.NewListVisitsByDate(store),
		checker:    visituc.NewAvailabilityChecker(store),
	}
}

func (f *fixture) input(clock string, duration int) visituc.CreateVisitInput {
	return visituc.CreateVisitInput{
		PatientID:       f.patient.ID,
		ClinicID:        f.clinic.ID,
		PractitionerID:  f.practitioner,
		VisitType:       "FOLLOW_UP",
		Date:            day,
		Time:            clock,
		DurationMinutes: duration,
	}
}

func (f *fixture) book(t *testing.T, clock string, duration int) *models.Visit {
	t.Helper()
	v, err := f.create.Execute(context.Background(), f.input(clock, duration))
	require.NoError(t, err)
	return v
}

func (f *fixture) query(clock string, duration int) domain.AvailabilityQuery {
	return domain.AvailabilityQuery{
		PractitionerID:  f.practitioner,
		ClinicID:        f.clinic.ID,
		Date:            day,
		Time:            clock,
		DurationMinutes: duration,
	}
}

type createInput = visituc.CreateVisitInput

func listInput(f *fixture) visituc.ListVisitsByDateInput {
	return visituc.ListVisitsByDateInput{
		PractitionerID: f.practitioner,
		ClinicID:       f.clinic.ID,
		Date:           day,
	}
}

// racingRepo runs before just ahead of the first guarded write.
type racingRepo struct {
	*memstore.Store
	before func()
	once   sync.Once
}

func (r *racingRepo) UpdateVisitIf(
	ctx context.Context,
	v *models.Visit,
	w domain.VisitWrite,
) (bool, error) {
	r.once.Do(r.before)
	return r.Store.UpdateVisitIf(ctx, v, w)
}

func newCheckIn(repo domain.Repository) *visituc.CheckInVisit {
	return visituc.NewCheckInVisit(repo, nil, func() time.Time { return fixedNow })
}
