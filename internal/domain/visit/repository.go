package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var (
	ErrVisitNotFound   = httperr.NotFoundErr("visit_not_found", "visit not found")
	ErrPatientNotFound = httperr.NotFoundErr("patient_not_found", "patient not found")
	ErrClinicNotFound  = httperr.NotFoundErr("clinic_not_found", "clinic not found")
	ErrTimeConflict    = httperr.ConflictErr("time_conflict", "practitioner already has a visit in this slot")
	ErrScheduleBusy    = httperr.ConflictErr("schedule_busy", "another booking for this practitioner and day is in progress")
)

type Repository interface {
	// -------- Collaborators --------
	GetClinic(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Clinic, error)

	GetPatient(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Patient, error)

	// -------- Visit (create / conflict) --------

	// CreateVisit persists v. An overlap rejected by storage is reported
	// as ErrTimeConflict.
	CreateVisit(
		ctx context.Context,
		v *models.Visit,
	) error

	// ListBlockingVisitsForDay returns the visits of a practitioner at a
	// clinic on date that still occupy their slot.
	ListBlockingVisitsForDay(
		ctx context.Context,
		practitionerID uuid.UUID,
		clinicID uuid.UUID,
		date string,
		excludeVisitID *uuid.UUID,
	) ([]models.Visit, error)

	// -------- Visit (state change) --------
	GetVisit(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Visit, error)

	// UpdateVisitIf applies w to the stored copy of v in one statement.
	// It returns false when the guard in w did not match. An overlap
	// rejected by storage is ErrTimeConflict.
	UpdateVisitIf(
		ctx context.Context,
		v *models.Visit,
		w VisitWrite,
	) (bool, error)

	// -------- Agenda --------
	ListVisitsForDay(
		ctx context.Context,
		practitionerID uuid.UUID,
		clinicID uuid.UUID,
		date string,
	) ([]models.Visit, error)
}

// VisitWrite is a conditional partial update of one visit.
type VisitWrite struct {
	// From lists the statuses the stored visit may be in.
	From []Status
	// NotCheckedIn also requires check_in_time to still be unset.
	NotCheckedIn bool
	// Columns are copied from the visit being written.
	Columns []string
	// Vitals are merged key by key into the stored vital_signs, never
	// replacing readings written by other requests.
	Vitals map[string]any
}

// Columns written by each operation. updated_at is added by the
// repositories; vital_signs goes through VisitWrite.Vitals.
var (
	CheckInColumns    = []string{"check_in_time"}
	StartColumns      = []string{"status", "start_time"}
	CompleteColumns   = []string{"status", "end_time"}
	CancelColumns     = []string{"status", "cancellation_reason", "cancelled_by", "cancelled_at"}
	RescheduleColumns = []string{"scheduled_date", "scheduled_time", "duration_minutes", "starts_at", "ends_at"}
)

// Locker serialises check-then-write sequences on a practitioner's day.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// LockKey is the lock scope for bookings: one practitioner on one day.
func LockKey(practitionerID uuid.UUID, date string) string {
	return fmt.Sprintf("visit-lock:%s:%s", practitionerID, date)
}

// Clock returns the current instant; tests replace it.
type Clock func() time.Time
