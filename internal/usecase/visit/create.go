package visit

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateVisitInput struct {
	PatientID      uuid.UUID
	ClinicID       uuid.UUID
	PractitionerID uuid.UUID
	ParentVisitID  *uuid.UUID

	VisitType       string
	Date            string
	Time            string
	DurationMinutes int
	ChiefComplaint  string

	// CreatedBy is the authenticated user, recorded in the audit trail.
	CreatedBy *uuid.UUID
}

// ======================================================
// USE CASE
// ======================================================

type CreateVisit struct {
	lifecycle
	checker *AvailabilityChecker
	audit   *audit.Dispatcher
}

func NewCreateVisit(
	repo domain.Repository,
	locker domain.Locker,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *CreateVisit {
	return &CreateVisit{
		lifecycle: newLifecycle(repo, locker, clock),
		checker:   NewAvailabilityChecker(repo),
		audit:     audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateVisit) Execute(
	ctx context.Context,
	in CreateVisitInput,
) (*models.Visit, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if in.PatientID == uuid.Nil || in.ClinicID == uuid.Nil || in.PractitionerID == uuid.Nil {
		return nil, httperr.ValidationErr("missing_reference", "patient_id, clinic_id and practitioner_id are required")
	}

	visitType, err := domain.ParseType(in.VisitType)
	if err != nil {
		return nil, err
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultDurationMinutes
	}

	slot, err := domain.NewSlot(in.Date, in.Time, duration)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Patient and follow-up chain
	// --------------------------------------------------
	if _, err := uc.repo.GetPatient(ctx, in.PatientID); err != nil {
		return nil, err
	}

	if in.ParentVisitID != nil {
		parent, err := uc.repo.GetVisit(ctx, *in.ParentVisitID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return nil, httperr.ValidationErr("invalid_parent_visit", "parent visit does not exist")
			}
			return nil, err
		}
		if parent.PatientID != in.PatientID {
			return nil, httperr.ValidationErr("invalid_parent_visit", "parent visit belongs to another patient")
		}
	}

	v := &models.Visit{
		ID:             uuid.New(),
		PatientID:      in.PatientID,
		ClinicID:       in.ClinicID,
		PractitionerID: in.PractitionerID,
		ParentVisitID:  in.ParentVisitID,
		Status:         string(domain.InitialStatus()),
		VisitType:      string(visitType),
		ChiefComplaint: strings.TrimSpace(in.ChiefComplaint),
	}
	domain.ApplySlot(v, in.Date, in.Time, duration, slot)

	// --------------------------------------------------
	// 3. Availability + write under the day lock
	// --------------------------------------------------
	err = uc.withDayLock(ctx, in.PractitionerID, in.Date, func() error {
		conflicts, err := uc.checker.Conflicts(ctx, domain.AvailabilityQuery{
			PractitionerID:  in.PractitionerID,
			ClinicID:        in.ClinicID,
			Date:            in.Date,
			Time:            in.Time,
			DurationMinutes: duration,
		})
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.ErrTimeConflict
		}

		return uc.repo.CreateVisit(ctx, v)
	})
	if err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			uc.audit.Dispatch(audit.Event{
				ClinicID: in.ClinicID,
				UserID:   in.CreatedBy,
				Action:   "visit_conflict",
				Entity:   "visit",
				Metadata: map[string]any{
					"practitioner_id": in.PractitionerID,
					"date":            in.Date,
					"time":            in.Time,
					"duration":        duration,
				},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ClinicID: v.ClinicID,
		UserID:   in.CreatedBy,
		Action:   "visit_created",
		Entity:   "visit",
		EntityID: &v.ID,
	})

	log.Info().
		Str("visit_id", v.ID.String()).
		Str("practitioner_id", v.PractitionerID.String()).
		Str("date", v.ScheduledDate).
		Str("time", v.ScheduledTime).
		Msg("visit scheduled")

	return v, nil
}
