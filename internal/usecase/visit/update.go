package visit

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// UpdateVisitInput is a partial patch. Nil fields are left untouched.
type UpdateVisitInput struct {
	VisitID uuid.UUID

	VisitType       *string
	ChiefComplaint  *string
	Date            *string
	Time            *string
	DurationMinutes *int
	VitalSigns      map[string]any

	Actor *uuid.UUID
}

func (in UpdateVisitInput) movesSlot() bool {
	return in.Date != nil || in.Time != nil || in.DurationMinutes != nil
}

type UpdateVisit struct {
	lifecycle
	checker *AvailabilityChecker
	audit   *audit.Dispatcher
}

func NewUpdateVisit(
	repo domain.Repository,
	locker domain.Locker,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *UpdateVisit {
	return &UpdateVisit{
		lifecycle: newLifecycle(repo, locker, clock),
		checker:   NewAvailabilityChecker(repo),
		audit:     audit,
	}
}

func (uc *UpdateVisit) Execute(
	ctx context.Context,
	in UpdateVisitInput,
) (*models.Visit, error) {

	v, err := uc.repo.GetVisit(ctx, in.VisitID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanUpdate(domain.Status(v.Status)); err != nil {
		return nil, err
	}

	var (
		columns []string
		changed []string
	)

	if in.VisitType != nil {
		t, err := domain.ParseType(*in.VisitType)
		if err != nil {
			return nil, err
		}
		v.VisitType = string(t)
		columns = append(columns, "visit_type")
		changed = append(changed, "visit_type")
	}

	if in.ChiefComplaint != nil {
		v.ChiefComplaint = strings.TrimSpace(*in.ChiefComplaint)
		columns = append(columns, "chief_complaint")
		changed = append(changed, "chief_complaint")
	}

	if len(in.VitalSigns) > 0 {
		if _, err := domain.MergeVitalSigns(nil, in.VitalSigns); err != nil {
			return nil, err
		}
		changed = append(changed, "vital_signs")
	}

	if in.movesSlot() {
		date, clock, duration := v.ScheduledDate, v.ScheduledTime, v.DurationMinutes
		if in.Date != nil {
			date = *in.Date
		}
		if in.Time != nil {
			clock = *in.Time
		}
		if in.DurationMinutes != nil {
			duration = *in.DurationMinutes
		}

		slot, err := domain.NewSlot(date, clock, duration)
		if err != nil {
			return nil, err
		}
		domain.ApplySlot(v, date, clock, duration, slot)

		columns = append(columns, domain.RescheduleColumns...)
		changed = append(changed, "scheduled_date", "scheduled_time", "duration_minutes")
	}

	if len(changed) == 0 {
		return v, nil
	}

	w := domain.VisitWrite{From: domain.UpdateFrom, Columns: columns, Vitals: in.VitalSigns}
	if in.movesSlot() {
		err = uc.withDayLock(ctx, v.PractitionerID, v.ScheduledDate, func() error {
			return checkAndWrite(ctx, uc.lifecycle, uc.checker, v, w, domain.CanUpdate)
		})
	} else {
		ok, werr := uc.write(ctx, v, w)
		err = werr
		if werr == nil && !ok {
			err = uc.explainLostWrite(ctx, v.ID, func(fresh *models.Visit) error {
				return domain.CanUpdate(domain.Status(fresh.Status))
			})
		}
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: v.ClinicID,
		UserID:   in.Actor,
		Action:   "visit_updated",
		Entity:   "visit",
		EntityID: &v.ID,
		Metadata: map[string]any{"fields": changed},
	})

	log.Info().
		Str("visit_id", v.ID.String()).
		Strs("fields", changed).
		Msg("visit updated")

	return v, nil
}
