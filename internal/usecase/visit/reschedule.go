package visit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type RescheduleVisitInput struct {
	VisitID uuid.UUID
	Date    string
	Time    string

	// DurationMinutes keeps the current duration when zero.
	DurationMinutes int

	Actor *uuid.UUID
}

type RescheduleVisit struct {
	lifecycle
	checker *AvailabilityChecker
	audit   *audit.Dispatcher
}

func NewRescheduleVisit(
	repo domain.Repository,
	locker domain.Locker,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *RescheduleVisit {
	return &RescheduleVisit{
		lifecycle: newLifecycle(repo, locker, clock),
		checker:   NewAvailabilityChecker(repo),
		audit:     audit,
	}
}

func (uc *RescheduleVisit) Execute(
	ctx context.Context,
	in RescheduleVisitInput,
) (*models.Visit, error) {

	v, err := uc.repo.GetVisit(ctx, in.VisitID)
	if err != nil {
		return nil, err
	}

	previous := map[string]any{
		"date":     v.ScheduledDate,
		"time":     v.ScheduledTime,
		"duration": v.DurationMinutes,
	}

	if _, err := domain.Reschedule(v, in.Date, in.Time, in.DurationMinutes); err != nil {
		return nil, err
	}

	err = uc.withDayLock(ctx, v.PractitionerID, v.ScheduledDate, func() error {
		return checkAndWrite(ctx, uc.lifecycle, uc.checker, v,
			domain.VisitWrite{From: domain.RescheduleFrom, Columns: domain.RescheduleColumns},
			domain.CanReschedule)
	})
	if err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			uc.audit.Dispatch(audit.Event{
				ClinicID: v.ClinicID,
				UserID:   in.Actor,
				Action:   "visit_conflict",
				Entity:   "visit",
				EntityID: &v.ID,
				Metadata: map[string]any{"date": in.Date, "time": in.Time},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: v.ClinicID,
		UserID:   in.Actor,
		Action:   "visit_rescheduled",
		Entity:   "visit",
		EntityID: &v.ID,
		Metadata: map[string]any{
			"from": previous,
			"to": map[string]any{
				"date":     v.ScheduledDate,
				"time":     v.ScheduledTime,
				"duration": v.DurationMinutes,
			},
		},
	})

	log.Info().
		Str("visit_id", v.ID.String()).
		Str("date", v.ScheduledDate).
		Str("time", v.ScheduledTime).
		Msg("visit rescheduled")

	return v, nil
}

// checkAndWrite re-runs availability for v's slot, excluding v itself,
// then applies the guarded update. The caller holds the day lock.
func checkAndWrite(
	ctx context.Context,
	l lifecycle,
	checker *AvailabilityChecker,
	v *models.Visit,
	w domain.VisitWrite,
	guard func(domain.Status) error,
) error {

	self := v.ID
	free, err := checker.IsAvailable(ctx, domain.AvailabilityQuery{
		PractitionerID:  v.PractitionerID,
		ClinicID:        v.ClinicID,
		Date:            v.ScheduledDate,
		Time:            v.ScheduledTime,
		DurationMinutes: v.DurationMinutes,
		ExcludeVisitID:  &self,
	})
	if err != nil {
		return err
	}
	if !free {
		return domain.ErrTimeConflict
	}

	ok, err := l.write(ctx, v, w)
	if err != nil {
		return err
	}
	if !ok {
		return l.explainLostWrite(ctx, v.ID, func(fresh *models.Visit) error {
			return guard(domain.Status(fresh.Status))
		})
	}
	return nil
}
