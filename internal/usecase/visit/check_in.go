package visit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type CheckInVisit struct {
	lifecycle
	audit *audit.Dispatcher
}

func NewCheckInVisit(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *CheckInVisit {
	return &CheckInVisit{
		lifecycle: newLifecycle(repo, nil, clock),
		audit:     audit,
	}
}

func (uc *CheckInVisit) Execute(
	ctx context.Context,
	visitID uuid.UUID,
	vitals map[string]any,
	actor *uuid.UUID,
) (*models.Visit, error) {

	v, err := uc.transition(ctx, visitID,
		domain.VisitWrite{
			From:         domain.CheckInFrom,
			NotCheckedIn: true,
			Columns:      domain.CheckInColumns,
			Vitals:       vitals,
		},
		func(v *models.Visit, now time.Time) error {
			return domain.CheckIn(v, vitals, now)
		},
	)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: v.ClinicID,
		UserID:   actor,
		Action:   "visit_checked_in",
		Entity:   "visit",
		EntityID: &v.ID,
	})

	log.Info().Str("visit_id", v.ID.String()).Msg("visit checked in")

	return v, nil
}
