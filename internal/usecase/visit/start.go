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

type StartVisit struct {
	lifecycle
	audit *audit.Dispatcher
}

func NewStartVisit(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *StartVisit {
	return &StartVisit{
		lifecycle: newLifecycle(repo, nil, clock),
		audit:     audit,
	}
}

func (uc *StartVisit) Execute(
	ctx context.Context,
	visitID uuid.UUID,
	vitals map[string]any,
	actor *uuid.UUID,
) (*models.Visit, error) {

	v, err := uc.transition(ctx, visitID,
		domain.VisitWrite{From: domain.StartFrom, Columns: domain.StartColumns, Vitals: vitals},
		func(v *models.Visit, now time.Time) error {
			return domain.Start(v, vitals, now)
		},
	)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: v.ClinicID,
		UserID:   actor,
		Action:   "visit_started",
		Entity:   "visit",
		EntityID: &v.ID,
	})

	log.Info().Str("visit_id", v.ID.String()).Msg("visit started")

	return v, nil
}
