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

type CompleteVisit struct {
	lifecycle
	audit *audit.Dispatcher
}

func NewCompleteVisit(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *CompleteVisit {
	return &CompleteVisit{
		lifecycle: newLifecycle(repo, nil, clock),
		audit:     audit,
	}
}

func (uc *CompleteVisit) Execute(
	ctx context.Context,
	visitID uuid.UUID,
	actor *uuid.UUID,
) (*models.Visit, error) {

	v, err := uc.transition(ctx, visitID,
		domain.VisitWrite{From: domain.CompleteFrom, Columns: domain.CompleteColumns},
		func(v *models.Visit, now time.Time) error {
			return domain.Complete(v, now)
		},
	)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: v.ClinicID,
		UserID:   actor,
		Action:   "visit_completed",
		Entity:   "visit",
		EntityID: &v.ID,
	})

	log.Info().Str("visit_id", v.ID.String()).Msg("visit completed")

	return v, nil
}
