package visit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type CancelVisit struct {
	lifecycle
	audit *audit.Dispatcher
}

func NewCancelVisit(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *CancelVisit {
	return &CancelVisit{
		lifecycle: newLifecycle(repo, nil, clock),
		audit:     audit,
	}
}

func (uc *CancelVisit) Execute(
	ctx context.Context,
	visitID uuid.UUID,
	reason string,
	cancelledBy uuid.UUID,
) (*models.Visit, error) {

	if cancelledBy == uuid.Nil {
		return nil, httperr.ValidationErr("missing_actor", "cancelled_by is required")
	}
	reason = strings.TrimSpace(reason)

	v, err := uc.transition(ctx, visitID,
		domain.VisitWrite{From: domain.CancelFrom, Columns: domain.CancelColumns},
		func(v *models.Visit, now time.Time) error {
			return domain.Cancel(v, reason, cancelledBy, now)
		},
	)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: v.ClinicID,
		UserID:   &cancelledBy,
		Action:   "visit_cancelled",
		Entity:   "visit",
		EntityID: &v.ID,
		Metadata: map[string]any{"reason": reason},
	})

	log.Info().
		Str("visit_id", v.ID.String()).
		Str("cancelled_by", cancelledBy.String()).
		Msg("visit cancelled")

	return v, nil
}
