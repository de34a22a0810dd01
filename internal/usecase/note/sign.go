package note

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/note"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type SignNote struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewSignNote(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock func() time.Time,
) *SignNote {
	return &SignNote{
		repo:  repo,
		audit: audit,
		now:   defaultClock(clock),
	}
}

func (uc *SignNote) Execute(
	ctx context.Context,
	noteID uuid.UUID,
	signedBy uuid.UUID,
) (*models.Note, error) {

	if signedBy == uuid.Nil {
		return nil, httperr.ValidationErr("missing_actor", "signed_by is required")
	}

	n, err := uc.repo.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if err := domain.Sign(n, signedBy, uc.now().UTC()); err != nil {
		return nil, err
	}

	ok, err := uc.repo.UpdateNoteIfUnsigned(ctx, n)
	if err != nil {
		return nil, err
	}
	if !ok {
		fresh, err := uc.repo.GetNote(ctx, noteID)
		if err != nil {
			return nil, err
		}
		return nil, domain.CanSign(fresh)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicOf(ctx, uc.repo, n),
		UserID:   &signedBy,
		Action:   "note_signed",
		Entity:   "note",
		EntityID: &n.ID,
		Metadata: map[string]any{"signature_hash": n.SignatureHash},
	})

	log.Info().
		Str("note_id", n.ID.String()).
		Str("signed_by", signedBy.String()).
		Msg("note signed")

	return n, nil
}
