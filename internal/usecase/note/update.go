package note

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/note"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type UpdateNote struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateNote(repo domain.Repository, audit *audit.Dispatcher) *UpdateNote {
	return &UpdateNote{repo: repo, audit: audit}
}

func (uc *UpdateNote) Execute(
	ctx context.Context,
	noteID uuid.UUID,
	patch domain.Patch,
	actor *uuid.UUID,
) (*models.Note, error) {

	n, err := uc.repo.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if err := domain.Apply(n, patch); err != nil {
		return nil, err
	}

	ok, err := uc.repo.UpdateNoteIfUnsigned(ctx, n)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Signed between our read and write.
		fresh, err := uc.repo.GetNote(ctx, noteID)
		if err != nil {
			return nil, err
		}
		return nil, domain.CanUpdate(fresh)
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicOf(ctx, uc.repo, n),
		UserID:   actor,
		Action:   "note_updated",
		Entity:   "note",
		EntityID: &n.ID,
	})

	log.Info().Str("note_id", n.ID.String()).Msg("note updated")

	return n, nil
}
