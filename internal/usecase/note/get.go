package note

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/note"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type GetNote struct {
	repo domain.Repository
}

func NewGetNote(repo domain.Repository) *GetNote {
	return &GetNote{repo: repo}
}

func (uc *GetNote) Execute(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	return uc.repo.GetNote(ctx, id)
}

type GetNoteByVisit struct {
	repo domain.Repository
}

func NewGetNoteByVisit(repo domain.Repository) *GetNoteByVisit {
	return &GetNoteByVisit{repo: repo}
}

// Execute reports visit_not_found for an unknown visit and note_not_found
// for a visit that has no note yet.
func (uc *GetNoteByVisit) Execute(ctx context.Context, visitID uuid.UUID) (*models.Note, error) {
	if _, err := uc.repo.GetVisit(ctx, visitID); err != nil {
		return nil, err
	}
	return uc.repo.GetNoteByVisit(ctx, visitID)
}
