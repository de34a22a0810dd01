package visit

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type GetVisit struct {
	repo domain.Repository
}

func NewGetVisit(repo domain.Repository) *GetVisit {
	return &GetVisit{repo: repo}
}

func (uc *GetVisit) Execute(ctx context.Context, id uuid.UUID) (*models.Visit, error) {
	return uc.repo.GetVisit(ctx, id)
}
