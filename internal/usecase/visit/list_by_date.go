package visit

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ListVisitsByDateInput struct {
	PractitionerID uuid.UUID
	ClinicID       uuid.UUID
	Date           string
}

// ListVisitsByDate returns a practitioner's agenda for one day at one
// clinic, ordered by start time. Cancelled and no-show visits are included.
type ListVisitsByDate struct {
	repo domain.Repository
}

func NewListVisitsByDate(repo domain.Repository) *ListVisitsByDate {
	return &ListVisitsByDate{repo: repo}
}

func (uc *ListVisitsByDate) Execute(
	ctx context.Context,
	in ListVisitsByDateInput,
) ([]models.Visit, error) {

	if in.PractitionerID == uuid.Nil || in.ClinicID == uuid.Nil {
		return nil, httperr.ValidationErr("missing_reference", "practitioner_id and clinic_id are required")
	}
	if _, err := domain.ParseDate(in.Date); err != nil {
		return nil, err
	}

	return uc.repo.ListVisitsForDay(ctx, in.PractitionerID, in.ClinicID, in.Date)
}
