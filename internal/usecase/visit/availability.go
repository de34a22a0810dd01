package visit

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
)

// AvailabilityChecker answers whether a practitioner is free for a slot.
// It only reads; callers that book must hold the day lock around the check
// and the write.
type AvailabilityChecker struct {
	repo domain.Repository
}

func NewAvailabilityChecker(repo domain.Repository) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

func (uc *AvailabilityChecker) IsAvailable(
	ctx context.Context,
	q domain.AvailabilityQuery,
) (bool, error) {

	conflicts, err := uc.Conflicts(ctx, q)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// Conflicts lists the visits overlapping the candidate slot.
func (uc *AvailabilityChecker) Conflicts(
	ctx context.Context,
	q domain.AvailabilityQuery,
) ([]domain.Conflict, error) {

	candidate, err := domain.NewSlot(q.Date, q.Time, q.DurationMinutes)
	if err != nil {
		return nil, err
	}

	visits, err := uc.repo.ListBlockingVisitsForDay(
		ctx,
		q.PractitionerID,
		q.ClinicID,
		q.Date,
		q.ExcludeVisitID,
	)
	if err != nil {
		return nil, err
	}

	var conflicts []domain.Conflict
	for i := range visits {
		v := &visits[i]

		if !domain.Status(v.Status).BlocksSlot() {
			continue
		}
		if q.ExcludeVisitID != nil && v.ID == *q.ExcludeVisitID {
			continue
		}

		existing, err := domain.SlotOf(v)
		if err != nil {
			return nil, fmt.Errorf("visit %s has an invalid slot: %w", v.ID, err)
		}

		if candidate.Overlaps(existing) {
			conflicts = append(conflicts, domain.Conflict{
				VisitID: v.ID,
				Start:   existing.Start.Format(domain.TimeLayout),
				End:     existing.End.Format(domain.TimeLayout),
			})
		}
	}

	return conflicts, nil
}
