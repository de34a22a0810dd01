package visit

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ErrConcurrentUpdate is returned when a conditional write lost a race and
// the fresh state would still have allowed the operation.
var ErrConcurrentUpdate = httperr.InvalidStateErr(
	"concurrent_update",
	"visit was changed by another request, reload and try again",
)

// lifecycle bundles what every state-changing use case needs.
type lifecycle struct {
	repo   domain.Repository
	locker domain.Locker
	clock  domain.Clock
}

func newLifecycle(repo domain.Repository, locker domain.Locker, clock domain.Clock) lifecycle {
	if clock == nil {
		clock = time.Now
	}
	return lifecycle{repo: repo, locker: locker, clock: clock}
}

// now returns the current instant in the clinic's zone.
func (l lifecycle) now(ctx context.Context, clinicID uuid.UUID) (time.Time, error) {
	clinic, err := l.repo.GetClinic(ctx, clinicID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return timezone.In(l.clock(), ""), nil
		}
		return time.Time{}, err
	}
	return timezone.In(l.clock(), clinic.Timezone), nil
}

// transition loads a visit, applies act and writes it back through w.
func (l lifecycle) transition(
	ctx context.Context,
	visitID uuid.UUID,
	w domain.VisitWrite,
	act func(v *models.Visit, now time.Time) error,
) (*models.Visit, error) {

	v, err := l.repo.GetVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}

	now, err := l.now(ctx, v.ClinicID)
	if err != nil {
		return nil, err
	}

	if err := act(v, now); err != nil {
		return nil, err
	}

	ok, err := l.write(ctx, v, w)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, l.explainLostWrite(ctx, visitID, func(fresh *models.Visit) error {
			return act(fresh, now)
		})
	}

	return v, nil
}

// write applies w to v. When vitals were merged by storage, v picks up
// the stored map so callers see readings from concurrent writers too.
func (l lifecycle) write(ctx context.Context, v *models.Visit, w domain.VisitWrite) (bool, error) {
	ok, err := l.repo.UpdateVisitIf(ctx, v, w)
	if err != nil || !ok || len(w.Vitals) == 0 {
		return ok, err
	}

	stored, err := l.repo.GetVisit(ctx, v.ID)
	if err != nil {
		return false, err
	}
	v.VitalSigns = stored.VitalSigns
	v.UpdatedAt = stored.UpdatedAt
	return true, nil
}

// explainLostWrite re-reads a visit after a guarded write matched no row
// and reports the error the fresh state produces.
func (l lifecycle) explainLostWrite(
	ctx context.Context,
	visitID uuid.UUID,
	guard func(fresh *models.Visit) error,
) error {

	fresh, err := l.repo.GetVisit(ctx, visitID)
	if err != nil {
		return err
	}
	if err := guard(fresh); err != nil {
		return err
	}
	return ErrConcurrentUpdate
}

// withDayLock runs fn while holding the practitioner/day booking lock.
func (l lifecycle) withDayLock(
	ctx context.Context,
	practitionerID uuid.UUID,
	date string,
	fn func() error,
) error {

	if l.locker == nil {
		return fn()
	}

	release, err := l.locker.Lock(ctx, domain.LockKey(practitionerID, date))
	if err != nil {
		return err
	}
	defer release()

	return fn()
}
