// Package memstore keeps visits and notes in process memory. It enforces
// the same overlap and one-note-per-visit rules as the Postgres schema and
// backs STORAGE=memory as well as the use-case tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	notedomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/note"
	visitdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Store struct {
	mu sync.RWMutex

	clinics     map[uuid.UUID]models.Clinic
	patients    map[uuid.UUID]models.Patient
	assignments map[uuid.UUID]models.PractitionerAssignment
	visits      map[uuid.UUID]models.Visit
	notes       map[uuid.UUID]models.Note

	now func() time.Time
}

func New() *Store {
	return &Store{
		clinics:     make(map[uuid.UUID]models.Clinic),
		patients:    make(map[uuid.UUID]models.Patient),
		assignments: make(map[uuid.UUID]models.PractitionerAssignment),
		visits:      make(map[uuid.UUID]models.Visit),
		notes:       make(map[uuid.UUID]models.Note),
		now:         time.Now,
	}
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (s *Store) AddClinic(c models.Clinic) models.Clinic {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.clinics[c.ID] = c
	return c
}

func (s *Store) AddPatient(p models.Patient) models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.patients[p.ID] = p
	return p
}

func (s *Store) AddAssignment(a models.PractitionerAssignment) models.PractitionerAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.assignments[a.ID] = a
	return a
}

// SetVisitStatus overwrites a status the way an external job would, e.g.
// marking NO_SHOW. Unknown statuses are refused.
func (s *Store) SetVisitStatus(id uuid.UUID, status visitdomain.Status) bool {
	if !status.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[id]
	if !ok {
		return false
	}
	v.Status = string(status)
	s.visits[id] = v
	return true
}

// --------------------------------------------------
// Visit repository
// --------------------------------------------------

func (s *Store) GetClinic(_ context.Context, id uuid.UUID) (*models.Clinic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clinics[id]
	if !ok {
		return nil, visitdomain.ErrClinicNotFound
	}
	return &c, nil
}

func (s *Store) GetPatient(_ context.Context, id uuid.UUID) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, visitdomain.ErrPatientNotFound
	}
	return &p, nil
}

func (s *Store) CreateVisit(_ context.Context, v *models.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if s.overlapsLocked(v) {
		return visitdomain.ErrTimeConflict
	}

	now := s.now()
	v.CreatedAt = now
	v.UpdatedAt = now
	s.visits[v.ID] = copyVisit(*v)
	return nil
}

func (s *Store) ListBlockingVisitsForDay(
	_ context.Context,
	practitionerID uuid.UUID,
	clinicID uuid.UUID,
	date string,
	excludeVisitID *uuid.UUID,
) ([]models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Visit
	for _, v := range s.visits {
		if v.PractitionerID != practitionerID || v.ClinicID != clinicID || v.ScheduledDate != date {
			continue
		}
		if !visitdomain.Status(v.Status).BlocksSlot() {
			continue
		}
		if excludeVisitID != nil && v.ID == *excludeVisitID {
			continue
		}
		out = append(out, copyVisit(v))
	}
	sortByStart(out)
	return out, nil
}

func (s *Store) GetVisit(_ context.Context, id uuid.UUID) (*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.visits[id]
	if !ok {
		return nil, visitdomain.ErrVisitNotFound
	}
	out := copyVisit(v)
	return &out, nil
}

func (s *Store) UpdateVisitIf(
	_ context.Context,
	v *models.Visit,
	w visitdomain.VisitWrite,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.visits[v.ID]
	if !ok || !statusIn(stored.Status, w.From) {
		return false, nil
	}
	if w.NotCheckedIn && stored.CheckInTime != nil {
		return false, nil
	}

	next := copyVisit(stored)
	for _, col := range w.Columns {
		if !assignColumn(&next, v, col) {
			return false, fmt.Errorf("memstore: unknown visit column %q", col)
		}
	}
	if len(w.Vitals) > 0 {
		if next.VitalSigns == nil {
			next.VitalSigns = make(datatypes.JSONMap, len(w.Vitals))
		}
		for k, val := range w.Vitals {
			next.VitalSigns[k] = val
		}
	}
	if s.overlapsLocked(&next) {
		return false, visitdomain.ErrTimeConflict
	}

	next.UpdatedAt = s.now()
	v.UpdatedAt = next.UpdatedAt
	s.visits[v.ID] = copyVisit(next)
	return true, nil
}

func (s *Store) ListVisitsForDay(
	_ context.Context,
	practitionerID uuid.UUID,
	clinicID uuid.UUID,
	date string,
) ([]models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Visit
	for _, v := range s.visits {
		if v.PractitionerID == practitionerID && v.ClinicID == clinicID && v.ScheduledDate == date {
			out = append(out, copyVisit(v))
		}
	}
	sortByStart(out)
	return out, nil
}

// overlapsLocked mirrors the storage exclusion constraint.
func (s *Store) overlapsLocked(v *models.Visit) bool {
	if !visitdomain.Status(v.Status).BlocksSlot() {
		return false
	}
	for id, other := range s.visits {
		if id == v.ID {
			continue
		}
		if other.PractitionerID != v.PractitionerID || other.ClinicID != v.ClinicID {
			continue
		}
		if !visitdomain.Status(other.Status).BlocksSlot() {
			continue
		}
		if visitdomain.Overlaps(v.StartsAt, v.EndsAt, other.StartsAt, other.EndsAt) {
			return true
		}
	}
	return false
}

// --------------------------------------------------
// Note repository
// --------------------------------------------------

func (s *Store) CreateNote(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.notes {
		if existing.VisitID == n.VisitID {
			return notedomain.ErrNoteAlreadyExists
		}
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	now := s.now()
	n.CreatedAt = now
	n.UpdatedAt = now
	s.notes[n.ID] = copyNote(*n)
	return nil
}

func (s *Store) GetNote(_ context.Context, id uuid.UUID) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, notedomain.ErrNoteNotFound
	}
	out := copyNote(n)
	return &out, nil
}

func (s *Store) GetNoteByVisit(_ context.Context, visitID uuid.UUID) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.VisitID == visitID {
			out := copyNote(n)
			return &out, nil
		}
	}
	return nil, notedomain.ErrNoteNotFound
}

func (s *Store) UpdateNoteIfUnsigned(_ context.Context, n *models.Note) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.notes[n.ID]
	if !ok || stored.IsSigned {
		return false, nil
	}

	n.VisitID = stored.VisitID
	n.CreatedBy = stored.CreatedBy
	n.CreatedAt = stored.CreatedAt
	n.UpdatedAt = s.now()
	s.notes[n.ID] = copyNote(*n)
	return true, nil
}

func (s *Store) IsActiveMember(_ context.Context, practitionerID, clinicID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments {
		if a.PractitionerID == practitionerID && a.ClinicID == clinicID && a.Active {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListAssignments(_ context.Context, practitionerID uuid.UUID) ([]models.PractitionerAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.PractitionerAssignment{}
	for _, a := range s.assignments {
		if a.PractitionerID == practitionerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClinicID.String() < out[j].ClinicID.String() })
	return out, nil
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func assignColumn(dst, src *models.Visit, col string) bool {
	switch col {
	case "status":
		dst.Status = src.Status
	case "check_in_time":
		dst.CheckInTime = src.CheckInTime
	case "start_time":
		dst.StartTime = src.StartTime
	case "end_time":
		dst.EndTime = src.EndTime
	case "cancellation_reason":
		dst.CancellationReason = src.CancellationReason
	case "cancelled_by":
		dst.CancelledBy = src.CancelledBy
	case "cancelled_at":
		dst.CancelledAt = src.CancelledAt
	case "scheduled_date":
		dst.ScheduledDate = src.ScheduledDate
	case "scheduled_time":
		dst.ScheduledTime = src.ScheduledTime
	case "duration_minutes":
		dst.DurationMinutes = src.DurationMinutes
	case "starts_at":
		dst.StartsAt = src.StartsAt
	case "ends_at":
		dst.EndsAt = src.EndsAt
	case "visit_type":
		dst.VisitType = src.VisitType
	case "chief_complaint":
		dst.ChiefComplaint = src.ChiefComplaint
	default:
		return false
	}
	return true
}

func statusIn(status string, from []visitdomain.Status) bool {
	for _, s := range from {
		if string(s) == status {
			return true
		}
	}
	return false
}

func sortByStart(visits []models.Visit) {
	sort.Slice(visits, func(i, j int) bool {
		return visits[i].StartsAt.Before(visits[j].StartsAt)
	})
}

func copyVisit(v models.Visit) models.Visit {
	if v.VitalSigns != nil {
		vitals := make(datatypes.JSONMap, len(v.VitalSigns))
		for k, val := range v.VitalSigns {
			vitals[k] = val
		}
		v.VitalSigns = vitals
	}
	return v
}

func copyNote(n models.Note) models.Note {
	if n.NoteData != nil {
		n.NoteData = append(datatypes.JSON(nil), n.NoteData...)
	}
	return n
}

// Compile-time checks
var (
	_ visitdomain.Repository = (*Store)(nil)
	_ notedomain.Repository  = (*Store)(nil)
	_ notedomain.Membership  = (*Store)(nil)
)
