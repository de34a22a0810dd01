// Package scheduling wires the visit and note use cases into the single
// surface the HTTP layer talks to.
package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	notedomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/note"
	visitdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	noteuc "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/note"
	visituc "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/visit"
)

type Deps struct {
	Visits     visitdomain.Repository
	Notes      notedomain.Repository
	Membership notedomain.Membership
	Locker     visitdomain.Locker
	Audit      *audit.Dispatcher

	// Clock defaults to time.Now.
	Clock func() time.Time
}

type Service struct {
	availability *visituc.AvailabilityChecker

	createVisit    *visituc.CreateVisit
	getVisit       *visituc.GetVisit
	listVisits     *visituc.ListVisitsByDate
	checkIn        *visituc.CheckInVisit
	start          *visituc.StartVisit
	complete       *visituc.CompleteVisit
	cancel         *visituc.CancelVisit
	reschedule     *visituc.RescheduleVisit
	updateVisit    *visituc.UpdateVisit
	createNote     *noteuc.CreateNote
	updateNote     *noteuc.UpdateNote
	signNote       *noteuc.SignNote
	getNote        *noteuc.GetNote
	getNoteByVisit *noteuc.GetNoteByVisit
}

func New(d Deps) *Service {
	clock := d.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		availability: visituc.NewAvailabilityChecker(d.Visits),

		createVisit: visituc.NewCreateVisit(d.Visits, d.Locker, d.Audit, clock),
		getVisit:    visituc.NewGetVisit(d.Visits),
		listVisits:  visituc.NewListVisitsByDate(d.Visits),
		checkIn:     visituc.NewCheckInVisit(d.Visits, d.Audit, clock),
		start:       visituc.NewStartVisit(d.Visits, d.Audit, clock),
		complete:    visituc.NewCompleteVisit(d.Visits, d.Audit, clock),
		cancel:      visituc.NewCancelVisit(d.Visits, d.Audit, clock),
		reschedule:  visituc.NewRescheduleVisit(d.Visits, d.Locker, d.Audit, clock),
		updateVisit: visituc.NewUpdateVisit(d.Visits, d.Locker, d.Audit, clock),

		createNote:     noteuc.NewCreateNote(d.Notes, d.Membership, d.Audit),
		updateNote:     noteuc.NewUpdateNote(d.Notes, d.Audit),
		signNote:       noteuc.NewSignNote(d.Notes, d.Audit, clock),
		getNote:        noteuc.NewGetNote(d.Notes),
		getNoteByVisit: noteuc.NewGetNoteByVisit(d.Notes),
	}
}

// ======================================================
// Availability
// ======================================================

func (s *Service) IsAvailable(ctx context.Context, q visitdomain.AvailabilityQuery) (bool, error) {
	return s.availability.IsAvailable(ctx, q)
}

func (s *Service) Conflicts(ctx context.Context, q visitdomain.AvailabilityQuery) ([]visitdomain.Conflict, error) {
	return s.availability.Conflicts(ctx, q)
}

// ======================================================
// Visits
// ======================================================

func (s *Service) CreateVisit(ctx context.Context, in visituc.CreateVisitInput) (*models.Visit, error) {
	return s.createVisit.Execute(ctx, in)
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*models.Visit, error) {
	return s.getVisit.Execute(ctx, id)
}

func (s *Service) ListVisitsByDate(ctx context.Context, in visituc.ListVisitsByDateInput) ([]models.Visit, error) {
	return s.listVisits.Execute(ctx, in)
}

func (s *Service) CheckIn(ctx context.Context, id uuid.UUID, vitals map[string]any, actor *uuid.UUID) (*models.Visit, error) {
	return s.checkIn.Execute(ctx, id, vitals, actor)
}

func (s *Service) Start(ctx context.Context, id uuid.UUID, vitals map[string]any, actor *uuid.UUID) (*models.Visit, error) {
	return s.start.Execute(ctx, id, vitals, actor)
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) (*models.Visit, error) {
	return s.complete.Execute(ctx, id, actor)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string, cancelledBy uuid.UUID) (*models.Visit, error) {
	return s.cancel.Execute(ctx, id, reason, cancelledBy)
}

func (s *Service) Reschedule(ctx context.Context, in visituc.RescheduleVisitInput) (*models.Visit, error) {
	return s.reschedule.Execute(ctx, in)
}

func (s *Service) UpdateVisit(ctx context.Context, in visituc.UpdateVisitInput) (*models.Visit, error) {
	return s.updateVisit.Execute(ctx, in)
}

// ======================================================
// Notes
// ======================================================

func (s *Service) CreateNote(ctx context.Context, in noteuc.CreateNoteInput) (*models.Note, error) {
	return s.createNote.Execute(ctx, in)
}

func (s *Service) UpdateNote(ctx context.Context, id uuid.UUID, patch notedomain.Patch, actor *uuid.UUID) (*models.Note, error) {
	return s.updateNote.Execute(ctx, id, patch, actor)
}

func (s *Service) SignNote(ctx context.Context, id uuid.UUID, signedBy uuid.UUID) (*models.Note, error) {
	return s.signNote.Execute(ctx, id, signedBy)
}

func (s *Service) GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	return s.getNote.Execute(ctx, id)
}

func (s *Service) GetNoteByVisit(ctx context.Context, visitID uuid.UUID) (*models.Note, error) {
	return s.getNoteByVisit.Execute(ctx, visitID)
}
