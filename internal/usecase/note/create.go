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

type CreateNoteInput struct {
	VisitID         uuid.UUID
	NoteType        string
	NoteData        []byte
	AdditionalNotes string
	CreatedBy       uuid.UUID
}

type CreateNote struct {
	repo       domain.Repository
	membership domain.Membership
	audit      *audit.Dispatcher
}

func NewCreateNote(
	repo domain.Repository,
	membership domain.Membership,
	audit *audit.Dispatcher,
) *CreateNote {
	return &CreateNote{
		repo:       repo,
		membership: membership,
		audit:      audit,
	}
}

func (uc *CreateNote) Execute(
	ctx context.Context,
	in CreateNoteInput,
) (*models.Note, error) {

	if in.CreatedBy == uuid.Nil {
		return nil, httperr.ValidationErr("missing_actor", "created_by is required")
	}

	// --------------------------------------------------
	// 1. Visit
	// --------------------------------------------------
	v, err := uc.repo.GetVisit(ctx, in.VisitID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Creator works at the visit's clinic
	// --------------------------------------------------
	member, err := uc.membership.IsActiveMember(ctx, in.CreatedBy, v.ClinicID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotClinicMember
	}

	// --------------------------------------------------
	// 3. One note per visit
	// --------------------------------------------------
	if _, err := uc.repo.GetNoteByVisit(ctx, v.ID); err == nil {
		return nil, domain.ErrNoteAlreadyExists
	} else if !httperr.IsNotFound(err) {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Template
	// --------------------------------------------------
	noteType, err := domain.ParseType(in.NoteType)
	if err != nil {
		return nil, err
	}
	data, err := domain.NormalizeData(noteType, in.NoteData)
	if err != nil {
		return nil, err
	}

	n := &models.Note{
		ID:              uuid.New(),
		VisitID:         v.ID,
		NoteType:        string(noteType),
		NoteData:        data,
		AdditionalNotes: in.AdditionalNotes,
		CreatedBy:       in.CreatedBy,
	}

	if err := uc.repo.CreateNote(ctx, n); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: v.ClinicID,
		UserID:   &in.CreatedBy,
		Action:   "note_created",
		Entity:   "note",
		EntityID: &n.ID,
		Metadata: map[string]any{"visit_id": v.ID, "note_type": n.NoteType},
	})

	log.Info().
		Str("note_id", n.ID.String()).
		Str("visit_id", v.ID.String()).
		Msg("note created")

	return n, nil
}

// clinicOf resolves the clinic a note belongs to for audit events.
func clinicOf(ctx context.Context, repo domain.Repository, n *models.Note) uuid.UUID {
	v, err := repo.GetVisit(ctx, n.VisitID)
	if err != nil {
		log.Warn().Err(err).Str("note_id", n.ID.String()).Msg("visit lookup for audit failed")
		return uuid.Nil
	}
	return v.ClinicID
}

func defaultClock(clock func() time.Time) func() time.Time {
	if clock == nil {
		return time.Now
	}
	return clock
}
