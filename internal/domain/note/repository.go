package note

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var (
	ErrNoteNotFound      = httperr.NotFoundErr("note_not_found", "note not found")
	ErrNoteAlreadyExists = httperr.ConflictErr("note_already_exists", "visit already has a note")
	ErrNotClinicMember   = httperr.InvalidStateErr("not_clinic_member", "creator is not assigned to this clinic")
)

type Repository interface {
	GetVisit(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Visit, error)

	// CreateNote persists n. A second note for the same visit is
	// reported as ErrNoteAlreadyExists.
	CreateNote(
		ctx context.Context,
		n *models.Note,
	) error

	GetNote(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Note, error)

	GetNoteByVisit(
		ctx context.Context,
		visitID uuid.UUID,
	) (*models.Note, error)

	// UpdateNoteIfUnsigned writes n only while the stored row is unsigned.
	UpdateNoteIfUnsigned(
		ctx context.Context,
		n *models.Note,
	) (bool, error)
}

// Membership answers whether a practitioner actively works at a clinic.
type Membership interface {
	IsActiveMember(
		ctx context.Context,
		practitionerID uuid.UUID,
		clinicID uuid.UUID,
	) (bool, error)
}
