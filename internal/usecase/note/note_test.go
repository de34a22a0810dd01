package note_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	notedomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/note"
	visitdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memstore"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	noteuc "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/note"
)

var signedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const soap = `{"subjective":"knee pain","objective":"mild swelling","assessment":"sprain","plan":"ice and rest"}`

type fixture struct {
	store        *memstore.Store
	visit        *models.Visit
	practitioner uuid.UUID

	create  *noteuc.CreateNote
	update  *noteuc.UpdateNote
	sign    *noteuc.SignNote
	get     *noteuc.GetNote
	byVisit *noteuc.GetNoteByVisit
}

func newFixture(t *testing.T, status visitdomain.Status) *fixture {
	t.Helper()

	store := memstore.New()
	clinic := store.AddClinic(models.Clinic{Name: "Downtown Physio"})
	patient := store.AddPatient(models.Patient{ClinicID: clinic.ID, Name: "Ana"})
	practitioner := uuid.New()
	store.AddAssignment(models.PractitionerAssignment{
		PractitionerID: practitioner,
		ClinicID:       clinic.ID,
		Role:           "physiotherapist",
		Active:         true,
	})

	slot, err := visitdomain.NewSlot("2024-03-01", "10:00", 30)
	require.NoError(t, err)
	v := &models.Visit{
		PatientID:      patient.ID,
		ClinicID:       clinic.ID,
		PractitionerID: practitioner,
		Status:         string(visitdomain.StatusScheduled),
		VisitType:      "INITIAL_CONSULTATION",
	}
	visitdomain.ApplySlot(v, "2024-03-01", "10:00", 30, slot)
	require.NoError(t, store.CreateVisit(context.Background(), v))
	store.SetVisitStatus(v.ID, status)

	return &fixture{
		store:        store,
		visit:        v,
		practitioner: practitioner,

		create:  noteuc.NewCreateNote(store, store, nil),
		update:  noteuc.NewUpdateNote(store, nil),
		sign:    noteuc.NewSignNote(store, nil, func() time.Time { return signedAt }),
		get:     noteuc.NewGetNote(store),
		byVisit: noteuc.NewGetNoteByVisit(store),
	}
}

func (f *fixture) input() noteuc.CreateNoteInput {
	return noteuc.CreateNoteInput{
		VisitID:   f.visit.ID,
		NoteType:  "SOAP",
		NoteData:  []byte(soap),
		CreatedBy: f.practitioner,
	}
}

func strptr(s string) *string { return &s }

func TestNote_SignedNoteIsImmutable(t *testing.T) {
	f := newFixture(t, visitdomain.StatusCompleted)
	ctx := context.Background()

	n, err := f.create.Execute(ctx, f.input())
	require.NoError(t, err)
	assert.False(t, n.IsSigned)
	assert.Equal(t, f.practitioner, n.CreatedBy)

	signed, err := f.sign.Execute(ctx, n.ID, f.practitioner)
	require.NoError(t, err)
	assert.True(t, signed.IsSigned)
	assert.Equal(t, signedAt, *signed.SignedAt)
	assert.Equal(t, notedomain.Digest(signed), signed.SignatureHash)

	_, err = f.update.Execute(ctx, n.ID, notedomain.Patch{AdditionalNotes: strptr("addendum")}, nil)
	require.Error(t, err)
	assert.True(t, httperr.IsInvalidState(err))

	_, err = f.sign.Execute(ctx, n.ID, uuid.New())
	assert.True(t, httperr.IsBusiness(err, "note_already_signed"))

	stored, err := f.get.Execute(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.AdditionalNotes)
	assert.Equal(t, f.practitioner, *stored.SignedBy)
	assert.Equal(t, signed.SignatureHash, stored.SignatureHash)
}

func TestNote_OnePerVisit(t *testing.T) {
	f := newFixture(t, visitdomain.StatusInProgress)
	ctx := context.Background()

	_, err := f.create.Execute(ctx, f.input())
	require.NoError(t, err)

	_, err = f.create.Execute(ctx, f.input())
	require.Error(t, err)
	assert.True(t, httperr.IsConflict(err))
	assert.Contains(t, err.Error(), "visit already has a note")
}

func TestNote_CreatorMustBeAssigned(t *testing.T) {
	f := newFixture(t, visitdomain.StatusInProgress)

	in := f.input()
	in.CreatedBy = uuid.New()

	_, err := f.create.Execute(context.Background(), in)
	require.Error(t, err)
	assert.True(t, httperr.IsInvalidState(err))
	assert.Contains(t, err.Error(), "creator is not assigned to this clinic")
}

func TestNote_InactiveAssignmentIsRejected(t *testing.T) {
	f := newFixture(t, visitdomain.StatusInProgress)
	former := uuid.New()
	f.store.AddAssignment(models.PractitionerAssignment{
		PractitionerID: former,
		ClinicID:       f.visit.ClinicID,
		Active:         false,
	})

	in := f.input()
	in.CreatedBy = former

	_, err := f.create.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "not_clinic_member"))
}

func TestNote_UnknownVisit(t *testing.T) {
	f := newFixture(t, visitdomain.StatusScheduled)
	ctx := context.Background()

	in := f.input()
	in.VisitID = uuid.New()
	_, err := f.create.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "visit_not_found"))

	_, err = f.byVisit.Execute(ctx, in.VisitID)
	assert.True(t, httperr.IsBusiness(err, "visit_not_found"))
}

func TestNote_TemplateValidation(t *testing.T) {
	f := newFixture(t, visitdomain.StatusInProgress)
	ctx := context.Background()

	in := f.input()
	in.NoteType = "BAP"
	_, err := f.create.Execute(ctx, in)
	assert.True(t, httperr.IsValidation(err))

	in = f.input()
	in.NoteType = "FREEFORM"
	_, err = f.create.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "invalid_note_type"))

	_, err = f.byVisit.Execute(ctx, f.visit.ID)
	assert.True(t, httperr.IsBusiness(err, "note_not_found"))
}

func TestNote_UpdateBeforeSigning(t *testing.T) {
	f := newFixture(t, visitdomain.StatusInProgress)
	ctx := context.Background()

	n, err := f.create.Execute(ctx, f.input())
	require.NoError(t, err)

	updated, err := f.update.Execute(ctx, n.ID, notedomain.Patch{
		NoteType:        strptr("Progress"),
		NoteData:        []byte(`{"progressNote":"range of motion improved"}`),
		AdditionalNotes: strptr("review in two weeks"),
	}, &f.practitioner)
	require.NoError(t, err)

	assert.Equal(t, "Progress", updated.NoteType)
	assert.Equal(t, n.CreatedBy, updated.CreatedBy)

	byVisit, err := f.byVisit.Execute(ctx, f.visit.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, byVisit.ID)
	assert.JSONEq(t, `{"progressNote":"range of motion improved"}`, string(byVisit.NoteData))
	assert.Equal(t, "review in two weeks", byVisit.AdditionalNotes)
}

func TestNote_UnknownNote(t *testing.T) {
	f := newFixture(t, visitdomain.StatusInProgress)
	ctx := context.Background()
	id := uuid.New()

	_, err := f.get.Execute(ctx, id)
	assert.True(t, httperr.IsNotFound(err))
	_, err = f.update.Execute(ctx, id, notedomain.Patch{}, nil)
	assert.True(t, httperr.IsNotFound(err))
	_, err = f.sign.Execute(ctx, id, f.practitioner)
	assert.True(t, httperr.IsNotFound(err))
}

type membershipMock struct {
	mock.Mock
}

func (m *membershipMock) IsActiveMember(ctx context.Context, practitionerID, clinicID uuid.UUID) (bool, error) {
	args := m.Called(ctx, practitionerID, clinicID)
	return args.Bool(0), args.Error(1)
}

func TestNote_MembershipLookupFailure(t *testing.T) {
	f := newFixture(t, visitdomain.StatusInProgress)

	membership := new(membershipMock)
	membership.
		On("IsActiveMember", mock.Anything, f.practitioner, f.visit.ClinicID).
		Return(false, errors.New("connection reset"))

	create := noteuc.NewCreateNote(f.store, membership, nil)
	_, err := create.Execute(context.Background(), f.input())

	require.Error(t, err)
	assert.Empty(t, httperr.KindOf(err))
	membership.AssertExpectations(t)

	_, err = f.byVisit.Execute(context.Background(), f.visit.ID)
	assert.True(t, httperr.IsNotFound(err))
}
