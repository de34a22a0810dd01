package note

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func draft() *models.Note {
	return &models.Note{
		ID:       uuid.New(),
		VisitID:  uuid.New(),
		NoteType: string(TypeProgress),
		NoteData: []byte(`{"progressNote":"first session"}`),
	}
}

func strptr(s string) *string { return &s }

func TestApply(t *testing.T) {
	n := draft()

	err := Apply(n, Patch{
		NoteData:        []byte(`{"progressNote":"second session"}`),
		AdditionalNotes: strptr("bring scans"),
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"progressNote":"second session"}`, string(n.NoteData))
	assert.Equal(t, "bring scans", n.AdditionalNotes)
	assert.Equal(t, string(TypeProgress), n.NoteType)
}

func TestApply_ChangeType(t *testing.T) {
	n := draft()

	err := Apply(n, Patch{NoteType: strptr("SOAP")})
	assert.True(t, httperr.IsValidation(err))

	err = Apply(n, Patch{
		NoteType: strptr("SOAP"),
		NoteData: []byte(`{"subjective":"s","objective":"o","assessment":"a","plan":"p"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, string(TypeSOAP), n.NoteType)
}

func TestApply_DataMustMatchCurrentType(t *testing.T) {
	n := draft()

	err := Apply(n, Patch{NoteData: []byte(`{"behavior":"calm"}`)})
	assert.True(t, httperr.IsBusiness(err, "invalid_note_data"))
	assert.JSONEq(t, `{"progressNote":"first session"}`, string(n.NoteData))
}

func TestSign(t *testing.T) {
	n := draft()
	by := uuid.New()
	at := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)

	require.NoError(t, Sign(n, by, at))

	assert.True(t, n.IsSigned)
	assert.Equal(t, by, *n.SignedBy)
	assert.Equal(t, at, *n.SignedAt)
	assert.Len(t, n.SignatureHash, 64)
	assert.Equal(t, Digest(n), n.SignatureHash)
}

func TestSign_IsOneWay(t *testing.T) {
	n := draft()
	require.NoError(t, Sign(n, uuid.New(), time.Now()))
	hash := n.SignatureHash

	err := Sign(n, uuid.New(), time.Now())
	assert.True(t, httperr.IsBusiness(err, "note_already_signed"))

	err = Apply(n, Patch{AdditionalNotes: strptr("late edit")})
	assert.True(t, httperr.IsInvalidState(err))

	assert.Equal(t, hash, n.SignatureHash)
	assert.Empty(t, n.AdditionalNotes)
}

func TestDigest_DetectsTampering(t *testing.T) {
	n := draft()
	require.NoError(t, Sign(n, uuid.New(), time.Now()))
	signed := n.SignatureHash

	n.NoteData = []byte(`{"progressNote":"altered"}`)
	assert.NotEqual(t, signed, Digest(n))
}
