package note

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ===============================
// Guards
// ===============================

func CanUpdate(n *models.Note) error {
	if n.IsSigned {
		return httperr.InvalidStateErr("note_already_signed", "signed notes cannot be edited")
	}
	return nil
}

func CanSign(n *models.Note) error {
	if n.IsSigned {
		return httperr.InvalidStateErr("note_already_signed", "note is already signed")
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

// Patch holds the editable fields of a note. Nil means unchanged.
type Patch struct {
	NoteType        *string
	NoteData        []byte
	AdditionalNotes *string
}

func Apply(n *models.Note, p Patch) error {
	if err := CanUpdate(n); err != nil {
		return err
	}

	noteType := Type(n.NoteType)
	if p.NoteType != nil {
		t, err := ParseType(*p.NoteType)
		if err != nil {
			return err
		}
		if t != noteType && p.NoteData == nil {
			return httperr.ValidationErr("invalid_note_data", "changing note_type requires note_data")
		}
		noteType = t
	}

	if p.NoteData != nil {
		data, err := NormalizeData(noteType, p.NoteData)
		if err != nil {
			return err
		}
		n.NoteData = data
	}

	n.NoteType = string(noteType)
	if p.AdditionalNotes != nil {
		n.AdditionalNotes = *p.AdditionalNotes
	}
	return nil
}

// Sign finalises n. There is no way back.
func Sign(n *models.Note, signedBy uuid.UUID, now time.Time) error {
	if err := CanSign(n); err != nil {
		return err
	}

	n.IsSigned = true
	n.SignedBy = &signedBy
	n.SignedAt = &now
	n.SignatureHash = Digest(n)
	return nil
}

// Digest is the SHA3-256 of the signed content and signature metadata.
func Digest(n *models.Note) string {
	var b strings.Builder
	b.WriteString(n.ID.String())
	b.WriteByte('\n')
	b.WriteString(n.VisitID.String())
	b.WriteByte('\n')
	b.WriteString(n.NoteType)
	b.WriteByte('\n')
	b.Write(n.NoteData)
	b.WriteByte('\n')
	b.WriteString(n.AdditionalNotes)
	b.WriteByte('\n')
	if n.SignedBy != nil {
		b.WriteString(n.SignedBy.String())
	}
	b.WriteByte('\n')
	if n.SignedAt != nil {
		b.WriteString(n.SignedAt.UTC().Format(time.RFC3339Nano))
	}

	sum := sha3.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
