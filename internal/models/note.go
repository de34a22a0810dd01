package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Note struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VisitID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"visit_id"`

	NoteType        string         `gorm:"size:20;not null" json:"note_type"`
	NoteData        datatypes.JSON `gorm:"type:jsonb" json:"note_data"`
	AdditionalNotes string         `gorm:"type:text" json:"additional_notes"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`

	IsSigned      bool       `gorm:"not null;default:false" json:"is_signed"`
	SignedBy      *uuid.UUID `gorm:"type:uuid" json:"signed_by"`
	SignedAt      *time.Time `json:"signed_at"`
	SignatureHash string     `gorm:"size:64" json:"signature_hash,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
