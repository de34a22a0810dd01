package models

import (
	"time"

	"github.com/google/uuid"
)

type Clinic struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index" json:"organization_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PractitionerAssignment links a practitioner to a clinic they work at.
type PractitionerAssignment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PractitionerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment,priority:1" json:"practitioner_id"`
	ClinicID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment,priority:2" json:"clinic_id"`
	Role           string    `gorm:"size:30" json:"role"`
	Active         bool      `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
