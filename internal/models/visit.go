package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Visit struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	PatientID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	ClinicID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_visits_agenda,priority:2" json:"clinic_id"`
	PractitionerID uuid.UUID  `gorm:"type:uuid;not null;index:idx_visits_agenda,priority:1" json:"practitioner_id"`
	ParentVisitID  *uuid.UUID `gorm:"type:uuid" json:"parent_visit_id"`

	ScheduledDate   string `gorm:"type:char(10);not null;index:idx_visits_agenda,priority:3" json:"scheduled_date"`
	ScheduledTime   string `gorm:"type:char(5);not null" json:"scheduled_time"`
	DurationMinutes int    `gorm:"not null;default:30" json:"duration_minutes"`

	// Wall-clock bounds of the slot, no timezone. Kept in sync with the
	// scheduling fields so the storage exclusion constraint can see them.
	StartsAt time.Time `gorm:"type:timestamp;not null" json:"-"`
	EndsAt   time.Time `gorm:"type:timestamp;not null" json:"-"`

	Status string `gorm:"size:20;not null;default:'SCHEDULED'" json:"status"`

	CheckInTime        *time.Time `json:"check_in_time"`
	StartTime          *time.Time `json:"start_time"`
	EndTime            *time.Time `json:"end_time"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`
	CancelledBy        *uuid.UUID `gorm:"type:uuid" json:"cancelled_by"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	VisitType      string            `gorm:"size:30;not null" json:"visit_type"`
	ChiefComplaint string            `gorm:"type:text" json:"chief_complaint"`
	VitalSigns     datatypes.JSONMap `gorm:"type:jsonb" json:"vital_signs"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
