package visit

import "github.com/google/uuid"

// AvailabilityQuery asks whether a practitioner is free for a slot at a clinic.
type AvailabilityQuery struct {
	PractitionerID  uuid.UUID
	ClinicID        uuid.UUID
	Date            string
	Time            string
	DurationMinutes int

	// ExcludeVisitID skips the visit being moved on reschedule/update.
	ExcludeVisitID *uuid.UUID
}

// Conflict describes an existing visit overlapping a candidate slot.
type Conflict struct {
	VisitID uuid.UUID `json:"visit_id"`
	Start   string    `json:"start"`
	End     string    `json:"end"`
}
