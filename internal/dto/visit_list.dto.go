package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// VisitListDTO is one agenda row.
type VisitListDTO struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	ScheduledDate   string     `json:"scheduled_date"`
	ScheduledTime   string     `json:"scheduled_time"`
	EndTime         string     `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          string     `json:"status"`
	VisitType       string     `json:"visit_type"`
	ChiefComplaint  string     `json:"chief_complaint,omitempty"`
	CheckInTime     *time.Time `json:"check_in_time,omitempty"`
}

func VisitList(visits []models.Visit) []VisitListDTO {
	out := make([]VisitListDTO, 0, len(visits))
	for _, v := range visits {
		out = append(out, VisitListDTO{
			ID:              v.ID,
			PatientID:       v.PatientID,
			ScheduledDate:   v.ScheduledDate,
			ScheduledTime:   v.ScheduledTime,
			EndTime:         v.EndsAt.Format("15:04"),
			DurationMinutes: v.DurationMinutes,
			Status:          v.Status,
			VisitType:       v.VisitType,
			ChiefComplaint:  v.ChiefComplaint,
			CheckInTime:     v.CheckInTime,
		})
	}
	return out
}
