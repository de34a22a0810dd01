package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/scheduling"
)

type AvailabilityHandler struct {
	svc *scheduling.Service
}

func NewAvailabilityHandler(svc *scheduling.Service) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Conflicts []domain.Conflict `json:"conflicts"`
}

// Check serves GET /availability?practitioner_id=&clinic_id=&date=&time=
// with optional duration_minutes and exclude_visit_id.
func (h *AvailabilityHandler) Check(c *gin.Context) {
	practitionerID, ok := uuidQuery(c, "practitioner_id")
	if !ok {
		return
	}
	clinicID, ok := uuidQuery(c, "clinic_id")
	if !ok {
		return
	}

	duration := domain.DefaultDurationMinutes
	if raw := c.Query("duration_minutes"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_duration", "duration_minutes must be an integer")
			return
		}
		duration = d
	}

	q := domain.AvailabilityQuery{
		PractitionerID:  practitionerID,
		ClinicID:        clinicID,
		Date:            c.Query("date"),
		Time:            c.Query("time"),
		DurationMinutes: duration,
	}

	if raw := c.Query("exclude_visit_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_query", "exclude_visit_id must be a UUID")
			return
		}
		q.ExcludeVisitID = &id
	}

	conflicts, err := h.svc.Conflicts(c.Request.Context(), q)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if conflicts == nil {
		conflicts = []domain.Conflict{}
	}

	httpresp.OK(c, AvailabilityResponse{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	})
}
