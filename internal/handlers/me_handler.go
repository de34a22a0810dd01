package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AssignmentLister returns the clinics a practitioner is assigned to.
type AssignmentLister interface {
	ListAssignments(ctx context.Context, practitionerID uuid.UUID) ([]models.PractitionerAssignment, error)
}

type MeHandler struct {
	assignments AssignmentLister
}

func NewMeHandler(assignments AssignmentLister) *MeHandler {
	return &MeHandler{assignments: assignments}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID, ok := mustActor(c)
	if !ok {
		return
	}

	assignments, err := h.assignments.ListAssignments(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	clinics := make([]gin.H, 0, len(assignments))
	for _, a := range assignments {
		clinics = append(clinics, gin.H{
			"clinic_id": a.ClinicID,
			"role":      a.Role,
			"active":    a.Active,
		})
	}

	httpresp.OK(c, gin.H{
		"user": gin.H{
			"id":   userID,
			"role": c.GetString(middleware.ContextUserRole),
		},
		"clinics": clinics,
	})
}
