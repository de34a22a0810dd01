package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/scheduling"
	visituc "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/visit"
)

// ======================================================
// HANDLER
// ======================================================

type VisitHandler struct {
	svc *scheduling.Service
}

func NewVisitHandler(svc *scheduling.Service) *VisitHandler {
	return &VisitHandler{svc: svc}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateVisitRequest struct {
	PatientID       uuid.UUID  `json:"patient_id" binding:"required"`
	ClinicID        uuid.UUID  `json:"clinic_id" binding:"required"`
	PractitionerID  uuid.UUID  `json:"practitioner_id" binding:"required"`
	ParentVisitID   *uuid.UUID `json:"parent_visit_id"`
	VisitType       string     `json:"visit_type" binding:"required"`
	ScheduledDate   string     `json:"scheduled_date" binding:"required,isodate"`
	ScheduledTime   string     `json:"scheduled_time" binding:"required,hhmm"`
	DurationMinutes int        `json:"duration_minutes" binding:"omitempty,gt=0"`
	ChiefComplaint  string     `json:"chief_complaint"`
}

type VitalSignsRequest struct {
	VitalSigns map[string]any `json:"vital_signs"`
}

type CancelVisitRequest struct {
	Reason string `json:"reason"`
}

type RescheduleVisitRequest struct {
	ScheduledDate   string `json:"scheduled_date" binding:"required,isodate"`
	ScheduledTime   string `json:"scheduled_time" binding:"required,hhmm"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,gt=0"`
}

type UpdateVisitRequest struct {
	VisitType       *string        `json:"visit_type"`
	ChiefComplaint  *string        `json:"chief_complaint"`
	ScheduledDate   *string        `json:"scheduled_date" binding:"omitempty,isodate"`
	ScheduledTime   *string        `json:"scheduled_time" binding:"omitempty,hhmm"`
	DurationMinutes *int           `json:"duration_minutes" binding:"omitempty,gt=0"`
	VitalSigns      map[string]any `json:"vital_signs"`
}

// ======================================================
// CREATE / READ
// ======================================================

func (h *VisitHandler) Create(c *gin.Context) {
	var req CreateVisitRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.svc.CreateVisit(c.Request.Context(), visituc.CreateVisitInput{
		PatientID:       req.PatientID,
		ClinicID:        req.ClinicID,
		PractitionerID:  req.PractitionerID,
		ParentVisitID:   req.ParentVisitID,
		VisitType:       req.VisitType,
		Date:            req.ScheduledDate,
		Time:            req.ScheduledTime,
		DurationMinutes: req.DurationMinutes,
		ChiefComplaint:  req.ChiefComplaint,
		CreatedBy:       actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, v)
}

func (h *VisitHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	v, err := h.svc.GetVisit(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, v)
}

// ListByDate serves GET /visits?practitioner_id=&clinic_id=&date=
func (h *VisitHandler) ListByDate(c *gin.Context) {
	practitionerID, ok := uuidQuery(c, "practitioner_id")
	if !ok {
		return
	}
	clinicID, ok := uuidQuery(c, "clinic_id")
	if !ok {
		return
	}

	visits, err := h.svc.ListVisitsByDate(c.Request.Context(), visituc.ListVisitsByDateInput{
		PractitionerID: practitionerID,
		ClinicID:       clinicID,
		Date:           c.Query("date"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.VisitList(visits))
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *VisitHandler) CheckIn(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req VitalSignsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	v, err := h.svc.CheckIn(c.Request.Context(), id, req.VitalSigns, actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, v)
}

func (h *VisitHandler) Start(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req VitalSignsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	v, err := h.svc.Start(c.Request.Context(), id, req.VitalSigns, actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, v)
}

func (h *VisitHandler) Complete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	v, err := h.svc.Complete(c.Request.Context(), id, actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, v)
}

func (h *VisitHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	userID, ok := mustActor(c)
	if !ok {
		return
	}

	var req CancelVisitRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	v, err := h.svc.Cancel(c.Request.Context(), id, req.Reason, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, v)
}

func (h *VisitHandler) Reschedule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleVisitRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.svc.Reschedule(c.Request.Context(), visituc.RescheduleVisitInput{
		VisitID:         id,
		Date:            req.ScheduledDate,
		Time:            req.ScheduledTime,
		DurationMinutes: req.DurationMinutes,
		Actor:           actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, v)
}

func (h *VisitHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateVisitRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.svc.UpdateVisit(c.Request.Context(), visituc.UpdateVisitInput{
		VisitID:         id,
		VisitType:       req.VisitType,
		ChiefComplaint:  req.ChiefComplaint,
		Date:            req.ScheduledDate,
		Time:            req.ScheduledTime,
		DurationMinutes: req.DurationMinutes,
		VitalSigns:      req.VitalSigns,
		Actor:           actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, v)
}
