package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	notedomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/note"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/scheduling"
	noteuc "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/note"
)

type NoteHandler struct {
	svc *scheduling.Service
}

func NewNoteHandler(svc *scheduling.Service) *NoteHandler {
	return &NoteHandler{svc: svc}
}

type CreateNoteRequest struct {
	NoteType        string          `json:"note_type" binding:"required"`
	NoteData        json.RawMessage `json:"note_data" binding:"required"`
	AdditionalNotes string          `json:"additional_notes"`
}

type UpdateNoteRequest struct {
	NoteType        *string         `json:"note_type"`
	NoteData        json.RawMessage `json:"note_data"`
	AdditionalNotes *string         `json:"additional_notes"`
}

// POST /visits/:id/note
func (h *NoteHandler) Create(c *gin.Context) {
	visitID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	userID, ok := mustActor(c)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := h.svc.CreateNote(c.Request.Context(), noteuc.CreateNoteInput{
		VisitID:         visitID,
		NoteType:        req.NoteType,
		NoteData:        req.NoteData,
		AdditionalNotes: req.AdditionalNotes,
		CreatedBy:       userID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, n)
}

// GET /visits/:id/note
func (h *NoteHandler) GetByVisit(c *gin.Context) {
	visitID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	n, err := h.svc.GetNoteByVisit(c.Request.Context(), visitID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, n)
}

func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	n, err := h.svc.GetNote(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, n)
}

func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := notedomain.Patch{
		NoteType:        req.NoteType,
		AdditionalNotes: req.AdditionalNotes,
	}
	if len(req.NoteData) > 0 && !bytes.Equal(req.NoteData, []byte("null")) {
		patch.NoteData = req.NoteData
	}

	n, err := h.svc.UpdateNote(c.Request.Context(), id, patch, actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, n)
}

func (h *NoteHandler) Sign(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	userID, ok := mustActor(c)
	if !ok {
		return
	}

	n, err := h.svc.SignNote(c.Request.Context(), id, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, n)
}
