package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
	"github.com/medoffice/shift-scheduler-backend/internal/services"
	"github.com/medoffice/shift-scheduler-backend/pkg/oracle"
)

type ScheduleHandler struct {
	schedule *services.ScheduleService
	drafts   *services.DraftService
}

func NewScheduleHandler(schedule *services.ScheduleService, drafts *services.DraftService) *ScheduleHandler {
	return &ScheduleHandler{
		schedule: schedule,
		drafts:   drafts,
	}
}

type generateDraftRequest struct {
	WeekStart string `json:"week_start" binding:"required"`
	Mode      string `json:"mode"`
}

type applyDraftRequest struct {
	ClearExisting bool `json:"clear_existing"`
}

// GenerateDraft asks the schedule generator for a candidate week
// POST /api/v1/schedule/draft
func (h *ScheduleHandler) GenerateDraft(c *gin.Context) {
	var req generateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	weekStart, err := time.Parse(models.DateLayout, req.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "week_start must use the YYYY-MM-DD format"})
		return
	}

	mode := oracle.Mode(req.Mode)
	if req.Mode == "" {
		mode = oracle.ModeFull
	}

	draft, err := h.drafts.GenerateDraft(c.Request.Context(), weekStart, mode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// GetDraft returns the active draft
// GET /api/v1/schedule/draft
func (h *ScheduleHandler) GetDraft(c *gin.Context) {
	draft, err := h.drafts.GetDraft()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// PreviewCoverage evaluates coverage for the draft week as it would look
// after an apply. ?clear_existing=true previews the draft alone, the way
// a clearing apply would leave the week.
// GET /api/v1/schedule/draft/coverage
func (h *ScheduleHandler) PreviewCoverage(c *gin.Context) {
	clearExisting := c.Query("clear_existing") == "true"
	cells, err := h.drafts.PreviewCoverage(clearExisting)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cells": cells})
}

// ApplyDraft commits the active draft to the schedule. Shifts that fail
// re-validation are skipped and reported; the rest commit.
// POST /api/v1/schedule/draft/apply
func (h *ScheduleHandler) ApplyDraft(c *gin.Context) {
	var req applyDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	applied, rejected, err := h.drafts.Apply(req.ClearExisting)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applied":  applied,
		"rejected": rejected,
	})
}

// DiscardDraft drops the active draft
// DELETE /api/v1/schedule/draft
func (h *ScheduleHandler) DiscardDraft(c *gin.Context) {
	if err := h.drafts.Discard(); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draft discarded"})
}

// Undo restores the schedule state before the most recent mutation
// POST /api/v1/schedule/undo
func (h *ScheduleHandler) Undo(c *gin.Context) {
	shifts, err := h.schedule.Undo()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if shifts == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to undo", "restored": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true, "shifts": shifts})
}

// Redo reapplies the most recently undone mutation
// POST /api/v1/schedule/redo
func (h *ScheduleHandler) Redo(c *gin.Context) {
	shifts, err := h.schedule.Redo()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if shifts == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to redo", "restored": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true, "shifts": shifts})
}
