package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
	"github.com/medoffice/shift-scheduler-backend/internal/services"
)

type ShiftHandler struct {
	schedule *services.ScheduleService
}

func NewShiftHandler(schedule *services.ScheduleService) *ShiftHandler {
	return &ShiftHandler{schedule: schedule}
}

type shiftRequest struct {
	StaffID            string `json:"staff_id" binding:"required"`
	AreaID             string `json:"area_id" binding:"required"`
	Date               string `json:"date" binding:"required"`
	StartTime          string `json:"start_time" binding:"required"`
	EndTime            string `json:"end_time" binding:"required"`
	OverrideValidation bool   `json:"override_validation"`
}

func (r *shiftRequest) toProposed() (services.ProposedShift, error) {
	date, err := time.Parse(models.DateLayout, r.Date)
	if err != nil {
		return services.ProposedShift{}, err
	}
	return services.ProposedShift{
		StaffID:   r.StaffID,
		AreaID:    r.AreaID,
		Date:      date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}, nil
}

// Create validates and commits a new shift. Rule violations can be
// overridden with override_validation; structural failures cannot.
// POST /api/v1/shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	proposed, err := req.toProposed()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "date must use the YYYY-MM-DD format"})
		return
	}

	shift, err := h.schedule.CreateShift(proposed, req.OverrideValidation)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// Update validates and commits changes to an existing shift
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) Update(c *gin.Context) {
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	proposed, err := req.toProposed()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "date must use the YYYY-MM-DD format"})
		return
	}

	shift, err := h.schedule.UpdateShift(c.Param("id"), proposed, req.OverrideValidation)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

// Delete removes a shift
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) Delete(c *gin.Context) {
	if err := h.schedule.DeleteShift(c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted"})
}

// ListWeek returns all shifts in the week containing week_start
// GET /api/v1/shifts?week_start=YYYY-MM-DD
func (h *ShiftHandler) ListWeek(c *gin.Context) {
	weekStart := c.Query("week_start")
	if weekStart == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "week_start query parameter is required"})
		return
	}
	date, err := time.Parse(models.DateLayout, weekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "week_start must use the YYYY-MM-DD format"})
		return
	}

	shifts, err := h.schedule.ListWeek(date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shifts)
}
