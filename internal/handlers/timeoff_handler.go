package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
	"github.com/medoffice/shift-scheduler-backend/internal/services"
)

type TimeOffHandler struct {
	timeOff *services.TimeOffService
}

func NewTimeOffHandler(timeOff *services.TimeOffService) *TimeOffHandler {
	return &TimeOffHandler{timeOff: timeOff}
}

type timeOffRequest struct {
	StaffID   string  `json:"staff_id" binding:"required"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
	Reason    *string `json:"reason"`
}

type timeOffDecision struct {
	Status string `json:"status" binding:"required"`
}

// List returns all time-off requests
// GET /api/v1/time-off
func (h *TimeOffHandler) List(c *gin.Context) {
	requests, err := h.timeOff.List()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Submit records a new pending time-off request
// POST /api/v1/time-off
func (h *TimeOffHandler) Submit(c *gin.Context) {
	var req timeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	startDate, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "start_date must use the YYYY-MM-DD format"})
		return
	}
	endDate, err := time.Parse(models.DateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "end_date must use the YYYY-MM-DD format"})
		return
	}

	request, err := h.timeOff.Submit(req.StaffID, startDate, endDate, req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// Decide approves or denies a pending request
// PUT /api/v1/time-off/:id/status
func (h *TimeOffHandler) Decide(c *gin.Context) {
	var req timeOffDecision
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	request, err := h.timeOff.Decide(c.Param("id"), models.TimeOffStatus(req.Status))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
