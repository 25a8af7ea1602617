package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
	"github.com/medoffice/shift-scheduler-backend/internal/services"
)

type CoverageHandler struct {
	coverage *services.CoverageService
}

func NewCoverageHandler(coverage *services.CoverageService) *CoverageHandler {
	return &CoverageHandler{coverage: coverage}
}

type coverageBatchRequest struct {
	AreaIDs []string `json:"area_ids" binding:"required"`
	Dates   []string `json:"dates" binding:"required"`
}

// Get evaluates coverage for one area on one date
// GET /api/v1/areas/:id/coverage?date=YYYY-MM-DD
func (h *CoverageHandler) Get(c *gin.Context) {
	dateParam := c.Query("date")
	if dateParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "date query parameter is required"})
		return
	}
	date, err := time.Parse(models.DateLayout, dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "date must use the YYYY-MM-DD format"})
		return
	}

	verdict, err := h.coverage.GetCoverage(c.Param("id"), date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// Batch evaluates coverage for every area/date pair in the grid
// POST /api/v1/coverage/batch
func (h *CoverageHandler) Batch(c *gin.Context) {
	var req coverageBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, raw := range req.Dates {
		date, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "dates must use the YYYY-MM-DD format"})
			return
		}
		dates = append(dates, date)
	}

	cells, err := h.coverage.GetCoverageBatch(req.AreaIDs, dates)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cells": cells})
}
