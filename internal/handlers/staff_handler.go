package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
	"github.com/medoffice/shift-scheduler-backend/internal/services"
)

type StaffHandler struct {
	staff services.StaffStore
}

func NewStaffHandler(staff services.StaffStore) *StaffHandler {
	return &StaffHandler{staff: staff}
}

type staffRequest struct {
	Name            string   `json:"name" binding:"required"`
	Role            string   `json:"role" binding:"required"`
	ShiftLength     int      `json:"shift_length" binding:"required"`
	DaysPerWeek     int      `json:"days_per_week" binding:"required"`
	StartTime       *string  `json:"start_time"`
	IsPerDiem       bool     `json:"is_per_diem"`
	AllowedAreas    []string `json:"allowed_areas"`
	RequiredDaysOff []string `json:"required_days_off"`
	FlexibleDaysOff []string `json:"flexible_days_off"`
	IsActive        *bool    `json:"is_active"`
}

func (r *staffRequest) toModel() *models.Staff {
	staff := &models.Staff{
		Name:            r.Name,
		Role:            models.StaffRole(r.Role),
		ShiftLength:     r.ShiftLength,
		DaysPerWeek:     r.DaysPerWeek,
		StartTime:       r.StartTime,
		IsPerDiem:       r.IsPerDiem,
		AllowedAreas:    r.AllowedAreas,
		RequiredDaysOff: r.RequiredDaysOff,
		FlexibleDaysOff: r.FlexibleDaysOff,
		IsActive:        true,
	}
	if r.IsActive != nil {
		staff.IsActive = *r.IsActive
	}
	return staff
}

// List returns all staff members
// GET /api/v1/staff
func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.staff.List()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// Get returns one staff member
// GET /api/v1/staff/:id
func (h *StaffHandler) Get(c *gin.Context) {
	staff, err := h.staff.GetByID(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// Create adds a new staff member
// POST /api/v1/staff
func (h *StaffHandler) Create(c *gin.Context) {
	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	if !models.StaffRole(req.Role).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "role must be one of RN, GI_Tech, Scope_Tech"})
		return
	}

	staff := req.toModel()
	if err := h.staff.Create(staff); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// Update replaces a staff member's details
// PUT /api/v1/staff/:id
func (h *StaffHandler) Update(c *gin.Context) {
	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	if !models.StaffRole(req.Role).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "role must be one of RN, GI_Tech, Scope_Tech"})
		return
	}

	staff := req.toModel()
	staff.ID = c.Param("id")
	if err := h.staff.Update(staff); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// Delete removes a staff member
// DELETE /api/v1/staff/:id
func (h *StaffHandler) Delete(c *gin.Context) {
	if err := h.staff.Delete(c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted"})
}
