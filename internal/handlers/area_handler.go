package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
	"github.com/medoffice/shift-scheduler-backend/internal/services"
)

type AreaHandler struct {
	areas services.AreaStore
}

func NewAreaHandler(areas services.AreaStore) *AreaHandler {
	return &AreaHandler{areas: areas}
}

type areaRequest struct {
	Name                   string  `json:"name" binding:"required"`
	RequiredRNCount        int     `json:"required_rn_count"`
	RequiredTechCount      int     `json:"required_tech_count"`
	RequiredScopeTechCount int     `json:"required_scope_tech_count"`
	SpecialRules           *string `json:"special_rules"`
}

func (r *areaRequest) toModel() *models.Area {
	return &models.Area{
		Name:                   r.Name,
		RequiredRNCount:        r.RequiredRNCount,
		RequiredTechCount:      r.RequiredTechCount,
		RequiredScopeTechCount: r.RequiredScopeTechCount,
		SpecialRules:           r.SpecialRules,
	}
}

// List returns all areas
// GET /api/v1/areas
func (h *AreaHandler) List(c *gin.Context) {
	areas, err := h.areas.List()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, areas)
}

// Get returns one area
// GET /api/v1/areas/:id
func (h *AreaHandler) Get(c *gin.Context) {
	area, err := h.areas.GetByID(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, area)
}

// Create adds a new area
// POST /api/v1/areas
func (h *AreaHandler) Create(c *gin.Context) {
	var req areaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	if req.RequiredRNCount < 0 || req.RequiredTechCount < 0 || req.RequiredScopeTechCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "required role counts cannot be negative"})
		return
	}

	area := req.toModel()
	if err := h.areas.Create(area); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, area)
}

// Update replaces an area's details
// PUT /api/v1/areas/:id
func (h *AreaHandler) Update(c *gin.Context) {
	var req areaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	if req.RequiredRNCount < 0 || req.RequiredTechCount < 0 || req.RequiredScopeTechCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "required role counts cannot be negative"})
		return
	}

	area := req.toModel()
	area.ID = c.Param("id")
	if err := h.areas.Update(area); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, area)
}

// Delete removes an area
// DELETE /api/v1/areas/:id
func (h *AreaHandler) Delete(c *gin.Context) {
	if err := h.areas.Delete(c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Area deleted"})
}
