package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// writeServiceError maps service-layer errors onto HTTP responses. Rule
// violations carry the full reason list so the client can show every
// violated rule, not just the first.
func writeServiceError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": validationErr.Error(),
			"reasons": validationErr.Reasons,
		})
		return
	}

	var oracleErr *models.OracleError
	if errors.As(err, &oracleErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "generation_failed",
			"message": oracleErr.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Resource not found"})
	case errors.Is(err, models.ErrDraftActive):
		c.JSON(http.StatusConflict, gin.H{"error": "draft_active", "message": "A draft schedule already exists. Apply or discard it first."})
	case errors.Is(err, models.ErrNoDraft):
		c.JSON(http.StatusConflict, gin.H{"error": "no_draft", "message": "No draft schedule exists"})
	case errors.Is(err, models.ErrAlreadyDecided):
		c.JSON(http.StatusConflict, gin.H{"error": "already_decided", "message": "Request has already been decided"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Internal server error"})
	}
}
