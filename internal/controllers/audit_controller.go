package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/models"
)

type AuditController struct {
	DB *gorm.DB
}

// List returns the newest audit entries, capped by ?limit= (default 100,
// max 500).
func (ac *AuditController) List(c *gin.Context) {
	limit := queryLimit(c, 100, 500)

	var logs []models.AuditLog
	if err := ac.DB.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}
