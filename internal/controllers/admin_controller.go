package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/mailer"
	"github.com/campuspoint/lms_backend/internal/models"
)

// AdminController covers staff approval, the user directory and login
// history maintenance.
type AdminController struct {
	DB          *gorm.DB
	Mail        *mailer.Queue
	Audit       *audit.Recorder
	FrontendURL string
}

func (ac *AdminController) ListPendingStaff(c *gin.Context) {
	var pending []models.User
	if err := ac.DB.Where("role = ?", authz.RolePendingStaff).
		Order("created_at DESC").Find(&pending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]models.Profile, 0, len(pending))
	for _, u := range pending {
		out = append(out, u.Profile())
	}
	c.JSON(http.StatusOK, out)
}

func (ac *AdminController) ApproveStaff(c *gin.Context) {
	reviewer := currentUser(c)
	id := c.Param("id")

	var user models.User
	if err := ac.DB.Where("id = ?", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "staff profile not found"})
		return
	}
	if user.Role != authz.RolePendingStaff {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is not pending approval"})
		return
	}

	if err := ac.DB.Model(&user).Update("role", authz.RoleStaff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ac.Mail.Enqueue([]string{user.Email}, "Staff Account Approved", fmt.Sprintf(
		"<p>Your staff account has been approved!</p><p>You can now log in at %s/login</p>", ac.FrontendURL))
	ac.Audit.Record(reviewer.ID, "staff_approved", "user", user.ID, map[string]any{"staff_email": user.Email})

	user.Role = authz.RoleStaff
	c.JSON(http.StatusOK, gin.H{"message": "staff approved", "profile": user.Profile()})
}

type declineStaffRequest struct {
	Reason string `json:"reason"`
}

func (ac *AdminController) DeclineStaff(c *gin.Context) {
	reviewer := currentUser(c)
	id := c.Param("id")

	var req declineStaffRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	var user models.User
	if err := ac.DB.Where("id = ?", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "staff profile not found"})
		return
	}
	if user.Role != authz.RolePendingStaff {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is not pending approval"})
		return
	}

	if err := ac.DB.Model(&user).Update("role", authz.RoleDeclined).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body := "<p>Your staff account request has been declined.</p>"
	if req.Reason != "" {
		body += fmt.Sprintf("<p>Reason: %s</p>", req.Reason)
	}
	ac.Mail.Enqueue([]string{user.Email}, "Staff Account Request Declined", body)
	ac.Audit.Record(reviewer.ID, "staff_declined", "user", user.ID, map[string]any{
		"staff_email": user.Email,
		"reason":      req.Reason,
	})

	c.JSON(http.StatusOK, gin.H{"message": "staff request declined"})
}

func (ac *AdminController) ListStaff(c *gin.Context) {
	var staff []models.User
	if err := ac.DB.Where("role IN ?", []string{authz.RoleStaff, authz.RoleAdmin, authz.RoleSuperAdmin}).
		Order("created_at DESC").Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]models.Profile, 0, len(staff))
	for _, u := range staff {
		out = append(out, u.Profile())
	}
	c.JSON(http.StatusOK, out)
}

func (ac *AdminController) ListStudents(c *gin.Context) {
	var students []models.User
	if err := ac.DB.Where("role = ?", authz.RoleStudent).
		Order("created_at DESC").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]models.Profile, 0, len(students))
	for _, u := range students {
		out = append(out, u.Profile())
	}
	c.JSON(http.StatusOK, out)
}

// PurgeLoginHistory is the only sanctioned delete on audit data.
func (ac *AdminController) PurgeLoginHistory(c *gin.Context) {
	actor := currentUser(c)

	res := ac.DB.Where("1 = 1").Delete(&models.LoginHistory{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}

	ac.Audit.Record(actor.ID, "login_history_purged", "login_history", "", map[string]any{
		"rows": res.RowsAffected,
	})
	c.JSON(http.StatusOK, gin.H{"message": "login history purged", "rows": res.RowsAffected})
}
