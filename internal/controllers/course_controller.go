package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/database"
	"github.com/campuspoint/lms_backend/internal/models"
	"github.com/campuspoint/lms_backend/internal/utils"
)

type CourseController struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

// fetchCourse loads a course or writes a 404.
func fetchCourse(c *gin.Context, db *gorm.DB, id string) (models.Course, bool) {
	var course models.Course
	if err := db.Where("id = ?", strings.TrimSpace(id)).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return course, false
	}
	return course, true
}

// List returns the courses visible to the caller: everything for admin
// tiers, created-or-assigned for staff, active enrollments for students.
func (cc *CourseController) List(c *gin.Context) {
	user := currentUser(c)

	q := cc.DB.Model(&models.Course{}).Order("created_at DESC")
	switch user.Role {
	case authz.RoleSuperAdmin, authz.RoleAdmin:
		// unscoped
	case authz.RoleStaff:
		q = q.Where(
			"created_by = ? OR id IN (?)",
			user.ID,
			cc.DB.Model(&models.StaffAssignment{}).Select("course_id").Where("staff_id = ?", user.ID),
		)
	case authz.RoleStudent:
		q = q.Where(
			"id IN (?)",
			cc.DB.Model(&models.Enrollment{}).Select("course_id").
				Where("student_id = ? AND status = ?", user.ID, models.EnrollmentActive),
		)
	default:
		c.JSON(http.StatusOK, []models.Course{})
		return
	}

	var courses []models.Course
	if err := q.Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}

type courseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

func (cc *CourseController) Create(c *gin.Context) {
	user := currentUser(c)

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		generated, err := utils.GenerateCode(6)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate join code"})
			return
		}
		code = generated
	}

	course := models.Course{
		Title:       req.Title,
		Description: req.Description,
		Code:        code,
		CreatedBy:   user.ID,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "join code already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cc.Audit.Record(user.ID, "course_created", "course", course.ID, map[string]any{"title": course.Title})
	c.JSON(http.StatusCreated, course)
}

func (cc *CourseController) Update(c *gin.Context) {
	user := currentUser(c)
	course, ok := fetchCourse(c, cc.DB, c.Param("id"))
	if !ok {
		return
	}
	if !authz.CanModifyCourse(user, course) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the course creator or a superadmin may modify this course"})
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{
		"title":       req.Title,
		"description": req.Description,
	}
	if code := strings.ToUpper(strings.TrimSpace(req.Code)); code != "" {
		updates["code"] = code
	}
	if err := cc.DB.Model(&course).Updates(updates).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "join code already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cc.Audit.Record(user.ID, "course_updated", "course", course.ID, nil)
	c.JSON(http.StatusOK, course)
}

func (cc *CourseController) Delete(c *gin.Context) {
	user := currentUser(c)
	course, ok := fetchCourse(c, cc.DB, c.Param("id"))
	if !ok {
		return
	}
	if !authz.CanModifyCourse(user, course) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the course creator or a superadmin may delete this course"})
		return
	}

	if err := cc.DB.Delete(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cc.Audit.Record(user.ID, "course_deleted", "course", course.ID, map[string]any{"title": course.Title})
	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}

type joinRequest struct {
	Code string `json:"code" binding:"required"`
}

// Join enrolls the calling student via join code. The enrollment insert
// relies on the unique (course, student) index: concurrent double joins
// surface as a 23505, not a duplicate row.
func (cc *CourseController) Join(c *gin.Context) {
	user := currentUser(c)

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var course models.Course
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if err := cc.DB.Where("code = ?", code).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	enrollment := models.Enrollment{
		CourseID:   course.ID,
		StudentID:  user.ID,
		Status:     models.EnrollmentActive,
		EnrolledAt: timeNow(),
	}
	if err := cc.DB.Create(&enrollment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "already enrolled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cc.Audit.Record(user.ID, "course_enrolled", "course", course.ID, map[string]any{"code": code})
	c.JSON(http.StatusOK, enrollment)
}
