package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/database"
	"github.com/campuspoint/lms_backend/internal/models"
)

// EnrollmentController covers enrollment requests/approval, direct
// roster management by course staff, and staff-to-course assignment.
type EnrollmentController struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

// requireCourseAccess loads the course and checks CanAccessCourse,
// writing the error response itself on failure.
func (ec *EnrollmentController) requireCourseAccess(c *gin.Context, user models.User, courseID string) (models.Course, bool) {
	course, ok := fetchCourse(c, ec.DB, courseID)
	if !ok {
		return course, false
	}
	allowed, err := authz.CanAccessCourse(ec.DB, user, course)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return course, false
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have access to this course"})
		return course, false
	}
	return course, true
}

// Request files a pending enrollment, distinct from code join.
func (ec *EnrollmentController) Request(c *gin.Context) {
	user := currentUser(c)
	course, ok := fetchCourse(c, ec.DB, c.Param("id"))
	if !ok {
		return
	}

	// Advisory pre-check for a friendlier message; the unique index is
	// the actual guard.
	var existing models.Enrollment
	err := ec.DB.Where("course_id = ? AND student_id = ?", course.ID, user.ID).First(&existing).Error
	if code, msg, proceed := enrollmentRequestGate(existing, err); !proceed {
		c.JSON(code, gin.H{"error": msg})
		return
	}

	enrollment := models.Enrollment{
		CourseID:   course.ID,
		StudentID:  user.ID,
		Status:     models.EnrollmentPending,
		EnrolledAt: timeNow(),
	}
	if err := ec.DB.Create(&enrollment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "already enrolled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ec.Audit.Record(user.ID, "enrollment_requested", "course", course.ID, nil)
	c.JSON(http.StatusCreated, enrollment)
}

// enrollmentRequestGate maps the advisory lookup outcome to a reply: an
// existing row is a conflict, a clean miss proceeds to the insert, and
// any other lookup error is a store failure, not permission to insert.
func enrollmentRequestGate(existing models.Enrollment, err error) (code int, msg string, proceed bool) {
	switch {
	case err == nil:
		if existing.Status == models.EnrollmentPending {
			return http.StatusBadRequest, "join request already pending", false
		}
		return http.StatusBadRequest, "already enrolled", false
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, "", true
	default:
		return http.StatusInternalServerError, err.Error(), false
	}
}

// Approve activates a pending enrollment.
func (ec *EnrollmentController) Approve(c *gin.Context) {
	user := currentUser(c)
	course, ok := ec.requireCourseAccess(c, user, c.Param("id"))
	if !ok {
		return
	}

	studentID := strings.TrimSpace(c.Param("studentId"))
	var enrollment models.Enrollment
	if err := ec.DB.Where("course_id = ? AND student_id = ?", course.ID, studentID).
		First(&enrollment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "enrollment not found"})
		return
	}
	if enrollment.Status != models.EnrollmentPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enrollment is not pending"})
		return
	}

	if err := ec.DB.Model(&enrollment).Update("status", models.EnrollmentActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ec.Audit.Record(user.ID, "enrollment_approved", "course_enrollment", enrollment.ID, map[string]any{
		"course_id":  course.ID,
		"student_id": studentID,
	})
	enrollment.Status = models.EnrollmentActive
	c.JSON(http.StatusOK, enrollment)
}

type enrollmentRow struct {
	models.Profile
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// ListForCourse returns the course roster with student identity joined.
func (ec *EnrollmentController) ListForCourse(c *gin.Context) {
	user := currentUser(c)
	course, ok := ec.requireCourseAccess(c, user, c.Param("id"))
	if !ok {
		return
	}

	var enrollments []models.Enrollment
	if err := ec.DB.Where("course_id = ?", course.ID).Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.StudentID)
	}
	students := map[string]models.User{}
	if len(ids) > 0 {
		var users []models.User
		if err := ec.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for _, u := range users {
			students[u.ID] = u
		}
	}

	out := make([]enrollmentRow, 0, len(enrollments))
	for _, e := range enrollments {
		row := enrollmentRow{
			Status:     e.Status,
			EnrolledAt: e.EnrolledAt,
		}
		if u, ok := students[e.StudentID]; ok {
			row.Profile = u.Profile()
		} else {
			row.Profile = models.Profile{ID: e.StudentID}
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, out)
}

// AddStudent enrolls a student directly, bypassing code join.
func (ec *EnrollmentController) AddStudent(c *gin.Context) {
	user := currentUser(c)
	course, ok := ec.requireCourseAccess(c, user, c.Param("id"))
	if !ok {
		return
	}

	studentID := strings.TrimSpace(c.Param("studentId"))
	var student models.User
	if err := ec.DB.Where("id = ?", studentID).First(&student).Error; err != nil ||
		student.Role != authz.RoleStudent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	enrollment := models.Enrollment{
		CourseID:   course.ID,
		StudentID:  student.ID,
		Status:     models.EnrollmentActive,
		EnrolledAt: timeNow(),
	}
	if err := ec.DB.Create(&enrollment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "student already enrolled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ec.Audit.Record(user.ID, "student_added_to_course", "course_enrollment", enrollment.ID, map[string]any{
		"course_id":  course.ID,
		"student_id": student.ID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "student added to course", "enrollment": enrollment})
}

func (ec *EnrollmentController) RemoveStudent(c *gin.Context) {
	user := currentUser(c)
	course, ok := ec.requireCourseAccess(c, user, c.Param("id"))
	if !ok {
		return
	}

	studentID := strings.TrimSpace(c.Param("studentId"))
	if err := ec.DB.Where("course_id = ? AND student_id = ?", course.ID, studentID).
		Delete(&models.Enrollment{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ec.Audit.Record(user.ID, "student_removed_from_course", "course_enrollment", "", map[string]any{
		"course_id":  course.ID,
		"student_id": studentID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "student removed from course"})
}

// AssignStaff binds a staff member to a course, granting creator-level
// access. Admin and superadmin only (route-gated).
func (ec *EnrollmentController) AssignStaff(c *gin.Context) {
	user := currentUser(c)
	course, ok := fetchCourse(c, ec.DB, c.Param("id"))
	if !ok {
		return
	}

	staffID := strings.TrimSpace(c.Param("staffId"))
	var staff models.User
	if err := ec.DB.Where("id = ?", staffID).First(&staff).Error; err != nil ||
		staff.Role != authz.RoleStaff {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}

	assignment := models.StaffAssignment{CourseID: course.ID, StaffID: staff.ID}
	if err := ec.DB.Create(&assignment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "staff already assigned to course"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ec.Audit.Record(user.ID, "staff_assigned_to_course", "course_staff_assignment", assignment.ID, map[string]any{
		"course_id": course.ID,
		"staff_id":  staff.ID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "staff assigned to course", "assignment": assignment})
}
