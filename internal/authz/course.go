package authz

import (
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/models"
)

// CanModifyCourse: course creator, or superadmin override.
func CanModifyCourse(user models.User, course models.Course) bool {
	if user.Role == RoleSuperAdmin {
		return true
	}
	return course.CreatedBy == user.ID
}

// CanAccessCourse decides read/management visibility of one course.
// Admin tiers see everything; staff must have created or be assigned to
// the course; students need an active enrollment.
func CanAccessCourse(db *gorm.DB, user models.User, course models.Course) (bool, error) {
	switch user.Role {
	case RoleSuperAdmin, RoleAdmin:
		return true, nil
	case RoleStaff:
		if course.CreatedBy == user.ID {
			return true, nil
		}
		var count int64
		err := db.Model(&models.StaffAssignment{}).
			Where("course_id = ? AND staff_id = ?", course.ID, user.ID).
			Count(&count).Error
		return count > 0, err
	case RoleStudent:
		var count int64
		err := db.Model(&models.Enrollment{}).
			Where("course_id = ? AND student_id = ? AND status = ?", course.ID, user.ID, models.EnrollmentActive).
			Count(&count).Error
		return count > 0, err
	default:
		return false, nil
	}
}

// CanReviewUnlockRequests: the course creator, holding a grading role.
// Superadmins may also review; they override ownership everywhere else
// and carving out this one action would be inconsistent.
func CanReviewUnlockRequests(user models.User, course models.Course) bool {
	if user.Role == RoleSuperAdmin {
		return true
	}
	if !HasAnyRole(user.Role, RoleAdmin, RoleStaff) {
		return false
	}
	return course.CreatedBy == user.ID
}
