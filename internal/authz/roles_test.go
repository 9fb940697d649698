package authz

import (
	"testing"

	"github.com/campuspoint/lms_backend/internal/models"
)

func TestHoldingRolesHaveNoCapabilities(t *testing.T) {
	actions := []Action{
		ActionManageCourses, ActionListAllCourses, ActionManageEnrollments,
		ActionAssignStaff, ActionReviewStaff, ActionManageQuickTasks,
		ActionGrade, ActionSubmit, ActionJoinCourse, ActionListStaff,
		ActionListStudents, ActionReadAuditLog, ActionPurgeLoginHistory,
	}
	for _, role := range []string{RolePendingStaff, RoleDeclined} {
		for _, action := range actions {
			if Can(role, action) {
				t.Fatalf("role %s must not hold %s", role, action)
			}
		}
	}
}

func TestCapabilityTable(t *testing.T) {
	cases := []struct {
		role   string
		action Action
		want   bool
	}{
		{RoleSuperAdmin, ActionReviewStaff, true},
		{RoleAdmin, ActionReviewStaff, false},
		{RoleStaff, ActionManageCourses, true},
		{RoleStaff, ActionAssignStaff, false},
		{RoleStaff, ActionListStaff, false},
		{RoleStudent, ActionSubmit, true},
		{RoleStudent, ActionManageCourses, false},
		{RoleStudent, ActionJoinCourse, true},
		{RoleAdmin, ActionPurgeLoginHistory, false},
		{RoleSuperAdmin, ActionPurgeLoginHistory, true},
	}
	for _, tc := range cases {
		if got := Can(tc.role, tc.action); got != tc.want {
			t.Fatalf("Can(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestHasAnyRole(t *testing.T) {
	if !HasAnyRole(RoleStaff, RoleAdmin, RoleStaff) {
		t.Fatal("staff should match {admin, staff}")
	}
	if HasAnyRole(RoleStudent, RoleAdmin, RoleStaff) {
		t.Fatal("student should not match {admin, staff}")
	}
	if HasAnyRole(RoleStudent) {
		t.Fatal("empty set should match nothing")
	}
}

func TestCanModifyCourse(t *testing.T) {
	creator := models.User{ID: "u-creator", Role: RoleStaff}
	course := models.Course{ID: "c1", CreatedBy: creator.ID}

	if !CanModifyCourse(creator, course) {
		t.Fatal("creator must be able to modify own course")
	}
	if !CanModifyCourse(models.User{ID: "u-root", Role: RoleSuperAdmin}, course) {
		t.Fatal("superadmin must be able to modify any course")
	}
	for _, role := range []string{RoleAdmin, RoleStaff, RoleStudent} {
		other := models.User{ID: "u-other", Role: role}
		if CanModifyCourse(other, course) {
			t.Fatalf("non-creator %s must not modify the course", role)
		}
	}
}

func TestCanReviewUnlockRequests(t *testing.T) {
	course := models.Course{ID: "c1", CreatedBy: "u-creator"}

	cases := []struct {
		user models.User
		want bool
	}{
		{models.User{ID: "u-creator", Role: RoleStaff}, true},
		{models.User{ID: "u-creator", Role: RoleAdmin}, true},
		{models.User{ID: "u-other", Role: RoleStaff}, false},
		{models.User{ID: "u-other", Role: RoleAdmin}, false},
		{models.User{ID: "u-root", Role: RoleSuperAdmin}, true},
		{models.User{ID: "u-creator", Role: RoleStudent}, false},
	}
	for _, tc := range cases {
		if got := CanReviewUnlockRequests(tc.user, course); got != tc.want {
			t.Fatalf("CanReviewUnlockRequests(%s/%s) = %v, want %v", tc.user.ID, tc.user.Role, got, tc.want)
		}
	}
}
