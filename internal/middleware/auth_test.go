package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/models"
)

func ctxWithUser(role string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		c.Set("user", models.User{ID: "u1", Role: role})
	}
	return c, w
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		role    string
		allowed []string
		want    int
	}{
		{authz.RoleAdmin, []string{authz.RoleAdmin}, http.StatusOK},
		{authz.RoleStaff, []string{authz.RoleAdmin}, http.StatusForbidden},
		// No implicit superadmin override.
		{authz.RoleSuperAdmin, []string{authz.RoleAdmin}, http.StatusForbidden},
		{authz.RoleSuperAdmin, []string{authz.RoleAdmin, authz.RoleSuperAdmin}, http.StatusOK},
		{authz.RoleStudent, []string{authz.RoleStudent}, http.StatusOK},
	}
	for _, tc := range cases {
		c, w := ctxWithUser(tc.role)
		called := false
		RequireRoles(tc.allowed...)(c)
		if !c.IsAborted() {
			called = true
		}
		if tc.want == http.StatusOK && !called {
			t.Fatalf("role %s against %v: expected pass, got %d", tc.role, tc.allowed, w.Code)
		}
		if tc.want != http.StatusOK && (called || w.Code != tc.want) {
			t.Fatalf("role %s against %v: expected %d, got %d (aborted=%v)", tc.role, tc.allowed, tc.want, w.Code, c.IsAborted())
		}
	}
}

func TestRequireRolesMissingUser(t *testing.T) {
	c, w := ctxWithUser("")
	RequireRoles(authz.RoleAdmin)(c)
	if !c.IsAborted() || w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth context, got %d", w.Code)
	}
}

func TestRequireCapability(t *testing.T) {
	cases := []struct {
		role   string
		action authz.Action
		pass   bool
	}{
		{authz.RoleStudent, authz.ActionSubmit, true},
		{authz.RoleStudent, authz.ActionGrade, false},
		{authz.RoleStaff, authz.ActionGrade, true},
		{authz.RolePendingStaff, authz.ActionGrade, false},
		{authz.RoleSuperAdmin, authz.ActionPurgeLoginHistory, true},
		{authz.RoleAdmin, authz.ActionPurgeLoginHistory, false},
	}
	for _, tc := range cases {
		c, w := ctxWithUser(tc.role)
		RequireCapability(tc.action)(c)
		if tc.pass && c.IsAborted() {
			t.Fatalf("%s doing %s: expected pass, got %d", tc.role, tc.action, w.Code)
		}
		if !tc.pass && !c.IsAborted() {
			t.Fatalf("%s doing %s: expected forbidden", tc.role, tc.action)
		}
	}
}
