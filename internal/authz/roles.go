package authz

// Roles. pending_staff and declined are holding states assigned during
// staff signup review; they carry no capabilities until resolved.
const (
	RoleSuperAdmin   = "superadmin"
	RoleAdmin        = "admin"
	RoleStaff        = "staff"
	RolePendingStaff = "pending_staff"
	RoleStudent      = "student"
	RoleDeclined     = "declined"
)

// Action names a coarse capability checked before any resource-level rule.
type Action string

const (
	ActionManageCourses     Action = "courses:manage"      // create/update/delete courses and tasks
	ActionListAllCourses    Action = "courses:list_all"    // unscoped course listing
	ActionManageEnrollments Action = "enrollments:manage"  // add/remove students, approve requests
	ActionAssignStaff       Action = "staff:assign"        // bind staff to courses
	ActionReviewStaff       Action = "staff:review"        // approve/decline pending staff
	ActionManageQuickTasks  Action = "quicktasks:manage"   // create/delete/assign quick tasks
	ActionGrade             Action = "submissions:grade"   // grade submissions
	ActionSubmit            Action = "submissions:submit"  // file submissions
	ActionJoinCourse        Action = "courses:join"        // join by code / request enrollment
	ActionListStaff         Action = "directory:staff"     // staff directory
	ActionListStudents      Action = "directory:students"  // student directory
	ActionReadAuditLog      Action = "audit:read"          // audit log listing
	ActionPurgeLoginHistory Action = "audit:purge_logins"  // the only sanctioned delete
)

// capabilities is the single source of truth for role gating; resource
// ownership rules (creator, assignment, enrollment) are layered on top in
// course.go.
var capabilities = map[Action][]string{
	ActionManageCourses:     {RoleSuperAdmin, RoleAdmin, RoleStaff},
	ActionListAllCourses:    {RoleSuperAdmin, RoleAdmin},
	ActionManageEnrollments: {RoleSuperAdmin, RoleAdmin, RoleStaff},
	ActionAssignStaff:       {RoleSuperAdmin, RoleAdmin},
	ActionReviewStaff:       {RoleSuperAdmin},
	ActionManageQuickTasks:  {RoleSuperAdmin, RoleAdmin, RoleStaff},
	ActionGrade:             {RoleSuperAdmin, RoleAdmin, RoleStaff},
	ActionSubmit:            {RoleStudent},
	ActionJoinCourse:        {RoleStudent},
	ActionListStaff:         {RoleSuperAdmin, RoleAdmin},
	ActionListStudents:      {RoleSuperAdmin, RoleAdmin, RoleStaff},
	ActionReadAuditLog:      {RoleSuperAdmin, RoleAdmin},
	ActionPurgeLoginHistory: {RoleSuperAdmin},
}

// Can reports whether a role holds a capability.
func Can(role string, action Action) bool {
	for _, r := range capabilities[action] {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole is the base predicate behind every role gate.
func HasAnyRole(role string, allowed ...string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
