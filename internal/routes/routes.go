package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/config"
	"github.com/campuspoint/lms_backend/internal/controllers"
	"github.com/campuspoint/lms_backend/internal/mailer"
	"github.com/campuspoint/lms_backend/internal/middleware"
	"github.com/campuspoint/lms_backend/internal/storage"
	"github.com/campuspoint/lms_backend/internal/ws"
)

// Deps carries the long-lived services controllers hang off.
type Deps struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Mail    *mailer.Queue
	Audit   *audit.Recorder
	Storage storage.ObjectStorage
	Hub     *ws.NotificationHub
}

func Register(r *gin.Engine, d Deps) {
	// Controllers
	authCtrl := &controllers.AuthController{
		DB:                  d.DB,
		AccessSecret:        d.Cfg.JWTSecret,
		RefreshSecret:       d.Cfg.RefreshJWTSecret,
		AccessTTL:           d.Cfg.AccessTokenTTL,
		RefreshTTL:          d.Cfg.RefreshTokenTTL,
		SuperAdminSignupKey: d.Cfg.SuperAdminSignupKey,
		Mail:                d.Mail,
		Audit:               d.Audit,
		FrontendURL:         d.Cfg.FrontendURL,
	}
	adminCtrl := &controllers.AdminController{DB: d.DB, Mail: d.Mail, Audit: d.Audit, FrontendURL: d.Cfg.FrontendURL}
	courseCtrl := &controllers.CourseController{DB: d.DB, Audit: d.Audit}
	enrollCtrl := &controllers.EnrollmentController{DB: d.DB, Audit: d.Audit}
	taskCtrl := &controllers.TaskController{DB: d.DB, Mail: d.Mail, Audit: d.Audit}
	subCtrl := &controllers.SubmissionController{DB: d.DB, Storage: d.Storage, Mail: d.Mail, Audit: d.Audit, Hub: d.Hub}
	unlockCtrl := &controllers.UnlockController{DB: d.DB, Submissions: subCtrl, Mail: d.Mail, Audit: d.Audit, Hub: d.Hub}
	quickCtrl := &controllers.QuickTaskController{DB: d.DB, Audit: d.Audit, Hub: d.Hub}
	boardCtrl := &controllers.LeaderboardController{DB: d.DB}
	auditCtrl := &controllers.AuditController{DB: d.DB}

	// Public
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/signup/student", authCtrl.SignupStudent)
		auth.POST("/signup/staff", authCtrl.SignupStaff)
		auth.POST("/signup/superadmin", authCtrl.SignupSuperAdmin)
		auth.POST("/login", authCtrl.Login)
		auth.POST("/refresh", authCtrl.Refresh)
	}

	// Protected
	authMW := middleware.AuthMiddleware(d.DB, middleware.AuthConfig{
		JWTSecret:    d.Cfg.JWTSecret,
		JWTExpiresIn: d.Cfg.AccessTokenTTL,
	})
	api := r.Group("/api/v1", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)
		api.PUT("/auth/me", authCtrl.UpdateProfile)
		api.POST("/auth/logout", authCtrl.Logout)

		api.GET("/ws/notifications", ws.Handler(d.Hub))

		// Courses
		api.GET("/courses", courseCtrl.List)
		api.POST("/courses", middleware.RequireCapability(authz.ActionManageCourses), courseCtrl.Create)
		api.PUT("/courses/:id", middleware.RequireCapability(authz.ActionManageCourses), courseCtrl.Update)
		api.DELETE("/courses/:id", middleware.RequireCapability(authz.ActionManageCourses), courseCtrl.Delete)
		api.POST("/courses/join", middleware.RequireCapability(authz.ActionJoinCourse), courseCtrl.Join)
		api.POST("/courses/:id/request-join", middleware.RequireCapability(authz.ActionJoinCourse), enrollCtrl.Request)

		// Rosters
		api.GET("/courses/:id/students", enrollCtrl.ListForCourse)
		api.PUT("/courses/:id/students/:studentId/approve",
			middleware.RequireCapability(authz.ActionManageEnrollments), enrollCtrl.Approve)
		api.POST("/courses/:id/students/:studentId",
			middleware.RequireCapability(authz.ActionManageEnrollments), enrollCtrl.AddStudent)
		api.DELETE("/courses/:id/students/:studentId",
			middleware.RequireCapability(authz.ActionManageEnrollments), enrollCtrl.RemoveStudent)
		api.POST("/courses/:id/staff/:staffId",
			middleware.RequireCapability(authz.ActionAssignStaff), enrollCtrl.AssignStaff)

		// Tasks
		api.GET("/courses/:id/tasks", taskCtrl.ListForCourse)
		api.POST("/courses/:id/tasks", middleware.RequireCapability(authz.ActionManageCourses), taskCtrl.Create)
		api.PUT("/tasks/:id", middleware.RequireCapability(authz.ActionManageCourses), taskCtrl.Update)
		api.DELETE("/tasks/:id", middleware.RequireCapability(authz.ActionManageCourses), taskCtrl.Delete)

		// Submissions
		api.GET("/tasks/:id/submissions", subCtrl.ListForTask)
		api.POST("/tasks/:id/submissions", middleware.RequireCapability(authz.ActionSubmit), subCtrl.Submit)
		api.PUT("/submissions/:id/grade", middleware.RequireCapability(authz.ActionGrade), subCtrl.Grade)

		// Deadline unlocks
		api.POST("/tasks/:id/unlock-requests", middleware.RequireCapability(authz.ActionSubmit), unlockCtrl.RequestUnlock)
		api.GET("/tasks/:id/unlock-status", middleware.RequireCapability(authz.ActionSubmit), unlockCtrl.UnlockStatus)
		api.GET("/unlock-requests", middleware.RequireCapability(authz.ActionGrade), unlockCtrl.ListRequests)
		api.PUT("/unlock-requests/:id", middleware.RequireCapability(authz.ActionGrade), unlockCtrl.Review)

		// Quick tasks
		api.GET("/quick-tasks", quickCtrl.List)
		quick := api.Group("/quick-tasks", middleware.RequireCapability(authz.ActionManageQuickTasks))
		{
			quick.POST("", quickCtrl.Create)
			quick.DELETE("/:id", quickCtrl.Delete)
			quick.POST("/:id/assign", quickCtrl.Assign)
			quick.POST("/:id/unassign", quickCtrl.Unassign)
		}

		// Leaderboard
		api.GET("/leaderboard", boardCtrl.Get)

		// Directory and staff approval
		admin := api.Group("/admin")
		{
			admin.GET("/staff/pending", middleware.RequireCapability(authz.ActionReviewStaff), adminCtrl.ListPendingStaff)
			admin.PUT("/staff/:id/approve", middleware.RequireCapability(authz.ActionReviewStaff), adminCtrl.ApproveStaff)
			admin.PUT("/staff/:id/decline", middleware.RequireCapability(authz.ActionReviewStaff), adminCtrl.DeclineStaff)
			admin.GET("/staff", middleware.RequireCapability(authz.ActionListStaff), adminCtrl.ListStaff)
			admin.GET("/students", middleware.RequireCapability(authz.ActionListStudents), adminCtrl.ListStudents)
			admin.GET("/audit-logs", middleware.RequireCapability(authz.ActionReadAuditLog), auditCtrl.List)
			admin.DELETE("/login-history", middleware.RequireCapability(authz.ActionPurgeLoginHistory), adminCtrl.PurgeLoginHistory)
		}
	}
}
