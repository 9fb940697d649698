package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/database"
	"github.com/campuspoint/lms_backend/internal/mailer"
	"github.com/campuspoint/lms_backend/internal/middleware"
	"github.com/campuspoint/lms_backend/internal/models"
	"github.com/campuspoint/lms_backend/internal/utils"
)

type AuthController struct {
	DB            *gorm.DB
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// Secret gating the superadmin signup endpoint; empty disables it.
	SuperAdminSignupKey string
	Mail                *mailer.Queue
	Audit               *audit.Recorder
	FrontendURL         string
}

type studentSignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" binding:"required"`
	StudentID   string `json:"student_id" binding:"required"`
	Department  string `json:"department"`
}

// SignupStudent creates an immediately active student account.
func (a *AuthController) SignupStudent(c *gin.Context) {
	var req studentSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pw, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := models.User{
		Email:       req.Email,
		Password:    pw,
		DisplayName: req.DisplayName,
		Role:        authz.RoleStudent,
		Department:  req.Department,
		StudentID:   req.StudentID,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.Audit.Record(user.ID, "student_registered", "user", user.ID, nil)
	c.JSON(http.StatusCreated, gin.H{"user": user.Profile(), "message": "student account created"})
}

type staffSignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" binding:"required"`
	StaffID     string `json:"staff_id" binding:"required"`
	Department  string `json:"department"`
}

// SignupStaff files a pending_staff account awaiting superadmin review.
func (a *AuthController) SignupStaff(c *gin.Context) {
	var req staffSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pw, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := models.User{
		Email:       req.Email,
		Password:    pw,
		DisplayName: req.DisplayName,
		Role:        authz.RolePendingStaff,
		Department:  req.Department,
		StaffID:     req.StaffID,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Let superadmins know there is something to review.
	var reviewers []models.User
	if err := a.DB.Where("role = ?", authz.RoleSuperAdmin).Find(&reviewers).Error; err == nil && len(reviewers) > 0 {
		to := make([]string, 0, len(reviewers))
		for _, r := range reviewers {
			to = append(to, r.Email)
		}
		a.Mail.Enqueue(to, "New Staff Signup Request", fmt.Sprintf(
			"<p>A new staff member has requested access:</p><ul><li>Name: %s</li><li>Email: %s</li><li>Staff ID: %s</li><li>Department: %s</li></ul>",
			req.DisplayName, req.Email, req.StaffID, req.Department,
		))
	}

	a.Audit.Record(user.ID, "staff_signup_requested", "user", user.ID, nil)
	c.JSON(http.StatusCreated, gin.H{
		"user":    user.Profile(),
		"message": "staff signup request submitted, awaiting approval",
	})
}

type superAdminSignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" binding:"required"`
	Department  string `json:"department"`
	SignupKey   string `json:"signup_key" binding:"required"`
}

// SignupSuperAdmin is key-gated; normally superadmins are seeded at boot.
func (a *AuthController) SignupSuperAdmin(c *gin.Context) {
	var req superAdminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if a.SuperAdminSignupKey == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "superadmin creation not allowed via API"})
		return
	}
	if req.SignupKey != a.SuperAdminSignupKey {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid superadmin key"})
		return
	}

	pw, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := models.User{
		Email:       req.Email,
		Password:    pw,
		DisplayName: req.DisplayName,
		Role:        authz.RoleSuperAdmin,
		Department:  req.Department,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.Audit.Record(user.ID, "superadmin_registered", "user", user.ID, nil)
	c.JSON(http.StatusCreated, gin.H{"user": user.Profile(), "message": "superadmin account created"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := a.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	switch user.Role {
	case authz.RolePendingStaff:
		c.JSON(http.StatusForbidden, gin.H{"error": "account awaiting approval"})
		return
	case authz.RoleDeclined:
		c.JSON(http.StatusForbidden, gin.H{"error": "account request was declined"})
		return
	}

	access, refresh, err := a.issueTokens(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	history := models.LoginHistory{
		UserID:    user.ID,
		Email:     user.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if err := a.DB.Create(&history).Error; err != nil {
		// Best-effort; the login itself already succeeded.
		c.Error(err)
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":       access,
		"token_type":         "Bearer",
		"expires_in":         int(a.AccessTTL.Seconds()),
		"refresh_token":      refresh,
		"refresh_expires_in": int(a.RefreshTTL.Seconds()),
		"role":               user.Role,
	})
}

func (a *AuthController) issueTokens(user models.User) (access, refresh string, err error) {
	now := time.Now().UTC()

	acl := middleware.Claims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "lms_backend",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.AccessTTL)),
			Subject:   user.ID,
		},
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, acl).SignedString([]byte(a.AccessSecret))
	if err != nil {
		return
	}

	jti := uuid.NewString()
	rcl := jwt.RegisteredClaims{
		Issuer:    "lms_backend",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.RefreshTTL)),
		Subject:   user.ID,
		ID:        jti,
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, rcl).SignedString([]byte(a.RefreshSecret))
	if err != nil {
		return
	}

	rec := models.RefreshToken{
		TokenID:   jti,
		UserID:    user.ID,
		TokenHash: utils.SHA256Hex(refresh),
		ExpiresAt: now.Add(a.RefreshTTL),
	}
	err = a.DB.Create(&rec).Error
	return
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates the refresh token: the presented token is revoked and
// replaced alongside a fresh access token.
func (a *AuthController) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(a.RefreshSecret), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	var rec models.RefreshToken
	if err := a.DB.Where("token_id = ? AND token_hash = ?", claims.ID, utils.SHA256Hex(req.RefreshToken)).
		First(&rec).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown refresh token"})
		return
	}
	if rec.RevokedAt != nil || time.Now().After(rec.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired or revoked"})
		return
	}

	var user models.User
	if err := a.DB.Where("id = ?", rec.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	access, refresh, err := a.issueTokens(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	newClaims := &jwt.RegisteredClaims{}
	if _, perr := jwt.ParseWithClaims(refresh, newClaims, func(token *jwt.Token) (interface{}, error) {
		return []byte(a.RefreshSecret), nil
	}); perr == nil {
		a.DB.Model(&rec).Updates(map[string]any{
			"revoked_at":           &now,
			"replaced_by_token_id": newClaims.ID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":       access,
		"token_type":         "Bearer",
		"expires_in":         int(a.AccessTTL.Seconds()),
		"refresh_token":      refresh,
		"refresh_expires_in": int(a.RefreshTTL.Seconds()),
	})
}

// Logout revokes all live refresh tokens of the caller.
func (a *AuthController) Logout(c *gin.Context) {
	user := currentUser(c)
	now := time.Now().UTC()
	if err := a.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", user.ID).
		Update("revoked_at", &now).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (a *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c).Profile())
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Department  string `json:"department"`
}

func (a *AuthController) UpdateProfile(c *gin.Context) {
	user := currentUser(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{}
	if req.DisplayName != "" {
		updates["display_name"] = req.DisplayName
	}
	if req.Department != "" {
		updates["department"] = req.Department
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := a.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.Audit.Record(user.ID, "profile_updated", "user", user.ID, nil)
	c.JSON(http.StatusOK, user.Profile())
}
