package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuspoint/lms_backend/internal/models"
)

func timeNow() time.Time { return time.Now().UTC() }

// currentUser returns the profile stored by the auth middleware. Routes
// using it must sit behind AuthMiddleware.
func currentUser(c *gin.Context) models.User {
	uVal, _ := c.Get("user")
	return uVal.(models.User)
}

func queryLimit(c *gin.Context, def, max int) int {
	v := c.Query("limit")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
