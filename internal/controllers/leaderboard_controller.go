package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/leaderboard"
	"github.com/campuspoint/lms_backend/internal/models"
)

type LeaderboardController struct {
	DB *gorm.DB
}

// Get ranks students by total awarded points, globally or scoped to one
// course via ?courseId=.
func (lc *LeaderboardController) Get(c *gin.Context) {
	q := lc.DB.Model(&models.Submission{})
	if courseID := c.Query("courseId"); courseID != "" {
		if _, ok := fetchCourse(c, lc.DB, courseID); !ok {
			return
		}
		q = q.Where("task_id IN (?)",
			lc.DB.Model(&models.Task{}).Select("id").Where("course_id = ?", courseID))
	}

	var rows []models.Submission
	if err := q.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	subs := make([]leaderboard.Submission, len(rows))
	for i, s := range rows {
		subs[i] = leaderboard.Submission{StudentID: s.StudentID, Points: s.PointsAwarded}
	}
	entries := leaderboard.Aggregate(subs)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.StudentID
	}
	if len(ids) > 0 {
		var users []models.User
		if err := lc.DB.Where("id IN ?", ids).Find(&users).Error; err == nil {
			byID := make(map[string]models.User, len(users))
			for _, u := range users {
				byID[u.ID] = u
			}
			for i := range entries {
				if u, ok := byID[entries[i].StudentID]; ok {
					entries[i].DisplayName = u.DisplayName
					entries[i].Email = u.Email
				}
			}
		}
	}

	c.JSON(http.StatusOK, entries)
}
