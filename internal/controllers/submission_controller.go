package controllers

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/audit"
	"github.com/campuspoint/lms_backend/internal/authz"
	"github.com/campuspoint/lms_backend/internal/database"
	"github.com/campuspoint/lms_backend/internal/gating"
	"github.com/campuspoint/lms_backend/internal/mailer"
	"github.com/campuspoint/lms_backend/internal/models"
	"github.com/campuspoint/lms_backend/internal/points"
	"github.com/campuspoint/lms_backend/internal/storage"
	"github.com/campuspoint/lms_backend/internal/ws"
)

const (
	maxSubmissionFiles    = 5
	maxSubmissionFileSize = 10 << 20 // 10MB per file
	uploadTimeout         = 30 * time.Second
)

type SubmissionController struct {
	DB      *gorm.DB
	Storage storage.ObjectStorage
	Mail    *mailer.Queue
	Audit   *audit.Recorder
	Hub     *ws.NotificationHub
}

// gatingState computes the submission eligibility of one task for one
// student from current store state.
func (sc *SubmissionController) gatingState(task models.Task, studentID string, now time.Time) (gating.State, error) {
	var courseTasks []models.Task
	if err := sc.DB.Where("course_id = ?", task.CourseID).
		Order("created_at ASC").Find(&courseTasks).Error; err != nil {
		return "", err
	}
	views := make([]gating.TaskView, len(courseTasks))
	taskIDs := make([]string, len(courseTasks))
	for i, t := range courseTasks {
		views[i] = gating.TaskView{ID: t.ID, Deadline: t.Deadline}
		taskIDs[i] = t.ID
	}

	var submittedIDs []string
	if err := sc.DB.Model(&models.Submission{}).
		Where("student_id = ? AND task_id IN ?", studentID, taskIDs).
		Pluck("task_id", &submittedIDs).Error; err != nil {
		return "", err
	}
	submitted := make(map[string]bool, len(submittedIDs))
	for _, id := range submittedIDs {
		submitted[id] = true
	}

	var unlocks int64
	if err := sc.DB.Model(&models.TaskUnlock{}).
		Where("task_id = ? AND student_id = ?", task.ID, studentID).
		Count(&unlocks).Error; err != nil {
		return "", err
	}

	return gating.Evaluate(task.ID, views, submitted, unlocks > 0, now), nil
}

// Submit accepts a student's single attempt at a task: multipart text
// plus up to five files.
func (sc *SubmissionController) Submit(c *gin.Context) {
	user := currentUser(c)
	task, ok := fetchTask(c, sc.DB, c.Param("id"))
	if !ok {
		return
	}

	// Advisory pre-check; the (task, student) unique index decides races.
	var existing int64
	if err := sc.DB.Model(&models.Submission{}).
		Where("task_id = ? AND student_id = ?", task.ID, user.ID).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "already submitted"})
		return
	}

	state, err := sc.gatingState(task, user.ID, timeNow())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	switch state {
	case gating.StateLockedSequence:
		c.JSON(http.StatusBadRequest, gin.H{"error": "complete previous tasks before attempting this one"})
		return
	case gating.StateLockedDeadline:
		c.JSON(http.StatusBadRequest, gin.H{"error": "deadline has passed; request an unlock to submit"})
		return
	case gating.StateSubmitted:
		c.JSON(http.StatusBadRequest, gin.H{"error": "already submitted"})
		return
	}

	textResponse := c.PostForm("text_response")

	var fileURLs []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["files"]
		if len(files) > maxSubmissionFiles {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d files per submission", maxSubmissionFiles)})
			return
		}
		for _, fh := range files {
			if fh.Size > maxSubmissionFileSize {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file %s exceeds the 10MB limit", fh.Filename)})
				return
			}
		}
		// Uploads run sequentially; an individual failure is logged and
		// skipped so the remaining files and the submission still land.
		for _, fh := range files {
			url, err := sc.uploadFile(c.Request.Context(), task.ID, user.ID, fh)
			if err != nil {
				log.Printf("submission upload failed for %s: %v", fh.Filename, err)
				continue
			}
			fileURLs = append(fileURLs, url)
		}
	}

	// Submission order across all submitters decides the award.
	var count int64
	if err := sc.DB.Model(&models.Submission{}).
		Where("task_id = ?", task.ID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	submission := models.Submission{
		TaskID:        task.ID,
		StudentID:     user.ID,
		TextResponse:  textResponse,
		FileURLs:      fileURLs,
		PointsAwarded: points.Award(task.MaxPoints, int(count)+1),
		Status:        models.SubmissionPending,
		SubmittedAt:   timeNow(),
	}
	if err := sc.DB.Create(&submission).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "already submitted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sc.Audit.Record(user.ID, "submission_created", "submission", submission.ID, map[string]any{
		"task_id": task.ID,
		"points":  submission.PointsAwarded,
	})
	c.JSON(http.StatusCreated, submission)
}

func (sc *SubmissionController) uploadFile(parent context.Context, taskID, studentID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(parent, uploadTimeout)
	defer cancel()

	key := fmt.Sprintf("%s/%s/%d_%s", taskID, studentID, time.Now().UnixMilli(), filepath.Base(fh.Filename))
	return sc.Storage.Upload(ctx, key, f, fh.Header.Get("Content-Type"))
}

type gradeRequest struct {
	Status        string `json:"status"`
	PointsAwarded *int   `json:"points_awarded"`
	Feedback      string `json:"feedback"`
}

// Grade transitions a submission's status and optionally overrides the
// award. Re-grading overwrites; no history is kept.
func (sc *SubmissionController) Grade(c *gin.Context) {
	grader := currentUser(c)

	var submission models.Submission
	if err := sc.DB.Where("id = ?", c.Param("id")).First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}
	task, ok := fetchTask(c, sc.DB, submission.TaskID)
	if !ok {
		return
	}
	course, ok := fetchCourse(c, sc.DB, task.CourseID)
	if !ok {
		return
	}
	if !authz.CanModifyCourse(grader, course) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the course creator or a superadmin may grade"})
		return
	}

	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := req.Status
	if status == "" {
		status = models.SubmissionAccepted
	}
	if status != models.SubmissionAccepted && status != models.SubmissionRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be accepted or rejected"})
		return
	}

	if req.PointsAwarded != nil && *req.PointsAwarded < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "points_awarded must not be negative"})
		return
	}

	updates := applyGrade(&submission, status, req.PointsAwarded, req.Feedback, grader.ID, timeNow())
	if err := sc.DB.Model(&models.Submission{}).Where("id = ?", submission.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sc.notifyGraded(submission, task, status, req.Feedback)
	sc.Audit.Record(grader.ID, "submission_graded", "submission", submission.ID, map[string]any{
		"status": status,
	})

	c.JSON(http.StatusOK, submission)
}

// applyGrade stamps the grading outcome onto the submission and returns
// the column updates to persist. The struct is mutated first so
// notifications and the response carry the graded values, points
// override included.
func applyGrade(s *models.Submission, status string, points *int, feedback, graderID string, now time.Time) map[string]any {
	s.Status = status
	s.GradedBy = &graderID
	s.GradedAt = &now
	updates := map[string]any{
		"status":    status,
		"graded_by": graderID,
		"graded_at": &now,
	}
	if points != nil {
		s.PointsAwarded = *points
		updates["points_awarded"] = *points
	}
	if feedback != "" {
		s.Feedback = feedback
		updates["feedback"] = feedback
	}
	return updates
}

// notifyGraded pushes the result to the student by email and websocket.
// Best-effort, off the grading path.
func (sc *SubmissionController) notifyGraded(submission models.Submission, task models.Task, status, feedback string) {
	var student models.User
	if err := sc.DB.Where("id = ?", submission.StudentID).First(&student).Error; err != nil {
		return
	}

	body := fmt.Sprintf("<p>Your submission for %q has been graded: %s.</p>", task.Title, status)
	if feedback != "" {
		body += fmt.Sprintf("<p>Feedback: %s</p>", feedback)
	}
	sc.Mail.Enqueue([]string{student.Email}, fmt.Sprintf("Submission Graded: %s", task.Title), body)

	sc.Hub.Notify(student.ID, ws.Notification{
		Type:         "submission_graded",
		TaskID:       task.ID,
		SubmissionID: submission.ID,
		Status:       status,
		Points:       submission.PointsAwarded,
	})
}

type submissionRow struct {
	models.Submission
	Student *models.Profile `json:"student,omitempty"`
}

// ListForTask returns task submissions: all of them (with student
// identity) for principals with course access, own rows for students.
func (sc *SubmissionController) ListForTask(c *gin.Context) {
	user := currentUser(c)
	task, ok := fetchTask(c, sc.DB, c.Param("id"))
	if !ok {
		return
	}
	course, ok := fetchCourse(c, sc.DB, task.CourseID)
	if !ok {
		return
	}

	q := sc.DB.Where("task_id = ?", task.ID).Order("submitted_at DESC")
	if user.Role == authz.RoleStudent {
		q = q.Where("student_id = ?", user.ID)
	} else {
		allowed, err := authz.CanAccessCourse(sc.DB, user, course)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not have access to this course"})
			return
		}
	}

	var submissions []models.Submission
	if err := q.Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ids := make([]string, 0, len(submissions))
	for _, s := range submissions {
		ids = append(ids, s.StudentID)
	}
	profiles := map[string]models.Profile{}
	if len(ids) > 0 {
		var users []models.User
		if err := sc.DB.Where("id IN ?", ids).Find(&users).Error; err == nil {
			for _, u := range users {
				profiles[u.ID] = u.Profile()
			}
		}
	}

	out := make([]submissionRow, 0, len(submissions))
	for _, s := range submissions {
		row := submissionRow{Submission: s}
		if p, ok := profiles[s.StudentID]; ok {
			row.Student = &p
		}
		out = append(out, row)
	}
	c.JSON(http.StatusOK, out)
}
