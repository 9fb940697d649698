package controllers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/campuspoint/lms_backend/internal/models"
)

func TestApplyGradeReflectsOverride(t *testing.T) {
	override := 42
	now := time.Now().UTC()
	sub := models.Submission{ID: "s1", PointsAwarded: 90, Status: models.SubmissionPending}

	updates := applyGrade(&sub, models.SubmissionAccepted, &override, "late but solid", "grader-1", now)

	// The struct feeds the notification and the response; it must carry
	// the override, not the award computed at submit time.
	if sub.PointsAwarded != override {
		t.Fatalf("submission points = %d, want override %d", sub.PointsAwarded, override)
	}
	if sub.Status != models.SubmissionAccepted || sub.Feedback != "late but solid" {
		t.Fatalf("grading outcome not applied: status=%s feedback=%q", sub.Status, sub.Feedback)
	}
	if sub.GradedBy == nil || *sub.GradedBy != "grader-1" || sub.GradedAt == nil {
		t.Fatalf("grader stamp missing: %v %v", sub.GradedBy, sub.GradedAt)
	}
	if updates["points_awarded"] != override || updates["status"] != models.SubmissionAccepted {
		t.Fatalf("column updates out of sync with struct: %v", updates)
	}
}

func TestApplyGradeWithoutOverride(t *testing.T) {
	sub := models.Submission{ID: "s1", PointsAwarded: 90, Status: models.SubmissionPending}

	updates := applyGrade(&sub, models.SubmissionRejected, nil, "", "grader-1", time.Now().UTC())

	if sub.PointsAwarded != 90 {
		t.Fatalf("points changed without override: %d", sub.PointsAwarded)
	}
	if _, ok := updates["points_awarded"]; ok {
		t.Fatalf("no override should leave points column untouched: %v", updates)
	}
	if _, ok := updates["feedback"]; ok {
		t.Fatalf("empty feedback should not be persisted: %v", updates)
	}
}

func TestEnrollmentRequestGate(t *testing.T) {
	cases := []struct {
		name     string
		existing models.Enrollment
		err      error
		code     int
		proceed  bool
	}{
		{"pending row", models.Enrollment{Status: models.EnrollmentPending}, nil, http.StatusBadRequest, false},
		{"active row", models.Enrollment{Status: models.EnrollmentActive}, nil, http.StatusBadRequest, false},
		{"clean miss", models.Enrollment{}, gorm.ErrRecordNotFound, 0, true},
		{"store failure", models.Enrollment{}, errors.New("connection reset"), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		code, _, proceed := enrollmentRequestGate(tc.existing, tc.err)
		if proceed != tc.proceed || code != tc.code {
			t.Fatalf("%s: got (code=%d, proceed=%v), want (code=%d, proceed=%v)",
				tc.name, code, proceed, tc.code, tc.proceed)
		}
	}
}
