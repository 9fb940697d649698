// Package gating computes per-student submission eligibility for course
// tasks: sequential prerequisites, deadline locks and granted unlocks.
package gating

import "time"

type State string

const (
	// StateLockedSequence: an earlier task in the course has no submission yet.
	StateLockedSequence State = "locked_sequence"
	// StateLockedDeadline: the deadline passed without a submission or unlock.
	StateLockedDeadline State = "locked_deadline"
	StateUnlocked       State = "unlocked"
	// StateSubmitted is terminal; submissions are never overwritten.
	StateSubmitted State = "submitted"
)

// TaskView is the slice of a task the state machine needs.
type TaskView struct {
	ID       string
	Deadline *time.Time
}

// Evaluate computes the state of one task for one student.
//
// courseTasks must hold every task of the course ordered by creation time;
// submitted holds the IDs of tasks this student has already submitted;
// unlocked reports a task_unlocks row for the target task.
func Evaluate(taskID string, courseTasks []TaskView, submitted map[string]bool, unlocked bool, now time.Time) State {
	if submitted[taskID] {
		return StateSubmitted
	}

	var target *TaskView
	for i := range courseTasks {
		t := &courseTasks[i]
		if t.ID == taskID {
			target = t
			break
		}
		if !submitted[t.ID] {
			return StateLockedSequence
		}
	}
	if target == nil {
		// Task not in the course sequence; treat as sequence-locked rather
		// than guessing.
		return StateLockedSequence
	}

	if target.Deadline != nil && now.After(*target.Deadline) && !unlocked {
		return StateLockedDeadline
	}
	return StateUnlocked
}
