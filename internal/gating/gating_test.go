package gating

import (
	"testing"
	"time"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func tasks(deadlines ...*time.Time) []TaskView {
	out := make([]TaskView, len(deadlines))
	for i, d := range deadlines {
		out[i] = TaskView{ID: string(rune('a' + i)), Deadline: d}
	}
	return out
}

func ptr(t time.Time) *time.Time { return &t }

func TestSequenceGating(t *testing.T) {
	course := tasks(nil, nil, nil) // a, b, c in creation order

	if got := Evaluate("a", course, map[string]bool{}, false, now); got != StateUnlocked {
		t.Fatalf("first task with no submissions: got %s, want %s", got, StateUnlocked)
	}
	if got := Evaluate("b", course, map[string]bool{}, false, now); got != StateLockedSequence {
		t.Fatalf("second task with no submissions: got %s, want %s", got, StateLockedSequence)
	}
	if got := Evaluate("b", course, map[string]bool{"a": true}, false, now); got != StateUnlocked {
		t.Fatalf("second task after first submitted: got %s, want %s", got, StateUnlocked)
	}
	if got := Evaluate("c", course, map[string]bool{"a": true}, false, now); got != StateLockedSequence {
		t.Fatalf("third task with a gap: got %s, want %s", got, StateLockedSequence)
	}
}

func TestDeadlineGating(t *testing.T) {
	past := ptr(now.Add(-time.Hour))
	future := ptr(now.Add(time.Hour))

	if got := Evaluate("a", tasks(past), map[string]bool{}, false, now); got != StateLockedDeadline {
		t.Fatalf("past deadline without unlock: got %s, want %s", got, StateLockedDeadline)
	}
	if got := Evaluate("a", tasks(past), map[string]bool{}, true, now); got != StateUnlocked {
		t.Fatalf("past deadline with unlock: got %s, want %s", got, StateUnlocked)
	}
	if got := Evaluate("a", tasks(future), map[string]bool{}, false, now); got != StateUnlocked {
		t.Fatalf("future deadline: got %s, want %s", got, StateUnlocked)
	}
	if got := Evaluate("a", tasks(nil), map[string]bool{}, false, now); got != StateUnlocked {
		t.Fatalf("no deadline: got %s, want %s", got, StateUnlocked)
	}
}

func TestSequenceLockWinsOverDeadline(t *testing.T) {
	past := ptr(now.Add(-time.Hour))
	course := tasks(nil, past)
	// b is past deadline AND sequence-locked; sequence lock is reported.
	if got := Evaluate("b", course, map[string]bool{}, true, now); got != StateLockedSequence {
		t.Fatalf("got %s, want %s", got, StateLockedSequence)
	}
}

func TestSubmittedIsTerminal(t *testing.T) {
	past := ptr(now.Add(-time.Hour))
	course := tasks(past)
	if got := Evaluate("a", course, map[string]bool{"a": true}, false, now); got != StateSubmitted {
		t.Fatalf("got %s, want %s", got, StateSubmitted)
	}
}

func TestUnknownTaskIsLocked(t *testing.T) {
	course := tasks(nil)
	if got := Evaluate("zz", course, map[string]bool{"a": true}, false, now); got != StateLockedSequence {
		t.Fatalf("got %s, want %s", got, StateLockedSequence)
	}
}
