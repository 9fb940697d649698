package mailer

import (
	"sync"
	"testing"
	"time"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []Message
}

func (c *captureMailer) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureMailer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func TestQueueDelivers(t *testing.T) {
	capture := &captureMailer{}
	q := NewQueue(capture)
	go q.Run()

	q.Enqueue([]string{"student@example.com"}, "Graded", "<p>done</p>")

	deadline := time.Now().Add(2 * time.Second)
	for capture.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("queued message was never delivered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	capture.mu.Lock()
	defer capture.mu.Unlock()
	if capture.sent[0].Subject != "Graded" {
		t.Fatalf("unexpected message: %+v", capture.sent[0])
	}
}

func TestEnqueueIgnoresEmptyRecipients(t *testing.T) {
	capture := &captureMailer{}
	q := NewQueue(capture)
	q.Enqueue(nil, "x", "y")
	if len(q.jobs) != 0 {
		t.Fatal("message without recipients should be dropped")
	}
}

func TestNilQueueIsSafe(t *testing.T) {
	var q *Queue
	q.Enqueue([]string{"a@b.c"}, "x", "y") // must not panic
}
