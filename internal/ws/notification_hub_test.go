package ws

import (
	"encoding/json"
	"testing"
)

func TestNotifyNilHub(t *testing.T) {
	var h *NotificationHub
	// Must not panic or block.
	h.Notify("student", Notification{Type: "submission_graded"})
}

func TestNotifyWithoutListener(t *testing.T) {
	h := NewNotificationHub()
	// No Run loop and no clients; the buffered channel absorbs the push
	// and overflow is dropped rather than blocking the caller.
	for i := 0; i < 1000; i++ {
		h.Notify("student", Notification{Type: "unlock_reviewed", Status: "approved"})
	}
}

func TestNotificationPayloadShape(t *testing.T) {
	data, err := json.Marshal(Notification{
		Type:         "submission_graded",
		TaskID:       "t1",
		SubmissionID: "s1",
		Status:       "accepted",
		Points:       90,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["type"] != "submission_graded" || m["points"] != float64(90) {
		t.Fatalf("unexpected payload: %v", m)
	}
	if _, ok := m["message"]; ok {
		t.Fatalf("empty message should be omitted: %v", m)
	}
}
