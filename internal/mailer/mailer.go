// Package mailer delivers notification email. Delivery is best-effort:
// failures are logged, never propagated to the request that queued them.
package mailer

import "log"

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(msg Message) error
}

// Queue decouples email delivery from request handlers. Enqueue never
// blocks; messages are dropped with a log line when the buffer is full.
type Queue struct {
	mailer Mailer
	jobs   chan Message
}

func NewQueue(m Mailer) *Queue {
	return &Queue{mailer: m, jobs: make(chan Message, 256)}
}

// Run consumes the queue. Call once from main in its own goroutine.
func (q *Queue) Run() {
	for msg := range q.jobs {
		if err := q.mailer.Send(msg); err != nil {
			log.Println("mailer: send failed:", err)
		}
	}
}

func (q *Queue) Enqueue(to []string, subject, html string) {
	if q == nil || len(to) == 0 {
		return
	}
	select {
	case q.jobs <- Message{To: to, Subject: subject, HTML: html}:
	default:
		log.Println("mailer: queue full, dropping message to", to)
	}
}
