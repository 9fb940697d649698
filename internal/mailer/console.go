package mailer

import "log"

// ConsoleMailer logs messages instead of sending them. Used when no
// SendGrid key is configured.
type ConsoleMailer struct{}

func (ConsoleMailer) Send(msg Message) error {
	log.Printf("mail (console): to=%v subject=%q", msg.To, msg.Subject)
	return nil
}
