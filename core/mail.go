package core

import "net/mail"

type (
	EmailMessage struct {
		To      []mail.Address
		Subject string
		BodyStr string // text/plain content
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently; delivery failures are
		// logged by the implementation, never surfaced to the caller.
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.BodyStr != "" }
