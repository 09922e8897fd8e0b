package core

import "context"

// Message is a plain-text email.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Mailer delivers messages. Send must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}
