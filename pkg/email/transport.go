package email

import (
	"context"
	"fmt"
)

// Message is a composed email with both an HTML and a plain-text body.
type Message struct {
	FromName    string
	FromAddress string
	To          []string
	ReplyTo     string
	Subject     string
	HTMLBody    string
	TextBody    string
	// MessageID is filled in by the transport when empty.
	MessageID string
}

// Transport delivers messages. Send returns the Message-ID the message was
// submitted with.
type Transport interface {
	Send(ctx context.Context, msg *Message) (string, error)
	// Verify checks connectivity and credentials without sending anything.
	Verify(ctx context.Context) error
}

// TransportError wraps a failure at a given SMTP stage.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("smtp %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
