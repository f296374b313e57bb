package domain

import "context"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name           string `json:"name" form:"name" validate:"required"`
	Email          string `json:"email" form:"email" validate:"required"`
	Phone          string `json:"phone" form:"phone" validate:"required"`
	Message        string `json:"message" form:"message" validate:"required"`
	RecipientEmail string `json:"recipientEmail" form:"recipientEmail" validate:"required"`
}

// ContactResult is returned once the transport accepted the message
type ContactResult struct {
	MessageID string `json:"messageId"`
	Timestamp string `json:"timestamp"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates the submission and relays it by email
	SendContactMessage(ctx context.Context, req *ContactRequest) (*ContactResult, error)
}

// MailConfigUsecase checks the outbound mail configuration
type MailConfigUsecase interface {
	VerifyTransport(ctx context.Context) error
}
