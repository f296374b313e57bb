package usecase

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // Asia/Ho_Chi_Minh must resolve on minimal images

	"go-contact-relay/internal/domain"
	"go-contact-relay/pkg/apperror"
	"go-contact-relay/pkg/email"
	"go-contact-relay/pkg/logger"

	"github.com/go-playground/validator/v10"
)

const (
	receivedAtLayout = "15:04:05 2/1/2006"
	timestampLayout  = "2006-01-02T15:04:05.000Z"
)

var vietnamLocation = loadVietnamLocation()

func loadVietnamLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// ContactConfig holds the sender identity used for every relayed message
type ContactConfig struct {
	SenderName    string
	SenderAddress string
	// Now defaults to time.Now
	Now func() time.Time
}

type contactUsecase struct {
	transport email.Transport
	validate  *validator.Validate
	cfg       ContactConfig
}

// NewContactUsecase creates a new contact usecase. validate must have the
// custom tags from pkg/validation registered.
func NewContactUsecase(transport email.Transport, validate *validator.Validate, cfg ContactConfig) domain.ContactUsecase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &contactUsecase{
		transport: transport,
		validate:  validate,
		cfg:       cfg,
	}
}

// SendContactMessage validates the contact request and sends the email
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) (*domain.ContactResult, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	msg, err := uc.buildMessage(req)
	if err != nil {
		logger.Log.ErrorContext(ctx, "Error building email", "error", err, "request_id", requestID(ctx))
		return nil, apperror.Internal(domain.MsgEmailSendFailed, err)
	}

	messageID, err := uc.transport.Send(ctx, msg)
	if err != nil {
		logger.Log.ErrorContext(ctx, "Error sending email", "error", err, "request_id", requestID(ctx))
		return nil, apperror.Internal(domain.MsgEmailSendFailed, err)
	}

	logger.Log.InfoContext(ctx, "Email sent successfully", "message_id", messageID, "request_id", requestID(ctx))

	return &domain.ContactResult{
		MessageID: messageID,
		Timestamp: uc.cfg.Now().UTC().Format(timestampLayout),
	}, nil
}

// validateRequest applies the rules in a fixed order and reports the first failure
func (uc *contactUsecase) validateRequest(req *domain.ContactRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		return apperror.BadRequest(domain.MsgMissingFields)
	}

	rules := []struct {
		value string
		tag   string
		msg   string
	}{
		{req.Email, "mailbox", domain.MsgInvalidEmail},
		{req.RecipientEmail, "mailbox", domain.MsgInvalidRecipientEmail},
		{req.Phone, "vn_phone", domain.MsgInvalidPhone},
		{req.Name, "min_trimmed=2", domain.MsgNameTooShort},
	}
	for _, r := range rules {
		if err := uc.validate.Var(r.value, r.tag); err != nil {
			return apperror.BadRequest(r.msg)
		}
	}

	return nil
}

func (uc *contactUsecase) buildMessage(req *domain.ContactRequest) (*email.Message, error) {
	html, text, err := email.RenderContactEmail(email.ContactEmailData{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
		ReceivedAt: uc.cfg.Now().In(vietnamLocation).Format(receivedAtLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render contact email: %w", err)
	}

	return &email.Message{
		FromName:    uc.cfg.SenderName,
		FromAddress: uc.cfg.SenderAddress,
		To:          []string{req.RecipientEmail},
		ReplyTo:     req.Email,
		Subject:     email.ContactSubject(req.Name, req.Email),
		HTMLBody:    html,
		TextBody:    text,
	}, nil
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
