package usecase

import (
	"context"

	"go-contact-relay/internal/domain"
	"go-contact-relay/pkg/apperror"
	"go-contact-relay/pkg/email"
	"go-contact-relay/pkg/logger"
)

type mailConfigUsecase struct {
	transport email.Transport
}

func NewMailConfigUsecase(transport email.Transport) domain.MailConfigUsecase {
	return &mailConfigUsecase{transport: transport}
}

// VerifyTransport checks that the SMTP server is reachable and accepts the credentials
func (u *mailConfigUsecase) VerifyTransport(ctx context.Context) error {
	if err := u.transport.Verify(ctx); err != nil {
		logger.Log.WarnContext(ctx, "Email configuration check failed", "error", err)
		return apperror.Internal(domain.MsgEmailConfigInvalid, err)
	}
	return nil
}
