package email

import (
	"context"
	"fmt"
	"time"

	"github.com/sayetech/dataroom/internal/auth/entity"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

// Mail delivers one-time passcodes over the configured mail provider. The
// send is synchronous; issuance treats an undelivered code as a failure.
type Mail struct {
	client mail.Mail
	cfg    config.Config
	ins    instrument.Instrumentation
}

func New(client mail.Mail, cfg config.Config, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, cfg: cfg, ins: ins}
}

func (m *Mail) SendPasscode(ctx context.Context, email, code string, purpose entity.PasscodePurpose, ttl time.Duration) error {
	ctx, span := m.ins.Tracer("auth.outbound.email").Start(ctx, "SendPasscode")
	defer span.End()

	minutes := int(ttl.Minutes())

	msg := mail.Message{
		From:    m.cfg.GetString("mail.from"),
		To:      []string{email},
		Subject: subjectFor(purpose),
		TextBody: fmt.Sprintf(
			"Your verification code is %s. It expires in %d minutes.\n\nIf you did not request this code, you can ignore this email.",
			code, minutes,
		),
		HTMLBody: fmt.Sprintf(
			`<p>Your verification code is:</p><p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p><p>It expires in %d minutes.</p><p>If you did not request this code, you can ignore this email.</p>`,
			code, minutes,
		),
	}

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func subjectFor(purpose entity.PasscodePurpose) string {
	switch purpose {
	case entity.PasscodePurposeAccessRequestVerification:
		return "Verify your dataroom access request"
	case entity.PasscodePurposePasswordReset:
		return "Your password reset code"
	default:
		return "Your sign-in code"
	}
}
