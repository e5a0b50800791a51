package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/sayetech/dataroom/internal/notification/entity"
	"github.com/sayetech/dataroom/internal/pkg/valueobject"
)

const accessRequestApprovedBody = `<p>Hi {{.full_name}},</p>
<p>Your request for access to the {{.company_name}} dataroom has been approved.</p>
<p>Sign in with your email address at {{.dataroom_url}} and you will receive a
one-time code to get started.</p>
{{if .access_expires}}<p>Your access is valid until {{.access_expires}}.</p>{{end}}
<p>Questions? Reach us at {{.support_email}}.</p>
<p>&copy; {{.year}} {{.company_name}}</p>`

const accessRequestRejectedBody = `<p>Hi {{.full_name}},</p>
<p>Thank you for your interest in the {{.company_name}} dataroom. After review
we are unable to grant access at this time.</p>
<p>Questions? Reach us at {{.support_email}}.</p>
<p>&copy; {{.year}} {{.company_name}}</p>`

type ConsumeAccessRequestDecidedInput struct {
	RequestID int64  `validate:"required,gt=0"`
	Email     string `validate:"required,email"`
	FullName  string `validate:"required"`
	Approved  bool
	// AccessExpiresAt is a unix timestamp; zero means no expiry was set.
	AccessExpiresAt int64
}

func (s *Usecase) ConsumeAccessRequestDecided(ctx context.Context, in ConsumeAccessRequestDecidedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAccessRequestDecided")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName

	trigger := entity.TriggerKeyAccessRequestRejected
	subject := "Your dataroom access request"
	tpl := accessRequestRejectedBody
	if in.Approved {
		trigger = entity.TriggerKeyAccessRequestApproved
		subject = "Your dataroom access has been approved"
		tpl = accessRequestApprovedBody
		if in.AccessExpiresAt > 0 {
			data["access_expires"] = time.Unix(in.AccessExpiresAt, 0).UTC().Format("January 2, 2006")
		}
	}

	body, err := s.renderTemplate(trigger.String(), tpl, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render access request decided email", "request_id", in.RequestID, "error", err)
		return nil
	}

	s.sendEmail(ctx, sendEmailInput{
		Recipient:  in.Email,
		TriggerKey: trigger,
		Subject:    subject,
		Body:       body,
		Data: valueobject.JSONMap{
			"request_id": in.RequestID,
			"email":      in.Email,
			"approved":   in.Approved,
		},
	})

	return nil
}
