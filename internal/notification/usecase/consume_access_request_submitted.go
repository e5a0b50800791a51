package usecase

import (
	"context"
	"log/slog"

	"github.com/sayetech/dataroom/internal/notification/entity"
	"github.com/sayetech/dataroom/internal/pkg/valueobject"
)

const accessRequestReceivedBody = `<p>Hi {{.full_name}},</p>
<p>Thanks for your interest in the {{.company_name}} dataroom. We have received
your access request and our team will review it shortly.</p>
<p>You will get another email once a decision has been made.</p>
<p>Questions? Reach us at {{.support_email}}.</p>
<p>&copy; {{.year}} {{.company_name}}</p>`

const accessRequestAdminAlertBody = `<p>A new dataroom access request is waiting for review.</p>
<ul>
<li>Name: {{.full_name}}</li>
<li>Email: {{.email}}</li>
<li>Company: {{.investor_company}}</li>
</ul>
<p>Review it in the admin console: {{.dataroom_url}}</p>`

type ConsumeAccessRequestSubmittedInput struct {
	RequestID int64  `validate:"required,gt=0"`
	Email     string `validate:"required,email"`
	FullName  string `validate:"required"`
	Company   string
}

// ConsumeAccessRequestSubmitted confirms receipt to the requester and alerts
// the review address. Malformed payloads are dropped, not retried.
func (s *Usecase) ConsumeAccessRequestSubmitted(ctx context.Context, in ConsumeAccessRequestSubmittedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAccessRequestSubmitted")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	payload := valueobject.JSONMap{
		"request_id": in.RequestID,
		"email":      in.Email,
		"full_name":  in.FullName,
		"company":    in.Company,
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName

	body, err := s.renderTemplate("access_request_received", accessRequestReceivedBody, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render access request received email", "request_id", in.RequestID, "error", err)
		return nil
	}

	s.sendEmail(ctx, sendEmailInput{
		Recipient:  in.Email,
		TriggerKey: entity.TriggerKeyAccessRequestReceived,
		Subject:    "We received your dataroom access request",
		Body:       body,
		Data:       payload,
	})

	adminAddress := s.cfg.GetString("modules.notification.admin_address")
	if adminAddress == "" {
		return nil
	}

	data = s.baseEmailTemplateData()
	data["full_name"] = in.FullName
	data["email"] = in.Email
	data["investor_company"] = in.Company

	body, err = s.renderTemplate("access_request_admin_alert", accessRequestAdminAlertBody, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render access request admin alert email", "request_id", in.RequestID, "error", err)
		return nil
	}

	s.sendEmail(ctx, sendEmailInput{
		Recipient:  adminAddress,
		TriggerKey: entity.TriggerKeyAccessRequestAdminAlert,
		Subject:    "New dataroom access request",
		Body:       body,
		Data:       payload,
	})

	return nil
}
