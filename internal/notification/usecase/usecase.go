package usecase

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"time"

	"github.com/sayetech/dataroom/internal/notification/entity"
	"github.com/sayetech/dataroom/internal/pkg/clock"
	"github.com/sayetech/dataroom/internal/pkg/config"
	"github.com/sayetech/dataroom/internal/pkg/instrument"
	"github.com/sayetech/dataroom/internal/pkg/mail"
	"github.com/sayetech/dataroom/internal/pkg/uid"
	"github.com/sayetech/dataroom/internal/pkg/validator"
	"github.com/sayetech/dataroom/internal/pkg/valueobject"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateDeliveryLog(ctx context.Context, in entity.NewDeliveryLog) error
	UpdateDeliveryLogStatus(ctx context.Context, in entity.UpdateDeliveryLog) error
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoDB    repoDB
	repoMail  repoMail
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	RepoMail   repoMail
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		repoMail:  dep.RepoMail,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Usecase) baseEmailTemplateData() map[string]any {
	return map[string]any{
		"support_email": s.cfg.GetString("mail.support"),
		"company_name":  s.cfg.GetString("app.name"),
		"dataroom_url":  s.cfg.GetString("app.web"),
		"year":          s.clock.Now().Format("2006"),
	}
}

type sendEmailInput struct {
	Recipient  string
	TriggerKey entity.TriggerKey
	Subject    string
	Body       string
	Data       valueobject.JSONMap
}

// sendEmail hands the message to the mail provider with a capped backoff.
// Every attempt chain is tracked in the delivery log, so a message that
// exhausts its retries can be reconciled by hand later.
func (s *Usecase) sendEmail(ctx context.Context, in sendEmailInput) {
	logID := s.uid.Generate()
	if err := s.repoDB.CreateDeliveryLog(ctx, entity.NewDeliveryLog{
		ID:         logID,
		Recipient:  in.Recipient,
		TriggerKey: in.TriggerKey,
		Data:       in.Data,
		CreatedAt:  s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery log", "recipient", in.Recipient, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	b := retry.NewFibonacci(500 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(s.cfg.GetUint64("modules.notification.mail_max_retries"), b)

	mailErr := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := s.repoMail.Send(ctx, mail.Message{
			From:     s.cfg.GetString("mail.from"),
			To:       []string{in.Recipient},
			Subject:  in.Subject,
			HTMLBody: in.Body,
		}); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	up := entity.UpdateDeliveryLog{
		ID:               logID,
		Status:           entity.DeliveryStatusSent,
		ProviderResponse: valueobject.JSONMap{},
		UpdatedAt:        s.clock.Now(),
	}
	if mailErr != nil {
		up.Status = entity.DeliveryStatusFailed
		up.ProviderResponse = valueobject.JSONMap{"error": mailErr.Error()}
		slog.ErrorContext(ctx, "failed to send notification email", "log_id", logID, "recipient", in.Recipient, "trigger_key", in.TriggerKey.String(), "error", mailErr)
	}

	if err := s.repoDB.UpdateDeliveryLogStatus(ctx, up); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery log status", "log_id", logID, "status", up.Status.String(), "error", err)
	}
}
