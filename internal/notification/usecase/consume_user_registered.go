package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/tadka/internal/notification/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/idempotency"
	"github.com/shandysiswandi/tadka/internal/pkg/mail"
)

const (
	welcomeSubject = "Welcome to Tadka Tales"
	welcomeBody    = `<p>Namaste {{.name}},</p>
<p>Your {{.company_name}} account is ready. Start exploring recipes at <a href="{{.app_url}}">{{.app_url}}</a>.</p>
<p>Questions? Write to {{.support_email}}.</p>
<p>&copy; {{.year}} {{.company_name}}</p>`
)

type ConsumeUserRegisteredInput struct {
	UserID      int64  `validate:"required,gt=0"`
	Email       string `validate:"omitempty,email"`
	PhoneNumber string
	Handle      string
	Channel     string
}

// ConsumeUserRegistered sends the welcome email for a new identity. Identities
// without an email are skipped. A redelivered event for a user that was
// already greeted is a no-op; a failed send is retried on redelivery.
func (s *Usecase) ConsumeUserRegistered(ctx context.Context, in ConsumeUserRegisteredInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserRegistered")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	if strings.TrimSpace(in.Email) == "" {
		slog.InfoContext(ctx, "skip welcome email for identity without email", "user_id", in.UserID, "channel", in.Channel)
		return nil
	}

	w := entity.Welcome{UserID: in.UserID, Email: in.Email, Handle: in.Handle, Channel: in.Channel}

	err := s.idempotency.Exec(ctx, w.DedupKey(), func(ctx context.Context) error {
		return s.sendWelcome(ctx, w)
	}, idempotency.WithRetryFailed())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "welcome email already handled", "user_id", in.UserID, "reason", err.Error())
		return nil
	default:
		slog.ErrorContext(ctx, "failed to send welcome email", "user_id", in.UserID, "error", err)
		return err
	}
}

func (s *Usecase) sendWelcome(ctx context.Context, w entity.Welcome) error {
	data := s.baseEmailTemplateData()
	data["name"] = w.Greeting()

	body, err := s.renderTemplate("welcome", welcomeBody, data)
	if err != nil {
		return err
	}

	return s.repoMail.Send(ctx, mail.Message{
		To:       []string{w.Email},
		Subject:  welcomeSubject,
		HTMLBody: body,
	})
}
