package sms

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/shandysiswandi/tadka/internal/pkg/sms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type SMS struct {
	sender sms.Sender
	ins    instrument.Instrumentation
}

func NewSMS(sender sms.Sender, ins instrument.Instrumentation) *SMS {
	return &SMS{sender: sender, ins: ins}
}

func (s *SMS) SendOTP(ctx context.Context, phone, text string) error {
	ctx, span := s.ins.Tracer("identity.outbound.sms").Start(ctx, "SendOTP")
	defer span.End()

	receipt, err := s.sender.Send(ctx, phone, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("sms.id", receipt.ID), attribute.String("sms.status", receipt.Status))
	slog.DebugContext(ctx, "otp sms accepted", "sms_id", receipt.ID, "status", receipt.Status)

	return nil
}
