package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/tadka/internal/identity/usecase"
	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/shandysiswandi/tadka/internal/pkg/messaging"
	"github.com/shandysiswandi/tadka/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishUserRegistered(ctx context.Context, msg usecase.UserRegisteredEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishUserRegistered")
	defer span.End()

	body, err := json.Marshal(event.UserRegisteredMessage{
		UserID:      msg.UserID,
		Email:       msg.Email,
		PhoneNumber: msg.PhoneNumber,
		Handle:      msg.Handle,
		Channel:     msg.Channel.String(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if err := m.client.Publish(ctx, event.UserRegisteredDestination, messaging.OutgoingMessage{
		Key:     []byte(strconv.FormatInt(msg.UserID, 10)),
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
