package email

import (
	"context"
	"testing"

	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/shandysiswandi/tadka/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMail struct {
	msg mail.Message
}

func (c *captureMail) Send(_ context.Context, msg mail.Message) error {
	c.msg = msg
	return nil
}

func (*captureMail) Close() error { return nil }

func TestMail_Send(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		wantFrom string
	}{
		{name: "default sender", from: "", wantFrom: "hello@tadka.example.com"},
		{name: "explicit sender wins", from: "chef@tadka.example.com", wantFrom: "chef@tadka.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &captureMail{}
			m := New(c, "hello@tadka.example.com", instrument.NewNoop())

			err := m.Send(context.Background(), mail.Message{From: tt.from, To: []string{"a@example.com"}, Subject: "hi"})

			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, c.msg.From)
		})
	}
}
