package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/tadka/internal/pkg/clock"
	"github.com/shandysiswandi/tadka/internal/pkg/config"
	"github.com/shandysiswandi/tadka/internal/pkg/idempotency"
	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/shandysiswandi/tadka/internal/pkg/mail"
	"github.com/shandysiswandi/tadka/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMail struct {
	sent []mail.Message
	err  error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// memIdempotency mirrors the Redis tracker: completed keys are skipped and
// failed keys run again when retry is allowed.
type memIdempotency struct {
	done map[string]bool
}

func (m *memIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if m.done[key] {
		return idempotency.ErrAlreadyCompleted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	m.done[key] = true
	return nil
}

func newUsecase(t *testing.T, m *fakeMail) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
app:
  web: https://tadka.example.com
mail:
  support_address: help@tadka.example.com
`))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	return NewNotification(Dependency{
		RepoMail:    m,
		Idempotency: &memIdempotency{done: map[string]bool{}},
		Config:      cfg,
		Clock:       clock.NewManual(time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)),
		Validator:   v,
		Instrument:  instrument.NewNoop(),
	})
}

func TestUsecase_ConsumeUserRegistered(t *testing.T) {
	t.Run("sends once per user", func(t *testing.T) {
		// Arrange
		m := &fakeMail{}
		uc := newUsecase(t, m)
		in := ConsumeUserRegisteredInput{UserID: 42, Email: "chef.ravi@example.com", Handle: "chef.ravi", Channel: "email"}

		// Act
		err1 := uc.ConsumeUserRegistered(context.Background(), in)
		err2 := uc.ConsumeUserRegistered(context.Background(), in)

		// Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.Len(t, m.sent, 1)
		assert.Equal(t, []string{"chef.ravi@example.com"}, m.sent[0].To)
		assert.Equal(t, welcomeSubject, m.sent[0].Subject)
		assert.Contains(t, m.sent[0].HTMLBody, "Namaste chef.ravi")
		assert.Contains(t, m.sent[0].HTMLBody, "help@tadka.example.com")
		assert.Contains(t, m.sent[0].HTMLBody, "2026")
	})

	t.Run("phone only identity is skipped", func(t *testing.T) {
		m := &fakeMail{}
		uc := newUsecase(t, m)

		err := uc.ConsumeUserRegistered(context.Background(), ConsumeUserRegisteredInput{
			UserID: 7, PhoneNumber: "+919876543210", Handle: "user_3210", Channel: "phone",
		})

		require.NoError(t, err)
		assert.Empty(t, m.sent)
	})

	t.Run("invalid payload is dropped", func(t *testing.T) {
		m := &fakeMail{}
		uc := newUsecase(t, m)

		err := uc.ConsumeUserRegistered(context.Background(), ConsumeUserRegisteredInput{Email: "x@example.com"})

		require.NoError(t, err)
		assert.Empty(t, m.sent)
	})

	t.Run("mail failure is returned for redelivery", func(t *testing.T) {
		boom := errors.New("smtp down")
		m := &fakeMail{err: boom}
		uc := newUsecase(t, m)
		in := ConsumeUserRegisteredInput{UserID: 9, Email: "meera@example.com"}

		err := uc.ConsumeUserRegistered(context.Background(), in)
		assert.ErrorIs(t, err, boom)

		m.err = nil
		require.NoError(t, uc.ConsumeUserRegistered(context.Background(), in))
		require.Len(t, m.sent, 1)
		assert.Contains(t, m.sent[0].HTMLBody, "Namaste meera")
	})
}
