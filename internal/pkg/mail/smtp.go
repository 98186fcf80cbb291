package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// ErrSMTPHostRequired is returned by NewSMTP when Host or Port is missing.
var ErrSMTPHostRequired = errors.New("mail: smtp host and port are required")

// SMTPConfig configures the SMTP driver.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTP sends mail with net/smtp, authenticating with PLAIN when credentials are set.
type SMTP struct {
	addr string
	from string
	auth smtp.Auth
	send sendMailFunc
}

// NewSMTP validates cfg and returns an SMTP driver.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port <= 0 {
		return nil, ErrSMTPHostRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTP{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: cfg.From,
		auth: auth,
		send: smtp.SendMail,
	}, nil
}

// Send composes msg as MIME and hands it to the server.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if msg.From == "" {
		msg.From = s.from
	}
	if msg.From == "" {
		return ErrNoSender
	}

	raw := compose(msg, boundary())

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(s.addr, s.auth, msg.From, msg.To, raw); err != nil {
		return fmt.Errorf("mail: smtp send: %w", err)
	}

	return nil
}

// Close is a no-op; net/smtp dials per message.
func (*SMTP) Close() error { return nil }

func compose(msg Message, mark string) []byte {
	var b strings.Builder

	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		b.WriteString("Content-Type: multipart/alternative; boundary=" + mark + "\r\n\r\n")
		part(&b, mark, "text/plain", msg.TextBody)
		part(&b, mark, "text/html", msg.HTMLBody)
		b.WriteString("--" + mark + "--\r\n")
	case msg.HTMLBody != "":
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n" + msg.HTMLBody)
	default:
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n" + msg.TextBody)
	}

	return []byte(b.String())
}

func part(b *strings.Builder, mark, contentType, body string) {
	b.WriteString("--" + mark + "\r\n")
	b.WriteString("Content-Type: " + contentType + "; charset=UTF-8\r\n\r\n")
	b.WriteString(body + "\r\n")
}

func boundary() string {
	var buf [12]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "tadka-boundary"
	}
	return "tadka-" + hex.EncodeToString(buf[:])
}
