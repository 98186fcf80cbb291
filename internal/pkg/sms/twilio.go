package sms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrTwilioCredentials is returned when the account, token or sender is missing.
var ErrTwilioCredentials = errors.New("sms: twilio account sid, auth token and from number are required")

// TwilioConfig configures the Twilio Messages API client. BaseURL replaces
// the scheme and host of every API call and is only set against a stub.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	Timeout    time.Duration
}

// Twilio sends through the Messages resource of the Twilio REST API.
type Twilio struct {
	sid     string
	token   string
	from    string
	timeout time.Duration
	base    *url.URL
	next    http.RoundTripper
}

// NewTwilio validates cfg and builds the client.
func NewTwilio(cfg TwilioConfig) (*Twilio, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, ErrTwilioCredentials
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	tw := &Twilio{
		sid:     cfg.AccountSID,
		token:   cfg.AuthToken,
		from:    cfg.From,
		timeout: cfg.Timeout,
		next:    http.DefaultTransport,
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("sms: invalid twilio base url %q", cfg.BaseURL)
		}
		tw.base = u
	}

	return tw, nil
}

// Send submits body to the recipient. Any refusal answered by the API is
// wrapped in ErrRejected.
func (t *Twilio) Send(ctx context.Context, to, body string) (Receipt, error) {
	if to == "" {
		return Receipt{}, ErrRecipientRequired
	}

	rt := &twilioTransport{ctx: ctx, base: t.base, next: t.next}
	rc := t.restClient(rt)

	params := &twilioApi.CreateMessageParams{}
	params.SetPathAccountSid(t.sid)
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	msg, err := rc.Api.CreateMessage(params)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Receipt{}, fmt.Errorf("sms: twilio request: %w", ctxErr)
		}

		var restErr *client.TwilioRestError
		if errors.As(err, &restErr) {
			return Receipt{}, fmt.Errorf("%w: status=%d code=%d message=%q", ErrRejected, restErr.Status, restErr.Code, restErr.Message)
		}

		// error answers without a decodable body
		if rt.status >= http.StatusBadRequest {
			return Receipt{}, fmt.Errorf("%w: status=%d: %v", ErrRejected, rt.status, err)
		}

		return Receipt{}, fmt.Errorf("sms: twilio request: %w", err)
	}

	return Receipt{ID: deref(msg.Sid), Status: deref(msg.Status)}, nil
}

// restClient binds a client to one call so the transport carries its context.
func (t *Twilio) restClient(rt http.RoundTripper) *twilio.RestClient {
	c := &client.Client{
		Credentials: client.NewCredentials(t.sid, t.token),
		HTTPClient:  &http.Client{Timeout: t.timeout, Transport: rt},
	}
	c.SetAccountSid(t.sid)

	return twilio.NewRestClientWithParams(twilio.ClientParams{Client: c})
}

// twilioTransport attaches the caller's context to SDK requests, points them
// at base when set, and remembers the last status code.
type twilioTransport struct {
	ctx    context.Context
	base   *url.URL
	next   http.RoundTripper
	status int
}

func (rt *twilioTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(rt.ctx)
	if rt.base != nil {
		req.URL.Scheme = rt.base.Scheme
		req.URL.Host = rt.base.Host
		req.Host = rt.base.Host
	}

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	rt.status = resp.StatusCode
	return resp, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
