package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/tadka/internal/pkg/config"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/shandysiswandi/tadka/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJWT struct {
	claims jwt.Claims
	err    error
	gotTyp jwt.TokenType
}

func (s *stubJWT) Generate(jwt.Subject, jwt.TokenType) (jwt.Token, error) {
	return jwt.Token{}, nil
}

func (s *stubJWT) Verify(_ string, typ jwt.TokenType) (jwt.Claims, error) {
	s.gotTyp = typ
	return s.claims, s.err
}

type stubUUID struct{}

func (stubUUID) Generate() string { return "cid-generated" }

type created struct {
	ID string `json:"id"`
}

func (created) StatusCode() int      { return http.StatusCreated }
func (created) Message() string      { return "created" }
func (created) Meta() map[string]any { return map[string]any{"v": 1} }

func newTestRouter(t *testing.T, verifier jwt.JWT, yaml string) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("service: tadka-test\n"+yaml))
	require.NoError(t, err)

	return NewRouter(Config{
		Config:          cfg,
		UUID:            stubUUID{},
		JWT:             verifier,
		Instrument:      instrument.NewNoop(),
		PublicEndpoints: []string{"POST /api/v1/identity/otp/send", " get /api/v1/public "},
	})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRouter_Authentication(t *testing.T) {
	verifier := &stubJWT{claims: jwt.Claims{UserID: 42}}
	r := newTestRouter(t, verifier, "")

	r.POST("/api/v1/identity/otp/send", func(*Request) (any, error) { return created{ID: "x"}, nil })
	r.GET("/api/v1/public", func(*Request) (any, error) { return map[string]string{"ok": "yes"}, nil })
	r.GET("/api/v1/identity/profile", func(req *Request) (any, error) {
		clm := jwt.GetAuth(req.Context())
		require.NotNil(t, clm)
		return map[string]int64{"user_id": clm.UserID}, nil
	})

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{name: "public endpoint needs no token", method: http.MethodPost, path: "/api/v1/identity/otp/send", want: http.StatusCreated},
		{name: "public entry is normalized", method: http.MethodGet, path: "/api/v1/public", want: http.StatusOK},
		{name: "welcome is public", method: http.MethodGet, path: "/", want: http.StatusOK},
		{name: "protected without header", method: http.MethodGet, path: "/api/v1/identity/profile", want: http.StatusUnauthorized},
		{name: "protected with wrong scheme", method: http.MethodGet, path: "/api/v1/identity/profile", auth: "Basic abc", want: http.StatusUnauthorized},
		{name: "protected with bearer", method: http.MethodGet, path: "/api/v1/identity/profile", auth: "Bearer token", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()

			// Act
			r.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, jwt.TokenAccess, verifier.gotTyp)
}

func TestRouter_InvalidToken(t *testing.T) {
	r := newTestRouter(t, &stubJWT{err: jwt.ErrTokenExpired}, "")
	r.GET("/me", func(*Request) (any, error) { return nil, nil })

	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decode(t, rec)["message"])
}

func TestRouter_Envelope(t *testing.T) {
	r := newTestRouter(t, nil, "")
	r.POST("/api/v1/identity/otp/send", func(*Request) (any, error) { return created{ID: "abc"}, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/identity/otp/send", http.NoBody))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]any{"id": "abc"}, body["data"])
	assert.Equal(t, map[string]any{"v": float64(1)}, body["meta"])
	assert.Equal(t, "cid-generated", rec.Header().Get(HeaderCorrelationID))
}

func TestRouter_ErrorCodec(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		message string
	}{
		{name: "business", err: goerror.NewBusiness("Please wait before requesting a new OTP", goerror.CodeTooManyRequest), want: http.StatusTooManyRequests, message: "Please wait before requesting a new OTP"},
		{name: "validation fields", err: goerror.NewInvalidInput(nil, "phone_number", "invalid"), want: http.StatusUnprocessableEntity, message: "Validation error"},
		{name: "server", err: goerror.NewServer(errors.New("db down")), want: http.StatusInternalServerError, message: "Internal server error"},
		{name: "plain", err: errors.New("boom"), want: http.StatusInternalServerError, message: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, nil, "")
			r.GET("/api/v1/public", func(*Request) (any, error) { return nil, tt.err })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/public", http.NoBody))

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["message"])
		})
	}
}

func TestRouter_Maintenance(t *testing.T) {
	r := newTestRouter(t, nil, "app:\n  maintenance:\n    endpoints: [\"/api/v1/public\"]\n")
	r.GET("/api/v1/public", func(*Request) (any, error) { return nil, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/public", http.NoBody))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Recover(t *testing.T) {
	r := newTestRouter(t, nil, "")
	r.GET("/api/v1/public", func(*Request) (any, error) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/public", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_NotFound(t *testing.T) {
	r := newTestRouter(t, nil, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequest_DecodeBody(t *testing.T) {
	type payload struct {
		PhoneNumber string `json:"phone_number"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"phone_number":"+19995550001"}`},
		{name: "unknown field", body: `{"phone":"+19995550001"}`, wantErr: true},
		{name: "trailing data", body: `{"phone_number":"1"}{}`, wantErr: true},
		{name: "not json", body: `phone=1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))}

			var p payload
			err := req.DecodeBody(&p)

			if tt.wantErr {
				assert.Equal(t, goerror.CodeInvalidFormat, goerror.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "+19995550001", p.PhoneNumber)
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", realIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "198.51.100.2:4312"
	assert.Equal(t, "198.51.100.2", realIP(req))
}

func TestMask(t *testing.T) {
	keys := maskKeys(nil)
	got := mask(map[string]any{
		"phone_number": "+19995550001",
		"otp_code":     "123456",
		"nested":       []any{map[string]any{"Password": "x"}},
	}, keys)

	assert.Equal(t, map[string]any{
		"phone_number": "+19995550001",
		"otp_code":     "***",
		"nested":       []any{map[string]any{"Password": "***"}},
	}, got)
}
