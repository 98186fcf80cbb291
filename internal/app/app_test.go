package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	User struct {
		ID            string `json:"id"`
		PhoneNumber   string `json:"phone_number"`
		Handle        string `json:"username"`
		PhoneVerified bool   `json:"is_phone_verified"`
	} `json:"user"`
	Tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	} `json:"tokens"`
	Created bool `json:"created"`
}

type server struct {
	t       *testing.T
	baseURL string
	client  *http.Client
	db      *pgxpool.Pool
}

func startApp(t *testing.T) *server {
	t.Helper()
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("tadka"),
		tcpostgres.WithUsername("tadka"),
		tcpostgres.WithPassword("tadka"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rd, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rd.Terminate(context.Background()) })

	redisURL, err := rd.ConnectionString(ctx)
	require.NoError(t, err)

	t.Setenv("CONFIG_PATH", "../../config/config.yaml")
	t.Setenv("TADKA_DATABASE_URL", dsn)
	t.Setenv("TADKA_REDIS_URL", redisURL)
	t.Setenv("TADKA_HASH_BCRYPT_COST", "4")
	t.Setenv("TADKA_MESSAGING_DRIVER", "memory")

	application := New()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errc := application.Serve(l)

	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		application.Stop(stopCtx)
		<-errc
	})

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return &server{
		t:       t,
		baseURL: "http://" + l.Addr().String(),
		client:  &http.Client{Timeout: 5 * time.Second},
		db:      pool,
	}
}

func (s *server) do(method, path string, payload any, token string) (int, envelope) {
	s.t.Helper()

	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		require.NoError(s.t, json.NewEncoder(buf).Encode(payload))
		body = buf
	}

	req, err := http.NewRequest(method, s.baseURL+path, body)
	require.NoError(s.t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func (s *server) issuedCode(phone string) string {
	s.t.Helper()

	var code string
	err := s.db.QueryRow(context.Background(),
		"SELECT code FROM otp_challenges WHERE phone_number = $1", phone).Scan(&code)
	require.NoError(s.t, err)

	return code
}

func TestApp_PhoneSignInFlow(t *testing.T) {
	s := startApp(t)
	const phone = "+19995550001"

	// request a code, then ask again inside the window
	status, env := s.do(http.MethodPost, "/api/v1/identity/otp/send", map[string]string{"phone_number": phone}, "")
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "OTP sent successfully", env.Message)

	status, _ = s.do(http.MethodPost, "/api/v1/identity/otp/send", map[string]string{"phone_number": phone}, "")
	assert.Equal(t, http.StatusTooManyRequests, status)

	// verify creates the identity
	code := s.issuedCode(phone)
	status, env = s.do(http.MethodPost, "/api/v1/identity/otp/verify",
		map[string]string{"phone_number": phone, "otp_code": code}, "")
	require.Equal(t, http.StatusCreated, status, env.Message)

	var auth authData
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	assert.True(t, auth.Created)
	assert.Equal(t, phone, auth.User.PhoneNumber)
	assert.Equal(t, "user_0001", auth.User.Handle)
	assert.True(t, auth.User.PhoneVerified)
	require.NotEmpty(t, auth.Tokens.Access)

	// verifying again resolves the same identity
	status, env = s.do(http.MethodPost, "/api/v1/identity/otp/verify",
		map[string]string{"phone_number": phone, "otp_code": code}, "")
	require.Equal(t, http.StatusOK, status, env.Message)

	var again authData
	require.NoError(t, json.Unmarshal(env.Data, &again))
	assert.False(t, again.Created)
	assert.Equal(t, auth.User.ID, again.User.ID)

	// protected routes
	status, _ = s.do(http.MethodGet, "/api/v1/identity/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = s.do(http.MethodGet, "/api/v1/identity/profile", nil, auth.Tokens.Access)
	require.Equal(t, http.StatusOK, status, env.Message)

	// logout revokes the refresh token
	status, env = s.do(http.MethodPost, "/api/v1/identity/logout",
		map[string]string{"refresh_token": auth.Tokens.Refresh}, auth.Tokens.Access)
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "Logout successful", env.Message)

	status, _ = s.do(http.MethodPost, "/api/v1/identity/refresh", map[string]string{"refresh": auth.Tokens.Refresh}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestApp_EmailRegisterAndLogin(t *testing.T) {
	s := startApp(t)

	status, env := s.do(http.MethodPost, "/api/v1/identity/register", map[string]string{
		"email":               "Chef.Asha@example.com",
		"password":            "masala-dosa-42",
		"password_confirm":    "masala-dosa-42",
		"first_name":          "Asha",
		"language_preference": "hi",
	}, "")
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, "User registered successfully", env.Message)

	status, _ = s.do(http.MethodPost, "/api/v1/identity/register", map[string]string{
		"email":            "chef.asha@EXAMPLE.com",
		"password":         "masala-dosa-42",
		"password_confirm": "masala-dosa-42",
	}, "")
	assert.Equal(t, http.StatusConflict, status)

	status, env = s.do(http.MethodPost, "/api/v1/identity/login", map[string]string{
		"email":    "chef.asha@example.com",
		"password": "masala-dosa-42",
	}, "")
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "Login successful", env.Message)

	var auth authData
	require.NoError(t, json.Unmarshal(env.Data, &auth))

	status, env = s.do(http.MethodGet, "/api/v1/identity/stats", nil, auth.Tokens.Access)
	require.Equal(t, http.StatusOK, status, env.Message)

	status, _ = s.do(http.MethodPost, "/api/v1/identity/login", map[string]string{
		"email":    "chef.asha@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
