package usecase

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/clock"
	"github.com/shandysiswandi/tadka/internal/pkg/config"
	"github.com/shandysiswandi/tadka/internal/pkg/crypter"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/hash"
	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/shandysiswandi/tadka/internal/pkg/jwt"
	"github.com/shandysiswandi/tadka/internal/pkg/otp"
	"github.com/shandysiswandi/tadka/internal/pkg/uid"
	"github.com/shandysiswandi/tadka/internal/pkg/validator"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPhone = "+19995550001"

var reCode = regexp.MustCompile(`\b(\d{6})\b`)

type fakeDB struct {
	mu         sync.Mutex
	challenges map[string]entity.OTPChallenge
	users      map[int64]entity.User
	profiles   map[int64]entity.Profile
	failWith   error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		challenges: map[string]entity.OTPChallenge{},
		users:      map[int64]entity.User{},
		profiles:   map[int64]entity.Profile{},
	}
}

func (f *fakeDB) GetOrCreateChallenge(_ context.Context, draft entity.OTPChallenge, fn func(c *entity.OTPChallenge, created bool) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	c, ok := f.challenges[draft.PhoneNumber]
	if !ok {
		c = draft
	}
	c.SecretEnc = bytes.Clone(c.SecretEnc)

	if err := fn(&c, !ok); err != nil {
		return err
	}

	f.challenges[c.PhoneNumber] = c
	return nil
}

func (f *fakeDB) VerifyChallenge(_ context.Context, phone string, fn func(c *entity.OTPChallenge) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	c, ok := f.challenges[phone]
	if !ok {
		return goerror.ErrNotFound
	}

	if err := fn(&c); err != nil {
		return err
	}

	f.challenges[phone] = c
	return nil
}

func (f *fakeDB) DeleteStaleChallenges(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for phone, c := range f.challenges {
		if c.ExpiresAt.Before(before) {
			delete(f.challenges, phone)
			n++
		}
	}
	return n, nil
}

func (f *fakeDB) ResolveUserByPhone(_ context.Context, draft entity.User) (*entity.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, false, f.failWith
	}

	for id, u := range f.users {
		if u.PhoneNumber == draft.PhoneNumber {
			u.PhoneVerified = true
			f.users[id] = u
			return &u, false, nil
		}
	}

	f.users[draft.ID] = draft
	f.profiles[draft.ID] = entity.Profile{UserID: draft.ID, CookingExperience: entity.CookingBeginner}
	return &draft, true, nil
}

func (f *fakeDB) CreateUser(_ context.Context, user entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if (user.Email != "" && u.Email == user.Email) || (user.PhoneNumber != "" && u.PhoneNumber == user.PhoneNumber) {
			return goerror.ErrConflict
		}
	}

	if user.Profile != nil {
		f.profiles[user.ID] = *user.Profile
	}
	user.Profile = nil
	f.users[user.ID] = user
	return nil
}

func (f *fakeDB) ExistsUserByPhone(_ context.Context, phone string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) find(match func(entity.User) bool) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	for _, u := range f.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.find(func(u entity.User) bool { return u.Email != "" && u.Email == email })
}

func (f *fakeDB) GetUserByPhone(_ context.Context, phone string) (*entity.User, error) {
	return f.find(func(u entity.User) bool { return u.PhoneNumber == phone })
}

func (f *fakeDB) GetUserByID(_ context.Context, id int64, withProfile bool) (*entity.User, error) {
	u, err := f.find(func(u entity.User) bool { return u.ID == id })
	if err != nil || !withProfile {
		return u, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		u.Profile = &p
	}
	return u, nil
}

func (f *fakeDB) UpdateUserNames(_ context.Context, in entity.UserNames) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[in.UserID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	u.FirstName, u.LastName, u.LanguagePreference = in.FirstName, in.LastName, in.LanguagePreference
	f.users[in.UserID] = u
	return &u, nil
}

func (f *fakeDB) UpdateUserPassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return goerror.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeDB) GetOrCreateProfile(_ context.Context, userID int64) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		p = entity.Profile{UserID: userID, CookingExperience: entity.CookingBeginner}
		f.profiles[userID] = p
	}
	return &p, nil
}

func (f *fakeDB) UpsertProfile(_ context.Context, p entity.Profile) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.profiles[p.UserID] = p
	return &p, nil
}

func (f *fakeDB) challenge(t *testing.T, phone string) entity.OTPChallenge {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.challenges[phone]
	require.True(t, ok, "challenge for %s", phone)
	return c
}

type fakeCache struct {
	mu       sync.Mutex
	revoked  map[string]time.Duration
	attempts map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{revoked: map[string]time.Duration{}, attempts: map[string]int64{}}
}

func (f *fakeCache) RevokeToken(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.revoked[jti]; ok {
		return false, nil
	}
	f.revoked[jti] = ttl
	return true, nil
}

func (f *fakeCache) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.revoked[jti]
	return ok, nil
}

func attemptKey(phoneKey string, window time.Time) string {
	return phoneKey + ":" + window.UTC().Format(time.RFC3339)
}

func (f *fakeCache) CountVerifyAttempts(_ context.Context, phoneKey string, window time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.attempts[attemptKey(phoneKey, window)], nil
}

func (f *fakeCache) IncrVerifyAttempts(_ context.Context, phoneKey string, window time.Time, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts[attemptKey(phoneKey, window)]++
	return f.attempts[attemptKey(phoneKey, window)], nil
}

type sentSMS struct {
	to   string
	text string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMS) SendOTP(ctx context.Context, phone, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		return errors.New("delivery without deadline")
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{to: phone, text: text})
	return nil
}

func (f *fakeSMS) last(t *testing.T) sentSMS {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func (f *fakeSMS) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeMQ struct {
	mu     sync.Mutex
	events []UserRegisteredEvent
	err    error
}

func (f *fakeMQ) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)
	return nil
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return 1000 + s.n
}

type harness struct {
	uc      *Usecase
	db      *fakeDB
	cache   *fakeCache
	sms     *fakeSMS
	mq      *fakeMQ
	clock   *clock.Manual
	jwt     *jwt.Symmetric
	otp     *otp.Generator
	crypter *crypter.AESGCM
}

const baseConfig = `
otp:
  ttl_minutes: 5
  max_verify_attempts: 3
  sweep:
    retention_hours: 24
sms:
  timeout_seconds: 2
`

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(baseConfig))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := clock.NewManual(time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC))

	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:     bytes.Repeat([]byte("k"), 64),
		Issuer:     "tadka-test",
		Audiences:  []string{"tadka"},
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 168 * time.Hour,
		Clock:      clk,
		UUID:       uid.NewUUID(),
	})
	require.NoError(t, err)

	sealer, err := crypter.NewAESGCM(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	h := &harness{
		db:      newFakeDB(),
		cache:   newFakeCache(),
		sms:     &fakeSMS{},
		mq:      &fakeMQ{},
		clock:   clk,
		jwt:     tokens,
		otp:     otp.NewGenerator(otp.Config{Period: 300}),
		crypter: sealer,
	}

	h.uc = New(Dependency{
		RepoDB:        h.db,
		RepoCache:     h.cache,
		RepoSMS:       h.sms,
		RepoMessaging: h.mq,
		Validator:     v,
		Config:        cfg,
		Password:      hash.NewBcrypt(bcrypt.MinCost, "pepper"),
		HMAC:          hash.NewHMACSHA256("hmac-secret"),
		Crypter:       h.crypter,
		OTP:           h.otp,
		UID:           &seqID{},
		Clock:         clk,
		JWT:           tokens,
		Instrument:    instrument.NewNoop(),
	})

	return h
}

// lastCode returns the code carried by the most recent SMS.
func (h *harness) lastCode(t *testing.T) string {
	t.Helper()

	m := reCode.FindStringSubmatch(h.sms.last(t).text)
	require.Len(t, m, 2)
	return m[1]
}

func (h *harness) secretOf(t *testing.T, phone string) string {
	t.Helper()

	plain, err := h.crypter.Open(h.db.challenge(t, phone).SecretEnc, phone)
	require.NoError(t, err)
	return string(plain)
}

func authCtx(userID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID})
}

func requireCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	require.Error(t, err)
	require.Equal(t, want.String(), goerror.CodeOf(err).String(), "error: %v", err)
}
