package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/pkg/goerror"
	"github.com/shandysiswandi/tadka/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(t *testing.T, h *harness) *AuthOutput {
	t.Helper()

	out, err := h.uc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	return out
}

func TestUsecase_RefreshToken(t *testing.T) {
	t.Run("mints a new access token", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		auth := signedIn(t, h)
		h.clock.Advance(20 * time.Minute)

		// Act
		out, err := h.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: auth.Session.RefreshToken})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(900), out.AccessExpiresIn)

		clm, err := h.jwt.Verify(out.AccessToken, jwt.TokenAccess)
		require.NoError(t, err)
		assert.Equal(t, auth.User.ID, clm.UserID)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		h := newHarness(t)
		auth := signedIn(t, h)

		_, err := h.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: auth.Session.AccessToken})

		requireCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		h := newHarness(t)
		auth := signedIn(t, h)
		h.clock.Advance(169 * time.Hour)

		_, err := h.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: auth.Session.RefreshToken})

		requireCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("identity gone", func(t *testing.T) {
		h := newHarness(t)
		auth := signedIn(t, h)
		delete(h.db.users, auth.User.ID)

		_, err := h.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: auth.Session.RefreshToken})

		requireCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("empty token", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.uc.RefreshToken(context.Background(), RefreshTokenInput{})

		requireCode(t, err, goerror.CodeInvalidInput)
	})
}

func TestUsecase_Logout(t *testing.T) {
	t.Run("revoke then refresh is rejected", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		auth := signedIn(t, h)
		ctx := authCtx(auth.User.ID)
		h.clock.Advance(time.Hour)

		// Act
		err := h.uc.Logout(ctx, LogoutInput{RefreshToken: auth.Session.RefreshToken})

		// Assert
		require.NoError(t, err)

		clm, err := h.jwt.Verify(auth.Session.RefreshToken, jwt.TokenRefresh)
		require.NoError(t, err)
		assert.Equal(t, 167*time.Hour, h.cache.revoked[clm.ID])

		_, err = h.uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: auth.Session.RefreshToken})
		requireCode(t, err, goerror.CodeUnauthorized)
		assert.ErrorIs(t, err, entity.ErrTokenRevoked)
	})

	t.Run("refreshes racing a revoke never outlive it", func(t *testing.T) {
		// Arrange
		h := newHarness(t)
		auth := signedIn(t, h)
		ctx := authCtx(auth.User.ID)
		in := RefreshTokenInput{RefreshToken: auth.Session.RefreshToken}

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			during []error
			after  []error
		)
		revoked := make(chan struct{})
		refresh := func(into *[]error) {
			_, err := h.uc.RefreshToken(context.Background(), in)
			mu.Lock()
			*into = append(*into, err)
			mu.Unlock()
		}

		for range 8 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				refresh(&during)
			}()
			go func() {
				defer wg.Done()
				<-revoked
				refresh(&after)
			}()
		}

		// Act
		err := h.uc.Logout(ctx, LogoutInput{RefreshToken: auth.Session.RefreshToken})
		close(revoked)
		wg.Wait()

		// Assert
		require.NoError(t, err)
		require.Len(t, after, 8)
		for _, err := range after {
			requireCode(t, err, goerror.CodeUnauthorized)
			assert.ErrorIs(t, err, entity.ErrTokenRevoked)
		}
		require.Len(t, during, 8)
		for _, err := range during {
			if err != nil {
				assert.ErrorIs(t, err, entity.ErrTokenRevoked)
			}
		}
	})

	t.Run("revoking twice is fine", func(t *testing.T) {
		h := newHarness(t)
		auth := signedIn(t, h)
		ctx := authCtx(auth.User.ID)

		require.NoError(t, h.uc.Logout(ctx, LogoutInput{RefreshToken: auth.Session.RefreshToken}))
		require.NoError(t, h.uc.Logout(ctx, LogoutInput{RefreshToken: auth.Session.RefreshToken}))
		assert.Len(t, h.cache.revoked, 1)
	})

	t.Run("expired token is accepted with the minimum ttl", func(t *testing.T) {
		h := newHarness(t)
		auth := signedIn(t, h)
		h.clock.Advance(200 * time.Hour)

		err := h.uc.Logout(authCtx(auth.User.ID), LogoutInput{RefreshToken: auth.Session.RefreshToken})

		require.NoError(t, err)
		for _, ttl := range h.cache.revoked {
			assert.Equal(t, time.Second, ttl)
		}
	})

	t.Run("garbage token is a validation error", func(t *testing.T) {
		h := newHarness(t)
		auth := signedIn(t, h)

		err := h.uc.Logout(authCtx(auth.User.ID), LogoutInput{RefreshToken: "not.a.token"})

		requireCode(t, err, goerror.CodeInvalidInput)
		assert.Empty(t, h.cache.revoked)
	})

	t.Run("token of another identity", func(t *testing.T) {
		h := newHarness(t)
		auth := signedIn(t, h)

		err := h.uc.Logout(authCtx(auth.User.ID+1), LogoutInput{RefreshToken: auth.Session.RefreshToken})

		requireCode(t, err, goerror.CodeForbidden)
	})

	t.Run("no token is a no-op", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.uc.Logout(authCtx(1), LogoutInput{}))
		assert.Empty(t, h.cache.revoked)
	})

	t.Run("anonymous", func(t *testing.T) {
		h := newHarness(t)

		err := h.uc.Logout(context.Background(), LogoutInput{RefreshToken: "x"})

		requireCode(t, err, goerror.CodeUnauthorized)
	})
}
