package otp

import (
	"encoding/base32"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestGenerator_NewSecret(t *testing.T) {
	g := NewGenerator(Config{})

	a, err := g.NewSecret()
	require.NoError(t, err)
	b, err := g.NewSecret()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)

	raw, err := base32.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, secretSize)
}

func TestGenerator_DeriveCode(t *testing.T) {
	g := NewGenerator(Config{Period: 300})
	secret, err := g.NewSecret()
	require.NoError(t, err)

	windowStart := time.Unix(1_700_000_100, 0).Truncate(300 * time.Second)

	t.Run("same window yields same code", func(t *testing.T) {
		// Act
		first, err := g.DeriveCode(secret, windowStart)
		require.NoError(t, err)
		last, err := g.DeriveCode(secret, windowStart.Add(299*time.Second))
		require.NoError(t, err)

		// Assert
		assert.Regexp(t, sixDigits, first)
		assert.Equal(t, first, last)
	})

	t.Run("later windows roll the code", func(t *testing.T) {
		// Arrange
		current, err := g.DeriveCode(secret, windowStart)
		require.NoError(t, err)

		// Act
		changed := false
		for i := 1; i <= 3; i++ {
			next, err := g.DeriveCode(secret, windowStart.Add(time.Duration(i)*300*time.Second))
			require.NoError(t, err)
			if next != current {
				changed = true
			}
		}

		// Assert
		assert.True(t, changed)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := g.DeriveCode("", windowStart)
		assert.ErrorIs(t, err, ErrEmptySecret)
	})
}

func TestGenerator_Period(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want time.Duration
	}{
		{name: "configured", cfg: Config{Period: 120}, want: 2 * time.Minute},
		{name: "zero falls back", cfg: Config{}, want: 5 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewGenerator(tt.cfg).Period())
		})
	}
}
