package passcode

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	gen := New(&Config{Seed: 42})

	for i := 0; i < 1000; i++ {
		code := gen.Generate()

		require.Len(t, code, 6)
		assert.True(t, IsValid(code), "generated code %q should be valid", code)

		value, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, value, 100000)
		assert.LessOrEqual(t, value, 999999)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		passcode string
		want     bool
	}{
		{"six digits", "123456", true},
		{"all zeros", "000000", true},
		{"empty string", "", false},
		{"five digits", "12345", false},
		{"seven digits", "1234567", false},
		{"with letter", "12345a", false},
		{"leading whitespace", " 123456", false},
		{"trailing whitespace", "123456 ", false},
		{"non-ascii digits", "１２３４５６", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.passcode))
		})
	}
}

func TestGenerateUnique(t *testing.T) {
	gen := New(&Config{Seed: 42})

	code, err := gen.GenerateUnique(context.Background(), func(ctx context.Context, passcode string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.True(t, IsValid(code))
}

func TestGenerateUniqueSkipsTakenCodes(t *testing.T) {
	gen := New(&Config{Seed: 42})

	// Reject the first three candidates, accept the fourth.
	attempts := 0
	code, err := gen.GenerateUnique(context.Background(), func(ctx context.Context, passcode string) (bool, error) {
		attempts++
		return attempts <= 3, nil
	})
	require.NoError(t, err)
	assert.True(t, IsValid(code))
	assert.Equal(t, 4, attempts)
}

func TestGenerateUniqueExhaustsAttempts(t *testing.T) {
	gen := New(&Config{Seed: 42})

	attempts := 0
	_, err := gen.GenerateUnique(context.Background(), func(ctx context.Context, passcode string) (bool, error) {
		attempts++
		return true, nil
	})
	require.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Equal(t, maxGenerateAttempts, attempts)
}

func TestGenerateUniquePropagatesCheckError(t *testing.T) {
	gen := New(&Config{Seed: 42})

	checkErr := errors.New("store unavailable")
	_, err := gen.GenerateUnique(context.Background(), func(ctx context.Context, passcode string) (bool, error) {
		return false, checkErr
	})
	require.ErrorIs(t, err, checkErr)
}
