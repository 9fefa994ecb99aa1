package passcode

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/phorm-app/phorm/internal/passcode Generator

// maxGenerateAttempts bounds the uniqueness retry loop. With 900,000
// possible codes the loop terminates on the first or second try in practice;
// the cap only guards against a broken existence check.
const maxGenerateAttempts = 100

// ErrGenerationExhausted is returned when no unique passcode was found
// within the retry budget.
var ErrGenerationExhausted = errors.New("exhausted passcode generation attempts")

var passcodePattern = regexp.MustCompile(`^\d{6}$`)

// ExistsFunc reports whether a candidate passcode is already held by an
// active session.
type ExistsFunc func(ctx context.Context, passcode string) (bool, error)

// Generator produces random 6-digit session passcodes
type Generator interface {
	// Generate returns a uniformly random 6-digit passcode in
	// ["100000".."999999"]
	Generate() string

	// GenerateUnique returns the first generated passcode for which exists
	// reports false, or ErrGenerationExhausted after the retry budget
	GenerateUnique(ctx context.Context, exists ExistsFunc) (string, error)
}

// DefaultGenerator implements Generator using math/rand
type DefaultGenerator struct {
	random *rand.Rand
}

// Config for the passcode generator
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new passcode generator
func New(cfg *Config) *DefaultGenerator {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)
	random := rand.New(source)

	return &DefaultGenerator{
		random: random,
	}
}

// Generate returns a random 6-digit passcode. The leading digit is never
// zero, so the value is always in [100000, 999999].
func (g *DefaultGenerator) Generate() string {
	return fmt.Sprintf("%06d", 100000+g.random.Intn(900000))
}

// GenerateUnique repeatedly generates candidates until exists reports false
func (g *DefaultGenerator) GenerateUnique(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		candidate := g.Generate()

		inUse, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check passcode uniqueness: %w", err)
		}

		if !inUse {
			return candidate, nil
		}
	}

	return "", ErrGenerationExhausted
}

// IsValid reports whether s is exactly 6 ASCII digits
func IsValid(s string) bool {
	return passcodePattern.MatchString(s)
}
