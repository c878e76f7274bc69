package username

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"

	"github.com/notehq/notehub/internal/apperrors"
)

const defaultMaxAttempts = 5

// Keep this small interface so tests can fake it easily.
type ExistsChecker interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// Generator derives a unique username from an email local-part. Uniqueness is
// checked against the store; on collision a fresh random suffix is tried, a
// bounded number of times. The users table still carries a unique constraint,
// so a race between two generators fails loudly at insert rather than
// producing a duplicate.
type Generator struct {
	store       ExistsChecker
	maxAttempts int
}

func NewGenerator(store ExistsChecker) *Generator {
	return &Generator{
		store:       store,
		maxAttempts: defaultMaxAttempts,
	}
}

func (g *Generator) GenerateUnique(ctx context.Context, base string) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate, err := Candidate(base)

		if err != nil {
			return "", err
		}

		exists, err := g.store.UsernameExists(ctx, candidate)

		if err != nil {
			return "", err
		}

		if !exists {
			return candidate, nil
		}
	}

	return "", apperrors.New(apperrors.KindExhausted, "failed to generate unique username after several attempts")
}

// Candidate builds one username candidate: the sanitized base plus a random
// 4-digit suffix, or "user" plus a 5-digit suffix when nothing of the base
// survives sanitizing.
func Candidate(base string) (string, error) {
	sanitized := sanitize(base)

	if sanitized == "" {
		suffix, err := randomInRange(10000, 99999)

		if err != nil {
			return "", err
		}

		return "user" + strconv.FormatInt(suffix, 10), nil
	}

	suffix, err := randomInRange(1000, 9999)

	if err != nil {
		return "", err
	}

	return sanitized + strconv.FormatInt(suffix, 10), nil
}

// lowercase alphanumeric only
func sanitize(base string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func randomInRange(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))

	if err != nil {
		return 0, err
	}

	return min + n.Int64(), nil
}
