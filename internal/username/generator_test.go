package username

import (
	"context"
	"strings"
	"testing"

	"github.com/notehq/notehub/internal/apperrors"
)

type fakeStore struct {
	existsFn func(ctx context.Context, username string) (bool, error)
	calls    int
}

func (f *fakeStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	f.calls++
	if f.existsFn != nil {
		return f.existsFn(ctx, username)
	}
	return false, nil
}

func TestGenerateUnique_FirstTry(t *testing.T) {
	store := &fakeStore{}
	g := NewGenerator(store)

	got, err := g.GenerateUnique(context.Background(), "Sam.Doe")

	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.HasPrefix(got, "samdoe") {
		t.Fatalf("got %q, want samdoe prefix", got)
	}

	// sanitized base + 4-digit suffix
	if len(got) != len("samdoe")+4 {
		t.Fatalf("got %q, want 4-digit suffix", got)
	}

	if store.calls != 1 {
		t.Fatalf("expected 1 store call, got %d", store.calls)
	}
}

func TestGenerateUnique_RetriesOnCollision(t *testing.T) {
	taken := 0

	store := &fakeStore{
		existsFn: func(ctx context.Context, username string) (bool, error) {
			// first two candidates collide
			taken++
			return taken <= 2, nil
		},
	}

	g := NewGenerator(store)

	got, err := g.GenerateUnique(context.Background(), "sam")

	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if got == "" {
		t.Fatalf("expected a username")
	}

	if store.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", store.calls)
	}
}

func TestGenerateUnique_ExhaustsAttempts(t *testing.T) {
	store := &fakeStore{
		existsFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil // every candidate collides
		},
	}

	g := NewGenerator(store)

	_, err := g.GenerateUnique(context.Background(), "sam")

	if !apperrors.IsKind(err, apperrors.KindExhausted) {
		t.Fatalf("expected generation_exhausted, got %v", err)
	}

	if store.calls != defaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultMaxAttempts, store.calls)
	}
}

func TestCandidate_EmptyBaseFallsBack(t *testing.T) {
	got, err := Candidate("+-/!")

	if err != nil {
		t.Fatalf("candidate failed: %v", err)
	}

	if !strings.HasPrefix(got, "user") {
		t.Fatalf("got %q, want user prefix", got)
	}

	// "user" + 5-digit suffix
	if len(got) != len("user")+5 {
		t.Fatalf("got %q, want 5-digit suffix", got)
	}
}

func TestCandidate_Sanitizes(t *testing.T) {
	got, err := Candidate("Sam.Doe+Work_99")

	if err != nil {
		t.Fatalf("candidate failed: %v", err)
	}

	if !strings.HasPrefix(got, "samdoework99") {
		t.Fatalf("got %q, want lowercase alphanumeric base", got)
	}
}
