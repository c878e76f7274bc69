package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notehq/notehub/internal/security"
)

const (
	demoEmail    = "demo@example.com"
	demoUsername = "demouser"
	demoPassword = "DemoUser123$"
)

var demoNotes = []struct {
	title   string
	content string
}{
	{
		title:   "Welcome to Notehub",
		content: "This is your first note. You can create, edit, search and delete notes to organize your thoughts.",
	},
	{
		title:   "Keyboard shortcuts wishlist",
		content: "Cmd+K quick search, Cmd+N new note, Cmd+Enter save.",
	},
}

// EnsureDemoUser seeds a demo account with a couple of notes for local
// development. No-op when the account already exists.
func EnsureDemoUser(ctx context.Context, pool *pgxpool.Pool) error {
	var exists bool

	err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, demoEmail).Scan(&exists)

	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	hash, err := security.HashPassword(demoPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()
	userID := uuid.NewString()

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		userID, demoEmail, demoUsername, hash, now, now,
	)

	if err != nil {
		return err
	}

	for _, n := range demoNotes {
		_, err = pool.Exec(ctx,
			`INSERT INTO notes (id, title, content, user_id, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.NewString(), n.title, n.content, userID, now, now,
		)

		if err != nil {
			return err
		}
	}

	return nil
}
