package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notehq/notehub/internal/apperrors"
	"github.com/notehq/notehub/internal/domain/note"
	"github.com/notehq/notehub/internal/observability"
)

type NotesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewNotesRepo(pool *pgxpool.Pool, prom *observability.Prom) *NotesRepo {
	return &NotesRepo{pool: pool, prom: prom}
}

const noteColumns = `id, title, content, user_id, created_at, updated_at`

// case-insensitive substring match on title or content
const searchCond = `(title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')`

func (r *NotesRepo) Create(ctx context.Context, userID, title, content string) (note.Note, error) {
	now := time.Now().UTC()

	n := note.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := observe(r.prom, "notes.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO notes (id, title, content, user_id, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			n.ID, n.Title, n.Content, n.UserID, n.CreatedAt, n.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return note.Note{}, err
	}

	return n, nil
}

func (r *NotesRepo) FindByID(ctx context.Context, id string) (note.Note, error) {
	var n note.Note

	err := observe(r.prom, "notes.find_by_id", func() error {
		return r.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id).
			Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.CreatedAt, &n.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return note.Note{}, apperrors.New(apperrors.KindNotFound, "note not found")
		}
		return note.Note{}, err
	}

	return n, nil
}

// FindByOwner returns one page of a user's notes, newest first. The id
// tiebreaker keeps the ordering stable across pages.
func (r *NotesRepo) FindByOwner(ctx context.Context, userID string, limit, offset int) ([]note.Note, error) {
	return r.list(ctx, "notes.find_by_owner",
		`SELECT `+noteColumns+` FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
}

func (r *NotesRepo) SearchByOwner(ctx context.Context, userID, query string, limit, offset int) ([]note.Note, error) {
	return r.list(ctx, "notes.search_by_owner",
		`SELECT `+noteColumns+` FROM notes
		WHERE user_id = $1 AND `+searchCond+`
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		userID, query, limit, offset)
}

func (r *NotesRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]note.Note, error) {
	var output []note.Note

	err := observe(r.prom, op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]note.Note, 0)

		for rows.Next() {
			var n note.Note

			err = rows.Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.CreatedAt, &n.UpdatedAt)

			if err != nil {
				return err
			}

			output = append(output, n)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *NotesRepo) CountByOwner(ctx context.Context, userID string) (int, error) {
	var total int

	err := observe(r.prom, "notes.count_by_owner", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notes WHERE user_id = $1`, userID).Scan(&total)
	})

	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *NotesRepo) CountSearchByOwner(ctx context.Context, userID, query string) (int, error) {
	var total int

	err := observe(r.prom, "notes.count_search_by_owner", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM notes WHERE user_id = $1 AND `+searchCond, userID, query).Scan(&total)
	})

	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *NotesRepo) Update(ctx context.Context, id string, title, content *string) (note.Note, error) {
	var n note.Note

	err := observe(r.prom, "notes.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE notes
				SET title = COALESCE($2, title),
						content = COALESCE($3, content),
						updated_at = NOW()
			WHERE id = $1
			RETURNING `+noteColumns,
			id, title, content,
		).Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.CreatedAt, &n.UpdatedAt)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return note.Note{}, apperrors.New(apperrors.KindNotFound, "note not found")
		}
		// if it is any other type of error
		return note.Note{}, err
	}

	return n, nil
}

func (r *NotesRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := observe(r.prom, "notes.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return apperrors.New(apperrors.KindNotFound, "note not found")
	}

	return nil
}

func (r *NotesRepo) Exists(ctx context.Context, id string) (bool, error) {
	var found bool

	err := observe(r.prom, "notes.exists", func() error {
		return r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM notes WHERE id = $1)`, id).Scan(&found)
	})

	if err != nil {
		return false, err
	}

	return found, nil
}

func (r *NotesRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string

	err := observe(r.prom, "notes.owner_of", func() error {
		return r.pool.QueryRow(ctx, `SELECT user_id FROM notes WHERE id = $1`, id).Scan(&owner)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.New(apperrors.KindNotFound, "note not found")
		}
		return "", err
	}

	return owner, nil
}
