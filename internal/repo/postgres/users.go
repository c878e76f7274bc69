package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notehq/notehub/internal/apperrors"
	"github.com/notehq/notehub/internal/domain/user"
	"github.com/notehq/notehub/internal/observability"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

const userColumns = `id, email, username, password_hash, created_at, updated_at`

// Create inserts a new user. Email and username uniqueness is enforced by the
// database; a concurrent duplicate surfaces here as a conflict, not a race.
func (r *UsersRepo) Create(ctx context.Context, email, username, passwordHash string) (user.User, error) {
	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := observe(r.prom, "users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			u.ID, u.Email, u.Username, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, apperrors.Wrap(apperrors.KindConflict, "user already exists", err)
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	return r.findOne(ctx, "users.find_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UsersRepo) FindByUsername(ctx context.Context, username string) (user.User, error) {
	return r.findOne(ctx, "users.find_by_username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UsersRepo) FindByID(ctx context.Context, id string) (user.User, error) {
	return r.findOne(ctx, "users.find_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) findOne(ctx context.Context, op, query string, arg string) (user.User, error) {
	var u user.User

	err := observe(r.prom, op, func() error {
		return r.pool.QueryRow(ctx, query, arg).Scan(
			&u.ID,
			&u.Email,
			&u.Username,
			&u.PasswordHash,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, apperrors.New(apperrors.KindNotFound, "user not found")
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "users.email_exists", `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UsersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "users.username_exists", `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UsersRepo) exists(ctx context.Context, op, query string, arg string) (bool, error) {
	var found bool

	err := observe(r.prom, op, func() error {
		return r.pool.QueryRow(ctx, query, arg).Scan(&found)
	})

	if err != nil {
		return false, err
	}

	return found, nil
}
