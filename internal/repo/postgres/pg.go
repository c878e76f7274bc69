package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/notehq/notehub/internal/observability"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

// shared metrics hook; prom may be nil (tests, seed scripts)
func observe(prom *observability.Prom, op string, fn func() error) error {
	if prom != nil {
		return prom.ObserveDB(op, fn)
	}
	return fn()
}
