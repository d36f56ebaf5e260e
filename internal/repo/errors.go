package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrorInvalidArgument = errors.New("invalid argument")
	ErrorConstraint      = errors.New("constraint violation")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorInvalidArgument, fmt.Sprintf(format, args...))
}

// mapError tags integrity violations from either driver; anything else
// passes through untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") { // class 23: integrity constraint violation
		return fmt.Errorf("%w: %w", ErrorConstraint, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %w", ErrorConstraint, err)
	}

	return err
}
