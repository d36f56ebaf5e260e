package database

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Session is a single unit of work. It is not safe for concurrent use and
// must not outlive the operation that opened it.
type Session struct {
	tx      *gorm.DB
	done    bool
	release func()
}

func (s *Session) Tx() *gorm.DB {
	return s.tx
}

// Commit makes the unit of work visible. The connection is released whether
// or not the commit succeeds.
func (s *Session) Commit() error {
	if s.done {
		return ErrorSessionClosed
	}
	s.finish()

	if err := s.tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Close rolls back an uncommitted unit of work and releases the connection.
// It is a no-op after Commit, so it can always be deferred.
func (s *Session) Close() error {
	if s.done {
		return nil
	}
	s.finish()

	if err := s.tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back session: %w", err)
	}
	return nil
}

func (s *Session) finish() {
	s.done = true
	if s.release != nil {
		s.release()
	}
}
