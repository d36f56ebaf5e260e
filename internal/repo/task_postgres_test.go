//go:build integration

package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-manager/internal/database"
	"github.com/BuzzLyutic/task-manager/internal/testutil"
)

// TestTaskRepo_Postgres прогоняет тот же контракт на PostgreSQL в контейнере
func TestTaskRepo_Postgres(t *testing.T) {
	db := testutil.SetupPostgres(t, Models()...)
	require.Equal(t, database.DriverPostgres, db.Driver())

	runRepoContract(t, func(t *testing.T) (*TaskRepo, *database.DB) {
		truncateTasks(t, db)
		return NewTaskRepo(db, zap.NewNop()), db
	})
}

func truncateTasks(t *testing.T, db *database.DB) {
	t.Helper()

	s, err := db.Session(context.Background())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Tx().Exec("TRUNCATE tasks RESTART IDENTITY").Error)
	require.NoError(t, s.Commit())
}
