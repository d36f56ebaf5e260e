package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-manager/internal/database"
)

// SetupSQLite создает изолированную in-memory БД и мигрирует переданные модели
func SetupSQLite(t *testing.T, models ...any) *database.DB {
	t.Helper()
	return open(t, ":memory:", models...)
}

// SetupPostgres поднимает PostgreSQL в контейнере через testcontainers
func SetupPostgres(t *testing.T, models ...any) *database.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	return open(t, connStr, models...)
}

func open(t *testing.T, url string, models ...any) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Options{URL: url, Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.AutoMigrate(ctx, models...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}
