package repo

import (
	"context"

	"github.com/BuzzLyutic/task-manager/internal/database"
	"github.com/BuzzLyutic/task-manager/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами.
//
// Get, Update, Delete and Complete do not report missing rows: Get returns a
// nil task and the mutations silently do nothing. Callers that need a
// not-found failure check existence with Get first.
type TaskRepository interface {
	Get(ctx context.Context, id int64) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Add(ctx context.Context, t *model.Task) (int64, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, t *model.Task) error
	Complete(ctx context.Context, id int64) error
	FilterByStatus(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
}

// SessionProvider hands out one scoped session per unit of work.
type SessionProvider interface {
	Session(ctx context.Context) (*database.Session, error)
}
