package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BuzzLyutic/task-manager/internal/model"
)

// taskRecord is the persisted shape of a task. Due dates are stored in UTC so
// that SQLite's text encoding of timestamps sorts chronologically.
type taskRecord struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	Name        string         `gorm:"size:50;not null"`
	Description sql.NullString `gorm:"size:100"`
	Completed   bool           `gorm:"not null;default:false"`
	DueDate     time.Time      `gorm:"not null;index"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

// Models returns the tables the repository needs; pass them to AutoMigrate.
func Models() []any {
	return []any{&taskRecord{}}
}

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	sessions SessionProvider
	logger   *zap.Logger
}

var _ TaskRepository = (*TaskRepo)(nil)

func NewTaskRepo(sessions SessionProvider, logger *zap.Logger) *TaskRepo { // Конструктор
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskRepo{
		sessions: sessions,
		logger:   logger,
	}
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (*model.Task, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var (
		rec   taskRecord
		found bool
	)
	err := r.withSession(ctx, "get task", func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Limit(1).Find(&rec)
		found = res.RowsAffected > 0
		return res.Error
	})
	if err != nil || !found {
		return nil, err
	}

	t := rec.toModel()
	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	return r.find(ctx, "list tasks", model.TaskFilter{})
}

func (r *TaskRepo) Add(ctx context.Context, t *model.Task) (int64, error) {
	if t == nil {
		return 0, invalid("task must not be nil")
	}
	if t.ID != 0 {
		return 0, invalid("new task must not have an id, got %d", t.ID)
	}
	if err := checkFields(t); err != nil {
		return 0, err
	}

	rec := newRecord(t)
	err := r.withSession(ctx, "add task", func(tx *gorm.DB) error {
		return tx.Create(&rec).Error
	})
	if err != nil {
		return 0, err
	}

	t.ID = rec.ID
	r.logger.Debug("task added", zap.Int64("task_id", rec.ID))
	return rec.ID, nil
}

func (r *TaskRepo) Update(ctx context.Context, t *model.Task) error {
	if t == nil {
		return invalid("task must not be nil")
	}
	if err := checkID(t.ID); err != nil {
		return err
	}
	if err := checkFields(t); err != nil {
		return err
	}

	rec := newRecord(t)
	return r.withSession(ctx, "update task", func(tx *gorm.DB) error {
		res := tx.Model(&taskRecord{}).Where("id = ?", t.ID).Updates(map[string]any{
			"name":        rec.Name,
			"description": rec.Description,
			"completed":   rec.Completed,
			"due_date":    rec.DueDate,
		})
		r.logAffected("update", t.ID, res)
		return res.Error
	})
}

func (r *TaskRepo) Delete(ctx context.Context, t *model.Task) error {
	if t == nil {
		return invalid("task must not be nil")
	}
	if err := checkID(t.ID); err != nil {
		return err
	}

	return r.withSession(ctx, "delete task", func(tx *gorm.DB) error {
		res := tx.Where("id = ?", t.ID).Delete(&taskRecord{})
		r.logAffected("delete", t.ID, res)
		return res.Error
	})
}

func (r *TaskRepo) Complete(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}

	return r.withSession(ctx, "complete task", func(tx *gorm.DB) error {
		res := tx.Model(&taskRecord{}).Where("id = ?", id).Update("completed", true)
		r.logAffected("complete", id, res)
		return res.Error
	})
}

func (r *TaskRepo) FilterByStatus(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	if filter.DueBefore != nil && filter.DueBefore.IsZero() {
		return nil, invalid("due_before must be a timestamp")
	}
	if filter.DueAfter != nil && filter.DueAfter.IsZero() {
		return nil, invalid("due_after must be a timestamp")
	}
	return r.find(ctx, "filter tasks", filter)
}

func (r *TaskRepo) find(ctx context.Context, op string, filter model.TaskFilter) ([]model.Task, error) {
	var recs []taskRecord
	err := r.withSession(ctx, op, func(tx *gorm.DB) error {
		q := tx.Model(&taskRecord{})
		if filter.Completed != nil {
			q = q.Where("completed = ?", *filter.Completed)
		}
		if filter.DueBefore != nil {
			q = q.Where("due_date < ?", filter.DueBefore.UTC())
		}
		if filter.DueAfter != nil {
			q = q.Where("due_date >= ?", filter.DueAfter.UTC())
		}
		return q.Order("id").Find(&recs).Error
	})
	if err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, rec.toModel())
	}
	return tasks, nil
}

// withSession открывает сессию, выполняет fn и фиксирует изменения.
// Сессия освобождается на любом пути выхода, включая панику в fn.
func (r *TaskRepo) withSession(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	s, err := r.sessions.Session(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			r.logger.Warn("failed to release session", zap.String("op", op), zap.Error(err))
		}
	}()

	if err := fn(s.Tx()); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err := s.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

func (r *TaskRepo) logAffected(op string, id int64, res *gorm.DB) {
	if res.Error == nil && res.RowsAffected == 0 {
		r.logger.Debug("no task matched", zap.String("op", op), zap.Int64("task_id", id))
	}
}

func checkID(id int64) error {
	if id < 1 {
		return invalid("task id must be greater than 0, got %d", id)
	}
	return nil
}

func checkFields(t *model.Task) error {
	if strings.TrimSpace(t.Name) == "" {
		return invalid("task name is required")
	}
	if n := utf8.RuneCountInString(t.Name); n > model.MaxNameLength {
		return invalid("task name is %d characters, max %d", n, model.MaxNameLength)
	}
	if n := utf8.RuneCountInString(t.Description); n > model.MaxDescriptionLength {
		return invalid("task description is %d characters, max %d", n, model.MaxDescriptionLength)
	}
	if t.DueDate.IsZero() {
		return invalid("task due date is required")
	}
	return nil
}

func newRecord(t *model.Task) taskRecord {
	return taskRecord{
		ID:          t.ID,
		Name:        t.Name,
		Description: toNullString(t.Description),
		Completed:   t.Completed,
		DueDate:     t.DueDate.UTC(),
	}
}

func (rec taskRecord) toModel() model.Task {
	return model.Task{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description.String,
		Completed:   rec.Completed,
		DueDate:     rec.DueDate.Local(),
	}
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
