package model

import (
	"fmt"
	"time"
)

const (
	MaxNameLength        = 50
	MaxDescriptionLength = 100
)

type Task struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	DueDate     time.Time `json:"due_date"`
}

// StatusAt вычисляет статус на момент now, в БД статус не хранится
func (t Task) StatusAt(now time.Time) Status {
	switch {
	case t.Completed:
		return StatusCompleted
	case !t.DueDate.Before(now):
		return StatusPending
	default:
		return StatusOverdue
	}
}

func (t Task) String() string {
	return fmt.Sprintf("Task(id=%d, name=%q, completed=%t, due_date=%s)",
		t.ID, t.Name, t.Completed, t.DueDate.Format(time.DateTime))
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusOverdue   Status = "overdue"
	StatusAll       Status = "all"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusOverdue, StatusAll:
		return true
	}
	return false
}

// TaskFilter: nil-поля не ограничивают выборку, заданные объединяются через AND
type TaskFilter struct {
	Completed *bool
	DueBefore *time.Time
	DueAfter  *time.Time
}

func (f TaskFilter) IsEmpty() bool {
	return f.Completed == nil && f.DueBefore == nil && f.DueAfter == nil
}

// StatusFilter translates a derived status into repository filters relative to now.
// StatusAll yields an empty filter.
func StatusFilter(s Status, now time.Time) TaskFilter {
	completed, pending := true, false

	switch s {
	case StatusCompleted:
		return TaskFilter{Completed: &completed}
	case StatusPending:
		return TaskFilter{Completed: &pending, DueAfter: &now}
	case StatusOverdue:
		return TaskFilter{Completed: &pending, DueBefore: &now}
	default:
		return TaskFilter{}
	}
}
