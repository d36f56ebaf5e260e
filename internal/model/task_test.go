package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_StatusAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want Status
	}{
		{
			name: "completed wins over due date",
			task: Task{Completed: true, DueDate: now.Add(-48 * time.Hour)},
			want: StatusCompleted,
		},
		{
			name: "due in the future",
			task: Task{DueDate: now.Add(time.Hour)},
			want: StatusPending,
		},
		{
			name: "due exactly now is pending",
			task: Task{DueDate: now},
			want: StatusPending,
		},
		{
			name: "due in the past",
			task: Task{DueDate: now.Add(-time.Second)},
			want: StatusOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.StatusAt(now))
		})
	}
}

func TestTask_StatusAtIsRecomputed(t *testing.T) {
	due := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task := Task{DueDate: due}

	assert.Equal(t, StatusPending, task.StatusAt(due.Add(-time.Minute)))
	assert.Equal(t, StatusOverdue, task.StatusAt(due.Add(time.Minute)))
}

func TestTask_String(t *testing.T) {
	task := Task{
		ID:        3,
		Name:      "Water the baguettes",
		Completed: true,
		DueDate:   time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC),
	}

	assert.Equal(t,
		`Task(id=3, name="Water the baguettes", completed=true, due_date=2025-12-31 12:00:00)`,
		task.String(),
	)
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusPending, StatusOverdue, StatusAll} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("done").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatusFilter(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("completed", func(t *testing.T) {
		f := StatusFilter(StatusCompleted, now)
		require.NotNil(t, f.Completed)
		assert.True(t, *f.Completed)
		assert.Nil(t, f.DueBefore)
		assert.Nil(t, f.DueAfter)
	})

	t.Run("pending", func(t *testing.T) {
		f := StatusFilter(StatusPending, now)
		require.NotNil(t, f.Completed)
		require.NotNil(t, f.DueAfter)
		assert.False(t, *f.Completed)
		assert.Equal(t, now, *f.DueAfter)
		assert.Nil(t, f.DueBefore)
	})

	t.Run("overdue", func(t *testing.T) {
		f := StatusFilter(StatusOverdue, now)
		require.NotNil(t, f.Completed)
		require.NotNil(t, f.DueBefore)
		assert.False(t, *f.Completed)
		assert.Equal(t, now, *f.DueBefore)
		assert.Nil(t, f.DueAfter)
	})

	t.Run("all", func(t *testing.T) {
		assert.True(t, StatusFilter(StatusAll, now).IsEmpty())
	})
}
