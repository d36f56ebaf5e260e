package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-manager/internal/model"
	"github.com/BuzzLyutic/task-manager/internal/repo"
	"github.com/BuzzLyutic/task-manager/pkg/respond"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorUsage    = errors.New("invalid usage")
)

// usageErr carries the text shown to the user and matches ErrorUsage.
type usageErr struct {
	msg string
}

func (e *usageErr) Error() string {
	return e.msg
}

func (e *usageErr) Is(target error) bool {
	return target == ErrorUsage
}

func usagef(format string, args ...any) error {
	return &usageErr{msg: fmt.Sprintf(format, args...)}
}

const (
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 2
)

// Connector opens the repository. It is called once, right before the first
// command action, so help output never touches the database.
type Connector func(ctx context.Context) (repo.TaskRepository, error)

type TaskHandler struct {
	repo    repo.TaskRepository
	connect Connector
	logger  *zap.Logger
	now     func() time.Time
}

func NewTaskHandler(r repo.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		repo:   r,
		logger: logger,
		now:    time.Now,
	}
}

// NewLazyTaskHandler defers opening the repository until a command runs.
func NewLazyTaskHandler(connect Connector, logger *zap.Logger) *TaskHandler {
	h := NewTaskHandler(nil, logger)
	h.connect = connect
	return h
}

// action wraps a command action with the repository connection.
func (h *TaskHandler) action(fn cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if h.repo == nil && h.connect != nil {
			r, err := h.connect(ctx)
			if err != nil {
				return h.handleErrors(c, "open database", err)
			}
			h.repo = r
		}
		return fn(ctx, c)
	}
}

func (h *TaskHandler) Create(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if err := checkArgCount(args, 2); err != nil {
		return h.handleErrors(c, "create task", err)
	}
	// urfave/cli теряет все позиционные аргументы, если первый пустой,
	// поэтому пустое имя отклоняется здесь в обоих случаях
	if len(args) < 2 || strings.TrimSpace(args[0]) == "" {
		return h.handleErrors(c, "create task", usagef("'NAME' and 'DUE_DATE' are required and must not be blank"))
	}

	due, err := parseDueDate(args[1])
	if err != nil {
		return h.handleErrors(c, "create task", err)
	}

	task := model.Task{
		Name:        args[0],
		Description: c.String("description"),
		Completed:   c.Bool("complete"),
		DueDate:     due,
	}

	id, err := h.repo.Add(ctx, &task)
	if err != nil {
		return h.handleErrors(c, "create task", err)
	}

	respond.Success(stdout(c), "Task created with ID %d", id)
	return nil
}

func (h *TaskHandler) List(ctx context.Context, c *cli.Command) error {
	status := model.Status(c.String("status"))
	if !status.IsValid() {
		return h.handleErrors(c, "list tasks",
			usagef("invalid value for '--status': %q is not one of completed, pending, overdue, all", status))
	}

	now := h.now()

	var (
		tasks []model.Task
		err   error
	)
	if status == model.StatusAll {
		tasks, err = h.repo.List(ctx)
	} else {
		tasks, err = h.repo.FilterByStatus(ctx, model.StatusFilter(status, now))
	}
	if err != nil {
		return h.handleErrors(c, "list tasks", err)
	}

	if c.Bool("json") {
		if err := respond.JSON(stdout(c), tasks, now); err != nil {
			return h.handleErrors(c, "list tasks", err)
		}
		return nil
	}

	if len(tasks) == 0 {
		respond.Warn(stdout(c), "No tasks found")
		return nil
	}

	respond.Table(stdout(c), tasks, now)
	return nil
}

func (h *TaskHandler) Complete(ctx context.Context, c *cli.Command) error {
	task, err := h.lookup(ctx, c)
	if err != nil {
		return h.handleErrors(c, "complete task", err)
	}

	if err := h.repo.Complete(ctx, task.ID); err != nil {
		return h.handleErrors(c, "complete task", err)
	}

	respond.Success(stdout(c), "Task %d marked complete", task.ID)
	return nil
}

func (h *TaskHandler) Delete(ctx context.Context, c *cli.Command) error {
	task, err := h.lookup(ctx, c)
	if err != nil {
		return h.handleErrors(c, "delete task", err)
	}

	if err := h.repo.Delete(ctx, task); err != nil {
		return h.handleErrors(c, "delete task", err)
	}

	respond.Success(stdout(c), "Task %d deleted", task.ID)
	return nil
}

func (h *TaskHandler) Update(ctx context.Context, c *cli.Command) error {
	task, err := h.lookup(ctx, c)
	if err != nil {
		return h.handleErrors(c, "update task", err)
	}

	// Меняем только переданные флаги
	if c.IsSet("name") {
		task.Name = c.String("name")
	}
	if c.IsSet("description") {
		task.Description = c.String("description")
	}
	if c.IsSet("due") {
		due, err := parseDueDate(c.String("due"))
		if err != nil {
			return h.handleErrors(c, "update task", err)
		}
		task.DueDate = due
	}
	if c.IsSet("complete") {
		task.Completed = c.Bool("complete")
	}

	if err := h.repo.Update(ctx, task); err != nil {
		return h.handleErrors(c, "update task", err)
	}

	respond.Success(stdout(c), "Task %d updated", task.ID)
	return nil
}

// lookup resolves the TASK_ID argument to an existing task. The repository
// treats missing rows as a no-op, so existence is enforced here.
func (h *TaskHandler) lookup(ctx context.Context, c *cli.Command) (*model.Task, error) {
	if err := checkArgCount(c.Args().Slice(), 1); err != nil {
		return nil, err
	}

	id, err := parseTaskID(c.Args().First())
	if err != nil {
		return nil, err
	}

	task, err := h.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %d %w", id, ErrorNotFound)
	}
	return task, nil
}

func parseTaskID(arg string) (int64, error) {
	if arg == "" {
		return 0, usagef("missing argument 'TASK_ID'")
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, usagef("invalid value for 'TASK_ID': %q is not a valid integer", arg)
	}
	if id < 1 {
		return 0, usagef("invalid value for 'TASK_ID': %d is not in the range x>=1", id)
	}
	return id, nil
}

func checkArgCount(args []string, want int) error {
	if len(args) > want {
		return usagef("got unexpected extra argument (%s)", strings.Join(args[want:], " "))
	}
	return nil
}

func (h *TaskHandler) handleErrors(c *cli.Command, op string, err error) error {
	w := stderr(c)

	switch {
	case errors.Is(err, ErrorNotFound):
		respond.Error(w, "%s", capitalize(err.Error()))
		return cli.Exit("", exitNotFound)
	case errors.Is(err, ErrorUsage), errors.Is(err, repo.ErrorInvalidArgument):
		respond.Error(w, "Error: %s", capitalize(err.Error()))
		return cli.Exit("", exitUsage)
	default:
		h.logger.Error("internal error", zap.String("op", op), zap.Error(err))
		respond.Error(w, "internal error: %s", op)
		return cli.Exit("", exitFailure)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func stdout(c *cli.Command) io.Writer {
	return c.Root().Writer
}

func stderr(c *cli.Command) io.Writer {
	return c.Root().ErrWriter
}
