package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/BuzzLyutic/task-manager/internal/model"
)

// NewApp returns the root command. Exit codes are resolved by the caller of
// Run, so the default os.Exit handling of urfave/cli is disabled.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:           "task-manager",
		Usage:          "Manage your tasks from the terminal",
		UsageText:      "task-manager [global options] command [command options]",
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return exitFailure
}

// Register adds the task commands to app.
func (h *TaskHandler) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:         "create",
			Usage:        "Create a new task",
			ArgsUsage:    "<name> <due_date>",
			OnUsageError: usageError,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "task description",
				},
				&cli.BoolFlag{
					Name:    "complete",
					Aliases: []string{"c"},
					Usage:   "mark the task as completed",
				},
			},
			Action: h.action(h.Create),
		},
		&cli.Command{
			Name:         "list",
			Usage:        "List tasks",
			OnUsageError: usageError,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "status",
					Aliases: []string{"s"},
					Usage:   "filter by status (completed, pending, overdue, all)",
					Value:   string(model.StatusAll),
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "print tasks as JSON lines",
				},
			},
			Action: h.action(h.List),
		},
		&cli.Command{
			Name:         "complete",
			Usage:        "Mark a task as completed",
			ArgsUsage:    "<task_id>",
			OnUsageError: usageError,
			Action:       h.action(h.Complete),
		},
		&cli.Command{
			Name:         "delete",
			Usage:        "Delete a task",
			ArgsUsage:    "<task_id>",
			OnUsageError: usageError,
			Action:       h.action(h.Delete),
		},
		&cli.Command{
			Name:         "update",
			Usage:        "Update a task",
			ArgsUsage:    "<task_id>",
			OnUsageError: usageError,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "new task name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "new task description",
				},
				&cli.StringFlag{
					Name:  "due",
					Usage: "new due date (2006-01-02, 2006-01-02T15:04:05 or 2006-01-02 15:04:05)",
				},
				&cli.BoolFlag{
					Name:    "complete",
					Aliases: []string{"c"},
					Usage:   "mark the task as completed",
				},
			},
			Action: h.action(h.Update),
		},
	)
	return app
}

func usageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return cli.Exit(fmt.Sprintf("Error: %v", err), exitUsage)
}
