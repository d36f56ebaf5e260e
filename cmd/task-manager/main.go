package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-manager/internal/config"
	"github.com/BuzzLyutic/task-manager/internal/database"
	"github.com/BuzzLyutic/task-manager/internal/handler"
	"github.com/BuzzLyutic/task-manager/internal/logger"
	"github.com/BuzzLyutic/task-manager/internal/repo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Загрузка конфигурации
	cfg := config.Load()

	var (
		log = zap.NewNop()
		db  *database.DB
		// Команды держат указатель на обработчик, заполняем его в Before
		h = &handler.TaskHandler{}
	)

	app := handler.NewApp()
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Sources:     cli.EnvVars("LOG_LEVEL"),
			Value:       cfg.LogLevel,
			Destination: &cfg.LogLevel,
		},
		&cli.StringFlag{
			Name:        "database-url",
			Usage:       "database connection string (sqlite:///path or postgres://...)",
			Sources:     cli.EnvVars("DATABASE_URL"),
			Value:       cfg.DatabaseURL,
			Destination: &cfg.DatabaseURL,
		},
	}

	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		// Подключаем логгер
		l, err := logger.New(cfg.LogLevel)
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log = l

		// БД открывается только перед выполнением команды, --help её не трогает
		*h = *handler.NewLazyTaskHandler(func(ctx context.Context) (repo.TaskRepository, error) {
			var err error
			db, err = database.Open(ctx, database.Options{
				URL:    cfg.DatabaseURL,
				Debug:  cfg.DBDebug || cfg.LogLevel == "debug",
				Logger: log,
			})
			if err != nil {
				return nil, fmt.Errorf("open database: %w", err)
			}

			if err := db.AutoMigrate(ctx, repo.Models()...); err != nil {
				return nil, fmt.Errorf("migrate database: %w", err)
			}
			log.Debug("database ready", zap.String("driver", db.Driver()))

			return repo.NewTaskRepo(db, log), nil
		}, log)
		return ctx, nil
	}

	app.After = func(ctx context.Context, c *cli.Command) error {
		if db != nil {
			if err := db.Close(); err != nil {
				log.Error("failed to close database", zap.Error(err))
			}
		}
		_ = log.Sync()
		return nil
	}

	app = h.Register(app)

	err := app.Run(ctx, os.Args)
	code := handler.ExitCode(err)
	if err != nil && err.Error() != "" {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	stop()
	os.Exit(code)
}
