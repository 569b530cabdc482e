// weekpland is the weekplan API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/weekplan/adapter/api"
	"github.com/felixgeelhaar/weekplan/internal/identity/session"
	"github.com/felixgeelhaar/weekplan/internal/planner/application/commands"
	"github.com/felixgeelhaar/weekplan/internal/planner/application/queries"
	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/felixgeelhaar/weekplan/internal/planner/infrastructure/persistence"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/database/postgres"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/weekplan/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	conn, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := migrations.Run(ctx, conn); err != nil {
		return err
	}

	bus, closeBus, err := newEventBus(cfg, logger)
	if err != nil {
		return err
	}
	defer closeBus()

	sessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// Without an external auth provider nobody could obtain a token, so
	// development mode bootstraps one session and prints it.
	if cfg.IsDevelopment() {
		devUser := uuid.New()
		token, err := sessions.Issue(ctx, devUser, cfg.SessionTTL)
		if err != nil {
			return err
		}
		logger.Info("issued development session",
			"user_id", devUser.String(),
			"token", token,
		)
	}

	repo := newTaskRepository(conn)
	uow := database.NewUnitOfWork(conn)

	handler := api.NewTaskHandler(
		commands.NewCreateTaskHandler(repo, uow, bus, logger),
		commands.NewUpdateTaskHandler(repo, uow, bus, logger),
		commands.NewDeleteTaskHandler(repo, uow, bus, logger),
		commands.NewReorderTasksHandler(repo, uow, bus, logger),
		queries.NewListWeekHandler(repo),
		logger,
	)

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.HTTPAddr
	server := api.NewServer(serverCfg, handler, api.NewSessionMiddleware(sessions, logger), logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openDatabase picks postgres when DATABASE_URL is set and falls back to the
// local sqlite file otherwise.
func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Connection, error) {
	if cfg.DatabaseURL != "" {
		logger.Info("connecting to postgres")
		return postgres.Open(ctx, cfg.DatabaseURL, 10)
	}
	logger.Info("using local sqlite database", "path", sqlite.DefaultPath())
	return sqlite.Open(ctx, "")
}

func newTaskRepository(conn database.Connection) task.Repository {
	if conn.Driver() == database.DriverPostgres {
		return persistence.NewPostgresTaskRepository(conn)
	}
	return persistence.NewSQLiteTaskRepository(conn)
}

func newEventBus(cfg *config.Config, logger *slog.Logger) (eventbus.Publisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		return eventbus.NewInProcessBus(logger), func() {}, nil
	}
	pub, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		return nil, nil, err
	}
	return pub, func() { _ = pub.Close() }, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, sessions are in-memory and lost on restart")
		return session.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return session.NewRedisStore(client), nil
}
