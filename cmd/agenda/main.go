package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jaekwang-park/agenda-api/internal/agenda"
	"github.com/jaekwang-park/agenda-api/internal/config"
	agendahttp "github.com/jaekwang-park/agenda-api/internal/http"
	"github.com/jaekwang-park/agenda-api/internal/http/handler"
	"github.com/jaekwang-park/agenda-api/internal/middleware"
	"github.com/jaekwang-park/agenda-api/internal/recurrence"
	"github.com/jaekwang-park/agenda-api/internal/repository"
	"github.com/jaekwang-park/agenda-api/internal/service"
)

// stores is the set of repositories backed by one database.
type stores struct {
	tasks    repository.TaskRepository
	radar    repository.RadarRepository
	snapshot repository.SnapshotReader
	users    repository.UserRepository
	ping     handler.Pinger
	close    func() error
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		db, err := repository.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return stores{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return stores{}, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		return stores{
			tasks:    repository.NewSQLiteTask(db),
			radar:    repository.NewSQLiteRadar(db),
			snapshot: repository.NewSQLiteSnapshot(db),
			users:    repository.NewSQLiteUser(db),
			ping:     sqlDB,
			close:    sqlDB.Close,
		}, nil
	default:
		db, err := repository.NewDB(ctx, cfg.DB.DSN())
		if err != nil {
			return stores{}, err
		}
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return stores{}, err
		}
		return stores{
			tasks:    repository.NewPostgresTask(db),
			radar:    repository.NewPostgresRadar(db),
			snapshot: repository.NewPostgresSnapshot(db),
			users:    repository.NewPostgresUser(db),
			ping:     db,
			close:    db.Close,
		}, nil
	}
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
		"store", cfg.StoreDriver,
		"timezone", cfg.Timezone,
		"cache_enabled", cfg.Redis.Enabled(),
	)

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	logger.Info("store connected", "driver", cfg.StoreDriver)

	checks := map[string]handler.Pinger{"store": st.ping}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The cache degrades to direct store reads, so a cold Redis is not fatal.
			logger.Warn("redis unreachable at startup", "addr", cfg.Redis.Addr, "error", err)
		}
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	} else {
		logger.Info("snapshot cache disabled: REDIS_ADDR not set")
	}
	cache := repository.NewSnapshotCache(st.snapshot, redisClient, cfg.Redis.CacheTTL)

	// Services
	today := service.SystemToday(cfg.Location())
	assembler := agenda.NewAssembler(recurrence.NewExpander(cfg.Agenda.MaxRuleCandidates))
	services := agendahttp.Services{
		Tasks:  service.NewTaskService(st.tasks, cache, today),
		Radar:  service.NewRadarService(st.radar, cache),
		Agenda: service.NewAgendaService(cache, assembler, today, cfg.Agenda.DefaultDays),
	}
	userSvc := service.NewUserService(st.users)

	// Auth middleware
	authCfg := middleware.AuthConfig{
		DevMode:       cfg.AuthDevMode,
		DefaultUserID: cfg.DefaultUserID,
	}
	if !cfg.AuthDevMode {
		authCfg.JWKSClient = middleware.NewJWKSClient(middleware.CognitoJWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID))
		authCfg.Issuer = middleware.CognitoIssuer(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.Audience = cfg.Cognito.AppClientID
		authCfg.UserResolver = userSvc
	}
	auth, err := middleware.NewAuth(authCfg)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// HTTP Server
	srv := agendahttp.NewServer(cfg.ServerPort, logger, services, checks, auth)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
