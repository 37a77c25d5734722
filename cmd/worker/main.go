// Package main - точка входа для фоновых процессов (Worker) Boostly.
//
// Worker отвечает за периодические задачи:
// - Ежемесячный сброс балансов (carry-forward до лимита + новый allowance)
// - Пересчёт снапшота лидерборда
//
// Worker можно запускать отдельно от API сервера: распределённый лок в
// Redis гарантирует, что сброс выполнит ровно один процесс, а события
// через Pub/Sub доходят до всех инстансов API для инвалидации кешей.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/boostly-hq/boostly/config"

	// Application layer
	"github.com/boostly-hq/boostly/internal/application/command"

	// Domain layer
	"github.com/boostly-hq/boostly/internal/domain/leaderboard"
	"github.com/boostly-hq/boostly/internal/domain/shared"

	// Infrastructure layer
	"github.com/boostly-hq/boostly/internal/infrastructure/messaging"
	"github.com/boostly-hq/boostly/internal/infrastructure/persistence/postgres"
	"github.com/boostly-hq/boostly/internal/infrastructure/persistence/redis"
	"github.com/boostly-hq/boostly/internal/infrastructure/scheduler"
	"github.com/boostly-hq/boostly/internal/infrastructure/scheduler/jobs"

	// Packages
	"github.com/boostly-hq/boostly/pkg/circuitbreaker"
)

// eventBus объединяет доменный интерфейс шины с закрытием соединения.
type eventBus interface {
	shared.EventBus
	Close() error
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем приложение
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Boostly Worker",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// Проверяем соединение
	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ (Worker также должен иметь актуальную схему)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// Без Redis worker работает в одиночном режиме: без распределённого
	// лока и без снапшота лидерборда.
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var leaderboardCache leaderboard.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...", "addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port))
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, running without lock and cache", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			leaderboardCache = redis.NewLeaderboardCache(redisCache, func(name string, from, to circuitbreaker.State) {
				log.Warn("cache circuit breaker state change",
					"breaker", name, "from", from.String(), "to", to.String())
			})
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	studentRepo := postgres.NewStudentRepository(dbConn)
	leaderboardRepo := postgres.NewLeaderboardRepository(dbConn)
	transactor := postgres.NewTransactor(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// События сброса публикуются в Redis Pub/Sub, чтобы API инстансы
	// инвалидировали кеши студентов.
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	localBusConfig := messaging.DefaultInMemoryEventBusConfig()
	localBusConfig.Logger = log
	localBusConfig.AsyncMode = true

	var bus eventBus
	if redisCache != nil {
		transport := redis.NewPubSubTransport(redisCache)
		redisBus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         transport,
			LocalBusConfig: localBusConfig,
			Logger:         log,
		})
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}
		bus = redisBus
	} else {
		bus = messaging.NewInMemoryEventBus(localBusConfig)
	}
	defer func() {
		log.Info("closing event bus...")
		_ = bus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. РЕГИСТРАЦИЯ ЗАДАЧ
	// ─────────────────────────────────────────────────────────────────────────
	runMonthlyResetCmd := command.NewRunMonthlyResetHandler(studentRepo, transactor, bus, log)

	sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
		Logger:        log,
		Timezone:      cfg.App.Location,
		EnableMetrics: true,
	})

	var locker jobs.Locker
	if redisCache != nil {
		locker = redisCache
	}

	resetJob := jobs.NewMonthlyResetJob(runMonthlyResetCmd, locker, log, jobs.MonthlyResetConfig{
		LockKey: redis.PrefixLock + "monthly-reset",
		LockTTL: cfg.Scheduler.ResetLockTTL,
		Timeout: cfg.Scheduler.JobTimeout,
	})
	resetSchedule, err := scheduler.ParseCronExpression(cfg.Scheduler.MonthlyResetCron)
	if err != nil {
		return fmt.Errorf("invalid monthly reset cron expression: %w", err)
	}
	if err := sched.Register(resetJob, resetSchedule); err != nil {
		return fmt.Errorf("failed to register reset job: %w", err)
	}

	if leaderboardCache != nil {
		refreshJob := jobs.NewRefreshLeaderboardJob(leaderboardRepo, leaderboardCache, log, jobs.RefreshLeaderboardConfig{
			SnapshotSize: cfg.Scheduler.LeaderboardSnapshotSize,
			CacheTTL:     cfg.Scheduler.LeaderboardRefreshInterval + redis.TTLSnapshotCache,
			Timeout:      cfg.Scheduler.JobTimeout,
		})
		refreshSchedule := scheduler.NewIntervalSchedule(cfg.Scheduler.LeaderboardRefreshInterval)
		if err := sched.Register(refreshJob, refreshSchedule); err != nil {
			return fmt.Errorf("failed to register leaderboard refresh job: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ЗАПУСК SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Boostly Worker is running",
		"reset_cron", cfg.Scheduler.MonthlyResetCron,
		"redis_enabled", redisCache != nil,
	)

	// Ожидаем сигнал завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	// Начинаем graceful shutdown
	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler gracefully", "error", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Observability.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
