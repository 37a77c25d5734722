// Package main - точка входа для API сервера Boostly.
//
// Boostly - это peer-to-peer система признания: студенты отправляют друг
// другу кредиты за помощь, подтверждают чужие признания и обменивают
// накопленный баланс на ваучеры. Сервер обслуживает REST API и фоновые
// задачи (ежемесячный сброс балансов, обновление снапшота лидерборда).
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: Postgres, Redis, event bus, scheduler
// - Interface: HTTP handlers
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/boostly-hq/boostly/config"

	// Application layer
	"github.com/boostly-hq/boostly/internal/application/command"
	"github.com/boostly-hq/boostly/internal/application/eventhandler"
	"github.com/boostly-hq/boostly/internal/application/query"

	// Domain layer
	"github.com/boostly-hq/boostly/internal/domain/leaderboard"
	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/internal/domain/student"

	// Infrastructure layer
	"github.com/boostly-hq/boostly/internal/infrastructure/messaging"
	"github.com/boostly-hq/boostly/internal/infrastructure/persistence/postgres"
	"github.com/boostly-hq/boostly/internal/infrastructure/persistence/redis"
	"github.com/boostly-hq/boostly/internal/infrastructure/scheduler"
	"github.com/boostly-hq/boostly/internal/infrastructure/scheduler/jobs"

	// Interface layer
	httpserver "github.com/boostly-hq/boostly/internal/interface/http"
	"github.com/boostly-hq/boostly/internal/interface/http/handlers"

	// Packages
	"github.com/boostly-hq/boostly/pkg/circuitbreaker"
	"github.com/boostly-hq/boostly/pkg/logger"
)

// eventBus объединяет доменный интерфейс шины с закрытием соединения.
// Реализуется и in-memory, и Redis-вариантом.
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
	log.Info("starting Boostly API server",
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
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", "error", err)
	} else {
		appliedCount := 0
		for _, m := range status {
			if m.IsApplied {
				appliedCount++
			}
		}
		log.Info("migrations completed", "applied", appliedCount, "total", len(status))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// Без Redis сервер работает: чтения идут напрямую в Postgres,
	// события остаются внутри процесса, лидерборд считается на лету.
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var studentCache student.Cache
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
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			studentCache = redis.NewStudentCache(redisCache)
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
	recognitionRepo := postgres.NewRecognitionRepository(dbConn)
	endorsementRepo := postgres.NewEndorsementRepository(dbConn)
	leaderboardRepo := postgres.NewLeaderboardRepository(dbConn)
	transactor := postgres.NewTransactor(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// При наличии Redis события уходят через Pub/Sub, чтобы другие
	// инстансы инвалидировали свои кеши. Иначе - in-memory шина.
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
	// 8. РЕГИСТРАЦИЯ EVENT HANDLERS
	// Обработчики инвалидируют кеши по событиям записи. С nil-кешами
	// (Redis отключён) они превращаются в no-op.
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")
	dispatcher := messaging.NewDispatcher(messaging.DispatcherConfig{
		EventBus:              bus,
		WorkerPoolSize:        10,
		RetryConfig:           messaging.DefaultRetryConfig(),
		EnableDeadLetterQueue: true,
		DeadLetterQueueSize:   1000,
		Logger:                log,
	})
	dispatcher.Use(messaging.RecoveryMiddleware(log))
	dispatcher.Use(messaging.LoggingMiddleware(log))

	onRecognition := eventhandler.NewOnRecognitionCreatedHandler(studentCache, leaderboardCache, log)
	onEndorsed := eventhandler.NewOnRecognitionEndorsedHandler(leaderboardCache, log)
	onRedeemed := eventhandler.NewOnCreditsRedeemedHandler(studentCache, log)
	onReset := eventhandler.NewOnMonthlyResetAppliedHandler(studentCache, log)

	registrations := []struct {
		eventType shared.EventType
		name      string
		handler   shared.EventHandler
	}{
		{shared.EventRecognitionCreated, "invalidate_caches_on_recognition", onRecognition.Handle},
		{shared.EventRecognitionEndorsed, "invalidate_leaderboard_on_endorsement", onEndorsed.Handle},
		{shared.EventCreditsRedeemed, "invalidate_caches_on_redemption", onRedeemed.Handle},
		{shared.EventMonthlyResetApplied, "invalidate_caches_on_reset", onReset.Handle},
	}
	for _, reg := range registrations {
		if err := dispatcher.Register(reg.eventType, reg.name, reg.handler); err != nil {
			return fmt.Errorf("failed to register event handler %s: %w", reg.name, err)
		}
	}

	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer func() {
		_ = dispatcher.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	registerStudentCmd := command.NewRegisterStudentHandler(studentRepo, bus)
	createRecognitionCmd := command.NewCreateRecognitionHandler(transactor, bus)
	endorseRecognitionCmd := command.NewEndorseRecognitionHandler(recognitionRepo, endorsementRepo, studentRepo, bus)
	redeemCreditsCmd := command.NewRedeemCreditsHandler(transactor, bus)
	runMonthlyResetCmd := command.NewRunMonthlyResetHandler(studentRepo, transactor, bus, log)

	getStudentQuery := query.NewGetStudentHandler(studentRepo, studentCache)
	getLeaderboardQuery := query.NewGetLeaderboardHandler(leaderboardRepo, leaderboardCache)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ЗАПУСК SCHEDULER
	// Ежемесячный сброс - единственный путь обновления баланса по смене
	// цикла: балансы никогда не пересчитываются лениво при чтении.
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		log.Info("starting scheduler...",
			"reset_cron", cfg.Scheduler.MonthlyResetCron,
			"leaderboard_interval", cfg.Scheduler.LeaderboardRefreshInterval.String(),
		)
		sched = scheduler.NewScheduler(scheduler.SchedulerConfig{
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

		// Снапшот лидерборда имеет смысл только при живом Redis.
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

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. HEALTH CHECKS
	// Readiness завязана на Postgres - это система записи. Redis не
	// регистрируем: деградация кеша не повод выводить сервис из ротации.
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("postgres", handlers.NewDatabaseCheck(dbConn))

	// ─────────────────────────────────────────────────────────────────────────
	// 12. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.APIKeyHeader = cfg.HTTP.APIKeyHeader
	httpConfig.AdminAPIKeys = cfg.HTTP.AdminAPIKeys
	httpConfig.EnableMetrics = cfg.HTTP.EnableMetrics

	httpDeps := httpserver.Dependencies{
		RegisterStudentHandler:    registerStudentCmd,
		CreateRecognitionHandler:  createRecognitionCmd,
		EndorseRecognitionHandler: endorseRecognitionCmd,
		RedeemCreditsHandler:      redeemCreditsCmd,
		RunMonthlyResetHandler:    runMonthlyResetCmd,
		GetStudentHandler:         getStudentQuery,
		GetLeaderboardHandler:     getLeaderboardQuery,
		Logger:                    logger.Default(),
		HealthChecker:             healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 13. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 14. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Boostly API server is running",
		"http_address", httpServer.Address(),
		"scheduler_enabled", cfg.Scheduler.Enabled,
		"redis_enabled", redisCache != nil,
	)

	// Ожидаем сигнал завершения или ошибку
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	// Начинаем graceful shutdown
	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error

	// 1. Останавливаем HTTP сервер (перестаём принимать запросы)
	log.Info("stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		shutdownErr = err
	}

	// 2. Останавливаем scheduler (дожидаемся текущих задач)
	if sched != nil {
		log.Info("stopping scheduler...")
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop scheduler gracefully", "error", err)
			shutdownErr = err
		}
	}

	// 3. Dispatcher, event bus, Redis и база закроются через defer

	if shutdownErr != nil {
		log.Warn("shutdown completed with errors")
	} else {
		log.Info("shutdown completed successfully")
	}

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
