package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/appointment_scheduler/internal/app"
	"github.com/Freeeeeet/appointment_scheduler/internal/cache"
	"github.com/Freeeeeet/appointment_scheduler/internal/config"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/rest"
	"github.com/Freeeeeet/appointment_scheduler/internal/events"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Scheduler stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Scheduler stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger.Info("Starting appointment scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", loc.String()),
		zap.Duration("booking_step", cfg.BookingStep()),
		zap.Bool("bot_enabled", cfg.TelegramToken != ""),
	)

	// ===== Postgres =====
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	if cfg.MigrationsEnabled {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			return err
		}
	}

	// ===== Redis =====
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
	} else {
		logger.Warn("Working hours cache disabled (REDIS_ADDR is empty)")
	}
	hoursCache := cache.NewWorkingHoursCache(rdb, cfg.WorkingHoursCacheTTL, logger)

	// ===== Repositories =====
	professionalRepo := repository.NewProfessionalRepository(pool)
	workingHoursRepo := repository.NewWorkingHoursRepository(pool, logger)
	vacationRepo := repository.NewVacationRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	commitmentRepo := repository.NewCommitmentRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)

	// ===== Services =====
	professionalService := service.NewProfessionalService(professionalRepo, workingHoursRepo, vacationRepo, bookingRepo, hoursCache, logger)
	catalogService := service.NewCatalogService(serviceRepo, logger)
	clientService := service.NewClientService(clientRepo, logger)
	availabilityService := service.NewAvailabilityService(
		professionalService,
		catalogService,
		commitmentRepo,
		slots.NewEngine(cfg.BookingStep()),
		loc,
		logger,
	)
	appointmentService := service.NewAppointmentService(
		clientRepo,
		professionalRepo,
		serviceRepo,
		appointmentRepo,
		bookingRepo,
		professionalService,
		availabilityService,
		logger,
	)

	// ===== Background jobs =====
	var outbox app.OutboxPublisher
	if publisher := events.NewPublisher(outboxRepo, cfg.Brokers(), logger); publisher != nil {
		publisher.WithBatchSize(cfg.OutboxBatchSize)
		defer publisher.Close()
		outbox = publisher
	}
	scheduler := app.NewScheduler(outbox, appointmentService, app.SchedulerConfig{
		OutboxInterval: cfg.OutboxPollInterval,
		NoShowInterval: cfg.NoShowInterval,
		NoShowGrace:    cfg.NoShowGrace,
	}, logger)

	// ===== HTTP =====
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := rest.NewHandler(availabilityService, appointmentService, professionalService, catalogService, clientService, logger)
	router := rest.NewRouter(handler, rest.RouterConfig{
		AllowedOrigins:     cfg.AllowedOrigins(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RequestTimeout:     cfg.RequestTimeout,
		Ready: map[string]rest.Pinger{
			"postgres": pool,
			"redis":    hoursCache,
		},
	}, logger)
	server := app.NewHTTPServer(cfg.HTTPAddr, router, cfg.ShutdownTimeout, logger)

	g, gctx := errgroup.WithContext(ctx)

	scheduler.Start(gctx)
	defer scheduler.Stop()

	g.Go(func() error {
		return server.Run(gctx)
	})

	// ===== Telegram =====
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken, bot.WithErrorsHandler(func(err error) {
			logger.Error("Telegram bot error", zap.Error(err))
		}))
		if err != nil {
			return err
		}

		botController := controller.NewBotController(b, appointmentService, availabilityService, professionalService, catalogService, clientService, logger)
		if err := botController.RegisterHandlers(gctx); err != nil {
			// меню команд не критично, бот работает и без него
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}

		g.Go(func() error {
			botController.Start(gctx)
			return nil
		})
	}

	return g.Wait()
}
