package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetup/internal/admin"
	"meetup/internal/config"
	"meetup/internal/handler"
	"meetup/internal/i18n"
	"meetup/internal/liveview"
	"meetup/internal/messenger"
	"meetup/internal/middleware"
	"meetup/internal/notify"
	"meetup/internal/pending"
	"meetup/internal/repository/postgres"
	"meetup/internal/service"
	"meetup/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

const (
	cleanupInterval = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting meetup bot")

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Failed to resolve timezone", zap.Error(err))
	}

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	tr, err := i18n.NewTranslator("ru", logger)
	if err != nil {
		logger.Fatal("Failed to load translations", zap.Error(err))
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Bot error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	eventRepo := postgres.NewEventRepo(db)
	talkRepo := postgres.NewTalkRepo(db)
	questionRepo := postgres.NewQuestionRepo(db)

	// Notification and live view plumbing
	sender := messenger.NewTelebotSender(bot)
	dispatcher := notify.NewDispatcher(sender, cfg.FanoutRate, logger)
	composer := notify.NewComposer(tr, loc)
	tracker := pending.NewTracker(cfg.PendingTTL)
	updater := liveview.NewUpdater(sender, cfg.LiveUpdateInterval, logger)

	// Initialize services
	registry := service.NewSubscriberRegistry(userRepo)
	hooks := service.NewLifecycle(registry, composer, dispatcher, logger)
	eventService := service.NewEventService(eventRepo, hooks, loc, logger)
	talkService := service.NewTalkService(talkRepo, hooks, logger)
	questionService := service.NewQuestionService(questionRepo, talkRepo, registry, composer, dispatcher, logger)
	profileService := service.NewProfileService(userRepo, logger)
	cleanupService := service.NewCleanupService(tracker, logger)

	// Initialize handler
	h := handler.NewHandler(handler.Deps{
		Sender:     sender,
		Photos:     sender,
		Profiles:   profileService,
		Events:     eventService,
		Talks:      talkService,
		Questions:  questionService,
		Pending:    tracker,
		Updater:    updater,
		Renderer:   view.NewRenderer(tr, loc),
		Translator: tr,
		LogoPath:   cfg.LogoPath,
	}, logger)
	bot.Use(middleware.Recover(logger), middleware.Logger(logger))
	h.RegisterHandlers(bot)

	logger.Info("Handlers registered")

	// Organizer API
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	adminHandler := admin.NewHandler(eventService, talkService, questionService, profileService, logger)
	server := &http.Server{
		Addr:              cfg.Admin.Addr,
		Handler:           admin.NewRouter(adminHandler, cfg.Admin.Token, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Bot started successfully")
		bot.Start()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Stopping bot...")
		bot.Stop()
		return nil
	})

	g.Go(func() error {
		logger.Info("Organizer API listening", zap.String("addr", cfg.Admin.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("organizer API: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		runCleanupJob(gctx, cleanupService, logger)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Shutdown after failure", zap.Error(err))
	}

	updater.Stop()

	// Let announcements already in flight reach their audience
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hooks.Wait(drainCtx); err != nil {
		logger.Warn("Notifications still running at exit", zap.Error(err))
	}
	logger.Info("Bot stopped gracefully")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runCleanupJob drops expired pending interactions until ctx is done
func runCleanupJob(ctx context.Context, cleanupService *service.CleanupService, logger *zap.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case now := <-ticker.C:
			cleanupService.CleanupExpired(now)
		}
	}
}
