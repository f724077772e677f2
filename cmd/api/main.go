package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pulsefit/gymchat/cmd/mainconfig"
	"github.com/pulsefit/gymchat/internal/api/router"
	"github.com/pulsefit/gymchat/internal/booking"
	"github.com/pulsefit/gymchat/internal/calendar"
	appconfig "github.com/pulsefit/gymchat/internal/config"
	"github.com/pulsefit/gymchat/internal/http/handlers"
	"github.com/pulsefit/gymchat/internal/notify"
	"github.com/pulsefit/gymchat/internal/observability/metrics"
	"github.com/pulsefit/gymchat/internal/otp"
	"github.com/pulsefit/gymchat/internal/session"
	"github.com/pulsefit/gymchat/internal/trainers"
	"github.com/pulsefit/gymchat/pkg/logging"
)

func main() {
	// Load .env in development; missing files are fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting gymchat API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	// Session store: in-memory with a background sweeper by default, Redis
	// when configured so sessions survive restarts.
	var store session.Store
	switch cfg.SessionBackend {
	case "redis":
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("redis unreachable", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		store = session.NewRedisStore(client, session.WithRedisMaxAge(cfg.SessionMaxAge))
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	default:
		memStore := session.NewMemoryStore(session.WithMaxAge(cfg.SessionMaxAge))
		sweeper := session.NewSweeper(memStore,
			session.WithSweepInterval(cfg.SessionSweep),
			session.WithSweeperLogger(logger),
		)
		go sweeper.Run(ctx)
		store = memStore
	}

	// Trainer directory: Postgres when configured, otherwise a seeded
	// in-memory roster so the flow works out of the box.
	var trainerRepo trainers.Repository
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		trainerRepo = trainers.NewPostgresRepository(db)
		logger.Info("using postgres trainer directory")
	} else {
		trainerRepo = trainers.NewInMemoryRepository(defaultTrainers()...)
		logger.Info("using built-in trainer roster")
	}

	// Email delivery: queue plus background dispatcher with bounded retry.
	sender := buildEmailSender(ctx, cfg, logger)
	queue := notify.NewQueue(cfg.EmailQueueSize)
	dispatcher := notify.NewDispatcher(queue, sender, logger).
		WithMaxAttempts(cfg.EmailRetryMax).
		WithDropObserver(func(notify.EmailMessage) { bookingMetrics.ObserveEmailDropped() })
	go dispatcher.Run(ctx)
	mailer := notify.NewMailer(queue)

	// Calendar sync is optional; a nil service disables it in the coordinator.
	var calendarService calendar.Service
	if cfg.CalendarSyncEnabled && cfg.GoogleCredentialsFile != "" {
		svc, err := calendar.NewGoogleService(ctx, cfg.GoogleCredentialsFile,
			calendar.WithCalendarID(cfg.GoogleCalendarID),
			calendar.WithTimeZone(cfg.TimeZone),
			calendar.WithLogger(logger),
		)
		if err != nil {
			logger.Error("failed to initialize google calendar", "error", err)
			os.Exit(1)
		}
		calendarService = svc
		logger.Info("google calendar sync enabled", "calendar_id", cfg.GoogleCalendarID)
	}

	otpOpts := []otp.Option{
		otp.WithTTL(cfg.OTPTTL),
		otp.WithMaxAttempts(cfg.OTPMaxAttempts),
		otp.WithResendCooldown(cfg.OTPResendCooldown),
	}
	if cfg.OTPBypassEnabled && cfg.Env != "production" {
		otpOpts = append(otpOpts, otp.WithBypassCode(cfg.OTPBypassCode))
		logger.Warn("otp bypass code enabled")
	}
	verifier := otp.New(otpOpts...)

	coordinator := booking.NewCoordinator(calendarService, mailer, logger).
		WithMetrics(bookingMetrics)
	engine := booking.NewEngine(store, verifier, trainerRepo, coordinator,
		booking.WithLogger(logger),
		booking.WithMetrics(bookingMetrics),
		booking.WithTimeZone(cfg.TimeZone),
		booking.WithWindowDays(cfg.SlotWindowDays),
	)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatWebhook:        handlers.NewChatWebhookHandler(engine, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Stop the dispatcher, then make one last pass over anything still queued.
	cancel()
	drainQueue(shutdownCtx, queue, sender, logger)

	logger.Info("server stopped")
}

// buildEmailSender picks the configured provider, falling back to the logging
// stub when the provider is unconfigured.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			logger.Info("using sendgrid email sender")
			return s
		}
		logger.Warn("sendgrid selected but no api key set, using stub sender")
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			logger.Info("using ses email sender", "region", cfg.AWSRegion)
			return s
		}
	}
	return notify.NewStubEmailSender(logger)
}

// drainQueue attempts direct delivery of emails still queued at shutdown.
func drainQueue(ctx context.Context, queue *notify.Queue, sender notify.EmailSender, logger *logging.Logger) {
	drained := 0
	for {
		msg, ok := queue.TryDequeue()
		if !ok {
			break
		}
		if err := sender.Send(ctx, msg); err != nil {
			logger.Error("failed to deliver queued email during shutdown", "error", err, "to", msg.To)
			continue
		}
		drained++
	}
	if drained > 0 {
		logger.Info("drained email queue", "delivered", drained)
	}
}

// defaultTrainers is the fallback roster used without a database.
func defaultTrainers() []trainers.Trainer {
	return []trainers.Trainer{
		{ID: "t-001", Name: "Ravi Kumar", Specialization: "Strength Training", Experience: 8},
		{ID: "t-002", Name: "Anita Desai", Specialization: "Yoga", Experience: 6},
		{ID: "t-003", Name: "Vikram Singh", Specialization: "CrossFit", Experience: 4},
		{ID: "t-004", Name: "Priya Nair", Specialization: "Weight Loss", Experience: 7},
		{ID: "t-005", Name: "Arjun Mehta", Specialization: "Cardio & Endurance", Experience: 5},
	}
}
