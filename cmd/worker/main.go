package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clipperline/barbershop-api/config"
	"github.com/clipperline/barbershop-api/internal/email"
	"github.com/clipperline/barbershop-api/internal/repository"
	"github.com/clipperline/barbershop-api/internal/repository/postgres"
	notificationService "github.com/clipperline/barbershop-api/internal/service/notification"
	"github.com/clipperline/barbershop-api/pkg/logger"
	"github.com/clipperline/barbershop-api/pkg/messaging/redis"
	"github.com/clipperline/barbershop-api/pkg/metrics"
	"github.com/clipperline/barbershop-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("barbershop_worker")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	var emailSvc email.Service = email.NoopService{}
	if cfg.SMTP.Enabled {
		emailSvc = email.NewSMTPService(cfg.SMTP.ToEmailConfig())
	}

	setupHealthCheck(appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Shutting down worker")
		cancel()
	}()

	processor := worker.NewOutboxProcessor(
		outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), appLogger, appMetrics)
	go processor.Start(ctx)

	notifier := notificationService.NewService(broker, emailSvc, appLogger)
	go func() {
		if err := notifier.Start(ctx); err != nil {
			appLogger.Error(err, "Notification consumer stopped")
		}
	}()

	runStaleCleanup(ctx, appointmentRepo, cfg.Worker, appLogger)
}

// runStaleCleanup periodically cancels pending bookings that never received
// a payment, releasing their slots for rebooking.
func runStaleCleanup(ctx context.Context, repo repository.AppointmentRepository, cfg config.WorkerConfig, appLogger *logger.Logger) {
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	appLogger.Info("Starting stale booking cleanup",
		"pending_ttl", cfg.PendingTTL.String(),
		"interval", cfg.CleanupInterval.String())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cancelled, err := repo.CancelStalePending(ctx, time.Now().Add(-cfg.PendingTTL))
			if err != nil {
				appLogger.Error(err, "Failed to cancel stale bookings")
				continue
			}
			if cancelled > 0 {
				appLogger.Info("Cancelled stale bookings", "count", cancelled)
			}
		}
	}
}

func setupHealthCheck(appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			appLogger.Error(err, "Health check server failed")
			os.Exit(1)
		}
	}()
}
