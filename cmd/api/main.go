package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/clipperline/barbershop-api/config"
	"github.com/clipperline/barbershop-api/internal/handler"
	appointmentHandler "github.com/clipperline/barbershop-api/internal/handler/appointment"
	authHandler "github.com/clipperline/barbershop-api/internal/handler/auth"
	barberHandler "github.com/clipperline/barbershop-api/internal/handler/barber"
	catalogHandler "github.com/clipperline/barbershop-api/internal/handler/catalog"
	paymentHandler "github.com/clipperline/barbershop-api/internal/handler/payment"
	shopHandler "github.com/clipperline/barbershop-api/internal/handler/shop"
	"github.com/clipperline/barbershop-api/internal/middleware"
	"github.com/clipperline/barbershop-api/internal/payment"
	"github.com/clipperline/barbershop-api/internal/repository/postgres"
	"github.com/clipperline/barbershop-api/internal/router"
	appointmentService "github.com/clipperline/barbershop-api/internal/service/appointment"
	authService "github.com/clipperline/barbershop-api/internal/service/auth"
	barberService "github.com/clipperline/barbershop-api/internal/service/barber"
	catalogService "github.com/clipperline/barbershop-api/internal/service/catalog"
	shopService "github.com/clipperline/barbershop-api/internal/service/shop"
	"github.com/clipperline/barbershop-api/pkg/auth"
	"github.com/clipperline/barbershop-api/pkg/logger"
	"github.com/clipperline/barbershop-api/pkg/messaging/redis"
	"github.com/clipperline/barbershop-api/pkg/metrics"
	"github.com/clipperline/barbershop-api/pkg/security"
	"github.com/clipperline/barbershop-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("barbershop")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	categoryRepo := postgres.NewCategoryRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	barberRepo := postgres.NewBarberRepository(db)
	productRepo := postgres.NewProductRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	catalogSvc := catalogService.NewService(categoryRepo, serviceRepo)
	barberSvc := barberService.NewService(barberRepo)
	shopSvc := shopService.NewService(productRepo, cartRepo).WithOutbox(outboxRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, serviceRepo, barberRepo, appMetrics)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	authSvc := authService.NewService(userRepo, hasher, jwtSvc)

	stripeClient := payment.NewClient(cfg.Stripe.ToPaymentConfig())

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	health := handler.NewHealth(db)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	rateLimit := rate.Limit(0)
	if cfg.RateLimit.Enabled {
		rateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
	}

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		catalogHandler.NewHandler(catalogSvc),
		barberHandler.NewHandler(barberSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		shopHandler.NewHandler(shopSvc),
		paymentHandler.NewHandler(stripeClient, appointmentSvc, shopSvc, appMetrics, appLogger),
		health,
		appLogger,
		router.RouterConfig{
			RateLimit:      rateLimit,
			RateBurst:      cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSConfig:     corsConfig,
			MetricsPrefix:  "barbershop_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outbox events flow to Redis; the worker binary consumes them, but the
	// API drains its own outbox too so bookings publish without the worker.
	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxProcessor := worker.NewOutboxProcessor(
		outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), appLogger, appMetrics)
	go outboxProcessor.Start(ctx)

	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
