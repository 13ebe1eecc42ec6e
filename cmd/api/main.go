package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/buyerleads/internal/config"
	"github.com/xavierca1/buyerleads/internal/infra/database"
	"github.com/xavierca1/buyerleads/internal/infra/http/handlers"
	"github.com/xavierca1/buyerleads/internal/infra/http/middleware"
	"github.com/xavierca1/buyerleads/internal/infra/http/router"
	"github.com/xavierca1/buyerleads/internal/infra/mail"
	"github.com/xavierca1/buyerleads/internal/infra/queue"
	"github.com/xavierca1/buyerleads/internal/infra/ratelimit"
	"github.com/xavierca1/buyerleads/internal/logger"
	"github.com/xavierca1/buyerleads/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, "buyerleads-api")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	// 1. Storage
	db, err := database.NewDBConnection(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	store := database.NewStore(db)

	// 2. Optional infrastructure
	var rdb *redis.Client
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Addr != "" {
			rdb = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer rdb.Close()
			limiter = ratelimit.NewRedisLimiter(rdb, "ratelimit:import:", cfg.RateLimit.RequestsPerMinute, time.Minute)
		} else {
			limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute, time.Minute, cfg.RateLimit.Capacity)
		}
	}

	var events usecase.BuyerEventPublisher
	var rabbitConn *amqp091.Connection
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn
		events = queue.NewProducer(rabbitMQ.Ch)
	} else {
		lg.Info("RABBITMQ_URL not set, buyer events disabled")
	}

	var notifier usecase.ImportNotifier
	if cfg.Mail.Enabled() {
		notifier = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	}

	// 3. Use cases
	createUC := usecase.NewCreateBuyerUseCase(store, events, lg)
	updateUC := usecase.NewUpdateBuyerUseCase(store, events, lg)
	getUC := usecase.NewGetBuyerUseCase(store)
	listUC := usecase.NewListBuyersUseCase(store)
	importUC := usecase.NewImportBuyersUseCase(store, events, notifier, lg, cfg.Import.MaxRows)
	exportUC := usecase.NewExportBuyersUseCase(store)

	// 4. HTTP
	handler := router.New(router.Deps{
		Buyers:         handlers.NewBuyerHandler(createUC, updateUC, getUC, listUC, lg),
		Import:         handlers.NewImportHandler(importUC, cfg.Import.MaxBytes, lg),
		Export:         handlers.NewExportHandler(exportUC, lg),
		Health:         handlers.NewHealthHandler(db, rdb, rabbitConn, version),
		Auth:           middleware.NewAuthenticator(cfg.Auth.JWTSecret, lg),
		ImportLimiter:  limiter,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		TrustProxy:     cfg.HTTP.TrustProxy,
		Logger:         lg,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server listening", zap.String("addr", cfg.HTTP.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
