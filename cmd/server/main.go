package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reissue-service/internal/domain/repository"
	"reissue-service/internal/infrastructure/cache"
	"reissue-service/internal/infrastructure/config"
	"reissue-service/internal/infrastructure/persistence"
	"reissue-service/internal/interface/httpapi"
	storeRepo "reissue-service/internal/interface/repository"
	"reissue-service/internal/usecase"
	"reissue-service/pkg/logger"
	"reissue-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Reissuance Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run store: MongoDB when configured, in-memory otherwise
	var runRepo repository.RunRepository
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		runRepo = storeRepo.NewMongoRunRepository(persistence.GetDatabase(mongoClient, cfg.MongoDB))
	} else {
		log.Info("Using in-memory run store", "retention", cfg.RunRetention)
		runRepo = storeRepo.NewMemoryRunRepository(cfg.RunRetention)
	}

	// Booking store: Postgres when configured, seeded in-memory otherwise
	var bookingRepo repository.BookingRepository
	if cfg.PostgresDSN != "" {
		log.Info("Connecting to PostgreSQL")
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		bookingRepo = storeRepo.NewGormBookingRepository(gormDB)
	} else {
		log.Info("Using seeded in-memory booking store")
		bookingRepo = storeRepo.NewMemoryBookingRepository(storeRepo.SeedBookings())
	}

	// Search cache, optional
	var redisCache *cache.RedisClient
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedisClient(cfg.RedisAddr, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisCache.Close()
	}

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	searchUsecase := usecase.NewSearchUsecase(bookingRepo, redisCache, log)
	processor := usecase.NewReissueProcessor(bookingRepo, runRepo, m, log, cfg.IssuanceDelay, nil)

	// Set up HTTP server
	mux := http.NewServeMux()
	handlers := httpapi.NewHandlers(searchUsecase, processor, runRepo, log)
	handlers.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port, "version", cfg.AppVersion)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal, shutting down", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	// Let in-flight runs reach a terminal state before closing stores
	processor.Wait()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Shutdown complete")
}
