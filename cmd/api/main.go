package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Apps10/fullstack-test-backend/internal/customers"
	"github.com/Apps10/fullstack-test-backend/internal/inventory"
	"github.com/Apps10/fullstack-test-backend/internal/orders"
	"github.com/Apps10/fullstack-test-backend/internal/platform/config"
	"github.com/Apps10/fullstack-test-backend/internal/platform/postgres"
	"github.com/Apps10/fullstack-test-backend/internal/platform/telemetry"
	"github.com/Apps10/fullstack-test-backend/internal/transactions"
	"github.com/Apps10/fullstack-test-backend/internal/wompi"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down tracer provider", zap.Error(err))
		}
	}()

	mp, err := telemetry.InitMetrics(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatal("failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down meter provider", zap.Error(err))
		}
	}()

	if err := postgres.RunMigrations(cfg.Postgres, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	tracer := otel.Tracer(cfg.ServiceName)

	inventoryRepo := inventory.NewPostgresRepository(pool, log)
	customerRepo := customers.NewPostgresRepository(pool, log)
	transactionRepo := transactions.NewPostgresRepository(pool, log)
	orderRepo := orders.NewPostgresRepository(pool, cfg.SagaTimeout, log)

	paymentService := wompi.New(cfg.Wompi, log)

	findAllProducts := inventory.NewFindAllProductsUseCase(inventoryRepo, tracer, log)
	findTransaction := transactions.NewFindTransactionByIDUseCase(transactionRepo, tracer, log)
	createOrder := orders.NewCreateOrderUseCase(
		inventoryRepo, orderRepo, customerRepo, transactionRepo,
		cfg.TaxRatePercent, tracer, log,
	)
	checkout := orders.NewCheckoutUseCase(orderRepo, transactionRepo, inventoryRepo, paymentService, tracer, log)

	inventoryHandler := inventory.NewHandler(findAllProducts)
	transactionHandler := transactions.NewHandler(findTransaction)
	orderHandler := orders.NewHandler(createOrder, checkout)

	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")
	{
		api.GET("/products", inventoryHandler.FindAllProducts)
		api.GET("/transactions/:id", transactionHandler.FindTransactionByID)
		api.POST("/orders", orderHandler.CreateOrder)
		api.POST("/orders/checkout", orderHandler.Checkout)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
