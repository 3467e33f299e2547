package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamseason/backend/internal/application/fulfillment"
	"github.com/teamseason/backend/internal/domain/print"
	"github.com/teamseason/backend/internal/infrastructure/cache"
	"github.com/teamseason/backend/internal/infrastructure/config"
	"github.com/teamseason/backend/internal/infrastructure/logger"
	"github.com/teamseason/backend/internal/infrastructure/payment"
	"github.com/teamseason/backend/internal/infrastructure/persistence"
	"github.com/teamseason/backend/internal/infrastructure/printvendor"
	"github.com/teamseason/backend/internal/infrastructure/render"
	"github.com/teamseason/backend/internal/infrastructure/storage"
	"github.com/teamseason/backend/internal/interfaces/http/handler"
	"github.com/teamseason/backend/internal/interfaces/http/middleware"
	"github.com/teamseason/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Team Season Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database and run migrations
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	jobRepo := persistence.NewGormFulfillmentJobRepository(db.DB)

	// Artifact storage; the in-memory stub keeps local development and
	// the book-data endpoint working without S3 credentials
	var artifacts fulfillment.ArtifactStore
	if cfg.Storage.IsConfigured() {
		s3Store, err := storage.NewS3Store(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		artifacts = s3Store
		log.Info("Object storage configured", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		artifacts = storage.NewStubStore()
		log.Warn("Object storage not configured, using in-memory store")
	}

	// Stripe payments
	var payments *payment.StripeAdapter
	if cfg.Payments.IsConfigured() {
		payments, err = payment.NewStripeAdapter(&payment.StripeConfig{
			SecretKey:          cfg.Payments.SecretKey,
			WebhookSecret:      cfg.Payments.WebhookSecret,
			SuccessURL:         cfg.Payments.SuccessURL,
			CancelURL:          cfg.Payments.CancelURL,
			BookPriceCents:     cfg.Payments.BookPriceUSD,
			ShippingPriceCents: cfg.Payments.ShippingUSD,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe", zap.Error(err))
		}
		log.Info("Payments configured")
	} else {
		log.Warn("Payments not configured, checkout and webhooks disabled")
	}

	// Print vendor
	var vendor fulfillment.PrintVendor
	if cfg.Vendor.IsConfigured() {
		lulu, err := printvendor.NewLuluClient(&printvendor.LuluConfig{
			APIBase:      cfg.Vendor.APIBase,
			AuthURL:      cfg.Vendor.AuthURL,
			ClientKey:    cfg.Vendor.ClientKey,
			ClientSecret: cfg.Vendor.Secret,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize print vendor client", zap.Error(err))
		}
		vendor = lulu
		log.Info("Print vendor configured", zap.String("api_base", cfg.Vendor.APIBase))
	} else {
		log.Warn("Print vendor not configured, fulfillment stops at rendered artifacts")
	}

	product, ok := print.ProductByKey(cfg.Vendor.ProductKey)
	if !ok {
		log.Fatal("Unknown vendor product", zap.String("product_key", cfg.Vendor.ProductKey))
	}

	// Webhook idempotency store: Redis when configured, in-memory otherwise
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotency, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotency.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// PDF renderer
	renderer, err := render.NewChromedpRenderer(&render.ChromedpConfig{
		TemplateBaseURL: cfg.Render.TemplateBaseURL,
		DefaultTimeout:  cfg.Render.Timeout,
		SettleDelay:     cfg.Render.SettleDelay,
		RemoteURL:       cfg.Render.RemoteURL,
		NoSandbox:       cfg.Render.NoSandbox,
		Logger:          log,
	})
	if err != nil {
		log.Fatal("Failed to initialize renderer", zap.Error(err))
	}
	defer func() {
		// Close the renderer explicitly so no Chrome process outlives us
		if err := renderer.Close(); err != nil {
			log.Error("Error closing renderer", zap.Error(err))
		}
	}()

	service := fulfillment.NewService(jobRepo, artifacts, renderer, vendor, idempotency, product, log)

	// Setup gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	// Book data payloads carry inlined photos, so the global cap is generous
	engine.Use(middleware.BodyLimit(48 << 20))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Render.TemplateBaseURL},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Request-ID", "Stripe-Signature", "Accept", "Origin"},
		MaxAge:       12 * time.Hour,
	}))

	// Handlers
	var bookDataStore fulfillment.ArtifactStore
	if cfg.Storage.IsConfigured() || cfg.App.Env != "production" {
		bookDataStore = artifacts
	}

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithHealthHandler(handler.NewHealthHandler(db)),
	)
	r.Register(handler.NewBookDataHandler(bookDataStore, log)).
		Register(handler.NewCheckoutHandler(payments, log)).
		Register(handler.NewStripeWebhookHandler(payments, service, log)).
		Register(handler.NewLuluWebhookHandler(service, log)).
		Register(handler.NewOrderHandler(service, log))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
