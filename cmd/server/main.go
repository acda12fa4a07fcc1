package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aditya13-hue/zup/internal/catalog"
	"github.com/aditya13-hue/zup/internal/commission"
	"github.com/aditya13-hue/zup/internal/config"
	"github.com/aditya13-hue/zup/internal/events"
	"github.com/aditya13-hue/zup/internal/gate"
	zuphttp "github.com/aditya13-hue/zup/internal/http"
	"github.com/aditya13-hue/zup/internal/ledger"
	"github.com/aditya13-hue/zup/internal/logger"
	"github.com/aditya13-hue/zup/internal/order"
	"github.com/aditya13-hue/zup/internal/payment"
)

func main() {
	log := logger.New("zup-backend")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	// Ledger backend is selected by configuration, never by catch-and-fall-back.
	var (
		transactions ledger.TransactionLedger
		products     ledger.ProductLedger
		stores       ledger.StoreLedger
	)
	switch cfg.LedgerBackend {
	case config.BackendMongo:
		db, err := ledger.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer db.Client().Disconnect(ctx)
		transactions = ledger.NewMongoTransactionLedger(db)
		products = ledger.NewMongoProductLedger(db)
		stores = ledger.NewMongoStoreLedger(db)
		log.Info().Str("uri", cfg.MongoURI).Msg("connected to MongoDB ledger")
	case config.BackendMemory:
		memProducts := ledger.NewMemoryProductLedger()
		memStores := ledger.NewMemoryStoreLedger()
		if err := catalog.Seed(ctx, memProducts, memStores); err != nil {
			log.Fatal().Err(err).Msg("failed to seed in-memory ledger")
		}
		transactions = ledger.NewMemoryTransactionLedger()
		products = memProducts
		stores = memStores
		log.Warn().Msg("using in-memory ledger: data is lost on restart")
	}
	transactions = ledger.NewBreakerTransactionLedger(transactions)

	// Product cache
	var cache catalog.ProductCache = catalog.NopCache{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		cache = catalog.NewRedisCache(redisClient)
		log.Info().Str("addr", cfg.RedisAddr).Msg("product cache enabled")
	}

	// Lifecycle events
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(log, cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("lifecycle event publisher enabled")
	}

	verifier, err := payment.NewVerifier(cfg.GatewaySecret, cfg.InsecureDemoMode)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build payment verifier")
	}
	if verifier.Mode() == payment.ModeInsecureDemo {
		log.Warn().Msg("PAYMENT VERIFICATION DISABLED: insecure demo mode accepts every confirmation")
	}

	calc := commission.NewCalculator(cfg.CommissionBps)
	orderService := order.NewService(transactions, calc, verifier, publisher, cfg.Currency, log)
	exitGate := gate.NewGate(transactions, log)
	catalogService := catalog.NewService(products, stores, cache, log)

	ordersHandler := zuphttp.NewOrdersHandler(orderService, transactions, cfg.RequestTimeout)
	paymentHandler := zuphttp.NewPaymentHandler(orderService, cfg.RequestTimeout)
	exitHandler := zuphttp.NewExitHandler(exitGate, cfg.RequestTimeout)
	catalogHandler := zuphttp.NewCatalogHandler(catalogService, cfg.RequestTimeout)
	partnerHandler := zuphttp.NewPartnerHandler(catalogService, transactions, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(zuphttp.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(zuphttp.BodyLimitMiddleware(cfg.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/orders", ordersHandler.CreateOrder)
	r.Get("/orders/{order_id}/receipt", ordersHandler.GetReceipt)

	// Both endpoints are unauthenticated and driven by external callers
	// (gateway webhooks, exit scanners), so they are throttled.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Throttle(100))
		r.Post("/payments/confirm", paymentHandler.ConfirmPayment)
		r.Get("/exit/verify", exitHandler.Verify)
		r.Post("/exit/verify", exitHandler.Verify)
	})

	r.Get("/products", catalogHandler.ListProducts)
	r.Get("/products/{barcode}", catalogHandler.GetProduct)
	r.Get("/stores", catalogHandler.ListStores)
	r.Get("/stores/{store_id}", catalogHandler.GetStore)

	r.Route("/partner", func(r chi.Router) {
		r.Use(zuphttp.PartnerKeyMiddleware(cfg.PartnerAPIKey))
		r.Get("/analytics", partnerHandler.Analytics)
		r.Post("/inventory", partnerHandler.UpsertProduct)
		r.Delete("/inventory/{barcode}", partnerHandler.RemoveProduct)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "zup-backend"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("env", cfg.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
