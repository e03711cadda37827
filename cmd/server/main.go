package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	activityapp "github.com/wheeltrade/backend/internal/application/activity"
	authapp "github.com/wheeltrade/backend/internal/application/auth"
	billingapp "github.com/wheeltrade/backend/internal/application/billing"
	catalogapp "github.com/wheeltrade/backend/internal/application/catalog"
	dealapp "github.com/wheeltrade/backend/internal/application/deal"
	dealerapp "github.com/wheeltrade/backend/internal/application/dealer"
	documentapp "github.com/wheeltrade/backend/internal/application/document"
	logisticsapp "github.com/wheeltrade/backend/internal/application/logistics"
	notificationapp "github.com/wheeltrade/backend/internal/application/notification"
	pricingapp "github.com/wheeltrade/backend/internal/application/pricing"
	"github.com/wheeltrade/backend/internal/domain/billing"
	dealdomain "github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/infrastructure/auth"
	"github.com/wheeltrade/backend/internal/infrastructure/config"
	"github.com/wheeltrade/backend/internal/infrastructure/event"
	"github.com/wheeltrade/backend/internal/infrastructure/logger"
	"github.com/wheeltrade/backend/internal/infrastructure/payment"
	"github.com/wheeltrade/backend/internal/infrastructure/pdf"
	"github.com/wheeltrade/backend/internal/infrastructure/persistence"
	"github.com/wheeltrade/backend/internal/infrastructure/scheduler"
	"github.com/wheeltrade/backend/internal/infrastructure/storage"
	"github.com/wheeltrade/backend/internal/infrastructure/telemetry"
	"github.com/wheeltrade/backend/internal/interfaces/http/handler"
	"github.com/wheeltrade/backend/internal/interfaces/http/middleware"
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

	log.Info("Starting WheelTrade Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// OpenTelemetry providers for traces, metrics and logs. When telemetry
	// is disabled they degrade to no-ops, so the rest of the wiring stays
	// unconditional.
	otelCtx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(otelCtx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(otelCtx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportEvery,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(otelCtx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Tee zap output into OTLP logs alongside the console core
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          logger.ParseLevel(cfg.Log.Level),
		})
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelCore)
		}))
	}

	// Continuous profiling, with span profiles when tracing is also on
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServerAddr,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Query spans become children of the request span
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Redis serves the token blacklist and the margin schedule store
	redisClient := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	pingCancel()
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	log.Info("Redis connected successfully")

	tokenBlacklist := auth.NewRedisTokenBlacklistWithClient(redisClient)
	scheduleStore := persistence.NewRedisScheduleStore(redisClient)

	// Initialize repositories
	dealerRepo := persistence.NewGormDealerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	vehicleRepo := persistence.NewGormVehicleRepository(db.DB)
	dealRepo := persistence.NewGormDealRepository(db.DB)
	escrowPaymentRepo := persistence.NewGormEscrowPaymentRepository(db.DB)
	transportPartnerRepo := persistence.NewGormTransportPartnerRepository(db.DB)
	transportOrderRepo := persistence.NewGormTransportOrderRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)

	// Escrow gateway: HTTP client when a base URL is configured, the
	// local stub otherwise (development without a gateway account)
	var escrowGateway billing.PaymentGateway
	if cfg.Payment.GatewayBaseURL != "" {
		escrowGateway = payment.NewHTTPGateway(cfg.Payment)
		log.Info("Escrow gateway configured", zap.String("base_url", cfg.Payment.GatewayBaseURL))
	} else {
		escrowGateway = payment.NewStubGateway(cfg.Payment.WebhookSecret)
		log.Warn("No escrow gateway configured, using stub gateway")
	}

	// Object storage for vehicle photos and generated documents
	var objectStorage documentapp.ObjectStorageService
	if cfg.Storage.Provider == "s3" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		bucketCtx, bucketCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(bucketCtx); err != nil {
			log.Warn("Could not ensure storage bucket", zap.Error(err))
		}
		bucketCancel()
		objectStorage = s3Storage
		log.Info("S3 object storage configured", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("No object storage configured, using stub storage")
	}

	// PDF renderer for receipts and job sheets
	var pdfRenderer pdf.PDFRenderer
	if cfg.Document.Enabled {
		renderer, err := pdf.NewChromedpRenderer(&pdf.ChromedpConfig{
			DefaultTimeout: cfg.Document.RenderTimeout,
			ChromePath:     cfg.Document.ChromePath,
			NoSandbox:      os.Geteuid() == 0,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		pdfRenderer = renderer
		log.Info("PDF renderer initialized")
	} else {
		pdfRenderer = pdf.NewStubRenderer()
		log.Warn("Document generation disabled, using stub renderer")
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Offer TTL is a domain-level setting
	dealdomain.SetOfferTTL(cfg.Deal.OfferTTL)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := authapp.NewAuthService(userRepo, dealerRepo, jwtService, tokenBlacklist)
	dealerService := dealerapp.NewDealerService(dealerRepo, userRepo)
	vehicleService := catalogapp.NewVehicleService(vehicleRepo, dealerRepo, objectStorage)
	dealService := dealapp.NewDealService(dealRepo, vehicleRepo, dealerRepo)
	dealService.SetMaxOpenPerVehicle(cfg.Deal.MaxOpenPerVehicle)
	dealService.SetLogger(log)
	pricingService := pricingapp.NewPricingService(dealerRepo, vehicleRepo, scheduleStore, log)
	escrowService := billingapp.NewEscrowService(escrowPaymentRepo, dealRepo, escrowGateway)
	escrowService.SetLogger(log)
	logisticsService := logisticsapp.NewLogisticsService(transportPartnerRepo, transportOrderRepo, dealRepo, vehicleRepo)
	logisticsService.SetLogger(log)
	notificationService := notificationapp.NewNotificationService(notificationRepo)
	notificationService.SetLogger(log)
	documentService := documentapp.NewDocumentService(documentapp.DocumentServiceDeps{
		DocumentRepo: documentRepo,
		DealRepo:     dealRepo,
		DealerRepo:   dealerRepo,
		VehicleRepo:  vehicleRepo,
		PaymentRepo:  escrowPaymentRepo,
		OrderRepo:    transportOrderRepo,
		PartnerRepo:  transportPartnerRepo,
		Renderer:     pdfRenderer,
		Storage:      objectStorage,
		MarginQuoter: pricingService,
		Logger:       log,
	})
	activityService := activityapp.NewActivityService(activityRepo)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Deal accepted -> vehicle reserved; deal closed -> vehicle released
	reservationHandler := catalogapp.NewReservationHandler(vehicleRepo, log)
	eventBus.Subscribe(reservationHandler)

	// Escrow funded / released -> deal progresses
	progressionHandler := dealapp.NewProgressionHandler(dealRepo, log)
	eventBus.Subscribe(progressionHandler)

	// Deal completed -> escrow released to seller; deal closed -> refund
	settlementHandler := billingapp.NewSettlementHandler(escrowPaymentRepo, escrowGateway, log)
	eventBus.Subscribe(settlementHandler)

	// Negotiation and fulfilment events -> in-app notifications
	notificationEventHandler := notificationapp.NewNotificationHandler(notificationRepo, dealRepo, log)
	eventBus.Subscribe(notificationEventHandler)

	// Every published event -> immutable activity record
	activityRecorder := activityapp.NewRecorder(activityRepo, eventSerializer, log)
	eventBus.Subscribe(activityRecorder)

	// Lifecycle events -> business metrics
	marketplaceMetrics, err := telemetry.NewMarketplaceMetrics(meterProvider.Meter("wheeltrade.marketplace"), log)
	if err != nil {
		log.Fatal("Failed to create marketplace metrics", zap.Error(err))
	}
	eventBus.Subscribe(marketplaceMetrics)

	log.Info("Event handlers registered",
		zap.Strings("reservation_events", reservationHandler.EventTypes()),
		zap.Strings("progression_events", progressionHandler.EventTypes()),
		zap.Strings("settlement_events", settlementHandler.EventTypes()),
		zap.Strings("notification_events", notificationEventHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	authService.SetEventPublisher(eventBus)
	dealerService.SetEventPublisher(eventBus)
	vehicleService.SetEventPublisher(eventBus)
	dealService.SetEventPublisher(eventBus)
	escrowService.SetEventPublisher(eventBus)
	logisticsService.SetEventPublisher(eventBus)
	reservationHandler.SetEventPublisher(eventBus)
	progressionHandler.SetEventPublisher(eventBus)
	settlementHandler.SetEventPublisher(eventBus)

	// Background jobs: offer expiry sweeps and notification cleanup
	if cfg.Scheduler.Enabled {
		expiryScheduler := scheduler.NewOfferExpiryScheduler(dealService, log, scheduler.OfferExpirySchedulerConfig{
			Enabled:       true,
			SweepInterval: cfg.Deal.ExpirySweepEvery,
			SweepLimit:    cfg.Deal.ExpirySweepLimit,
		})
		if err := expiryScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start offer expiry scheduler", zap.Error(err))
		}
		defer func() {
			if err := expiryScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping offer expiry scheduler", zap.Error(err))
			}
		}()

		cleanupScheduler := scheduler.NewNotificationCleanupScheduler(notificationService, log, scheduler.NotificationCleanupSchedulerConfig{
			Enabled:    true,
			Interval:   cfg.Scheduler.NotificationCleanup,
			MaxAgeDays: cfg.Scheduler.NotificationMaxAge,
		})
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start notification cleanup scheduler", zap.Error(err))
		}
		defer func() {
			if err := cleanupScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping notification cleanup scheduler", zap.Error(err))
			}
		}()
		log.Info("Schedulers started",
			zap.Duration("expiry_sweep_every", cfg.Deal.ExpirySweepEvery),
			zap.Duration("notification_cleanup", cfg.Scheduler.NotificationCleanup),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	dealerHandler := handler.NewDealerHandler(dealerService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	dealHandler := handler.NewDealHandler(dealService)
	pricingHandler := handler.NewPricingHandler(pricingService)
	paymentHandler := handler.NewPaymentHandler(escrowService)
	logisticsHandler := handler.NewLogisticsHandler(logisticsService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	documentHandler := handler.NewDocumentHandler(documentService)
	activityHandler := handler.NewActivityHandler(activityService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	api := engine.Group("/api/v1")

	// JWT authentication with public endpoints skipped. The escrow
	// webhook authenticates via HMAC signature instead.
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/dealers/register",
			"/api/v1/payments/webhook",
		},
		Logger: log,
	}))

	// Dealer and user attributes land on spans after authentication
	api.Use(middleware.TracingAttributeInjector())

	// Tighter rate limit for credential endpoints
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimited := middleware.RateLimit(authLimiter)
		api.POST("/auth/login", authLimited, authHandler.Login)
		api.POST("/auth/refresh", authLimited, authHandler.Refresh)
	} else {
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
	}

	// Identity routes
	authRoutes := api.Group("/auth")
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Dealer routes
	dealerRoutes := api.Group("/dealers")
	dealerRoutes.POST("/register", dealerHandler.Register)
	dealerRoutes.GET("", dealerHandler.List)
	dealerRoutes.GET("/me", dealerHandler.GetProfile)
	dealerRoutes.PUT("/me", dealerHandler.UpdateProfile)
	dealerRoutes.PUT("/me/bank-account", dealerHandler.UpdateBankAccount)
	dealerRoutes.PUT("/me/margin-policy", dealerHandler.UpdateMarginPolicy)
	dealerRoutes.PUT("/me/customer-mode", dealerHandler.SetCustomerMode)
	dealerRoutes.GET("/:id", dealerHandler.Get)
	dealerRoutes.POST("/:id/activate", middleware.RequireOwnerRole(), dealerHandler.Activate)
	dealerRoutes.POST("/:id/suspend", middleware.RequireOwnerRole(), dealerHandler.Suspend)

	// Vehicle routes
	vehicleRoutes := api.Group("/vehicles")
	vehicleRoutes.POST("", vehicleHandler.Create)
	vehicleRoutes.GET("", vehicleHandler.ListInventory)
	vehicleRoutes.GET("/summary", vehicleHandler.InventorySummary)
	vehicleRoutes.GET("/marketplace", vehicleHandler.Marketplace)
	vehicleRoutes.GET("/:id", vehicleHandler.Get)
	vehicleRoutes.PUT("/:id", vehicleHandler.Update)
	vehicleRoutes.DELETE("/:id", vehicleHandler.Delete)
	vehicleRoutes.PUT("/:id/pricing", vehicleHandler.SetPricing)
	vehicleRoutes.POST("/:id/list", vehicleHandler.ListOnMarketplace)
	vehicleRoutes.POST("/:id/delist", vehicleHandler.Delist)
	vehicleRoutes.POST("/:id/photos/upload-url", vehicleHandler.RequestPhotoUpload)
	vehicleRoutes.PUT("/:id/photos", vehicleHandler.SetPhotos)
	vehicleRoutes.GET("/:id/photos/url", vehicleHandler.GetPhotoURL)
	vehicleRoutes.GET("/:id/deals", dealHandler.ListForVehicle)
	vehicleRoutes.GET("/:id/quote", pricingHandler.QuoteForVehicle)

	// Deal routes
	dealRoutes := api.Group("/deals")
	dealRoutes.POST("", dealHandler.MakeOffer)
	dealRoutes.GET("", dealHandler.List)
	dealRoutes.GET("/summary", dealHandler.Summary)
	dealRoutes.GET("/:id", dealHandler.Get)
	dealRoutes.POST("/:id/counter", dealHandler.Counter)
	dealRoutes.POST("/:id/accept", dealHandler.Accept)
	dealRoutes.POST("/:id/reject", dealHandler.Reject)
	dealRoutes.POST("/:id/cancel", dealHandler.Cancel)
	dealRoutes.GET("/:id/payments", paymentHandler.ListForDeal)
	dealRoutes.GET("/:id/transport-orders", logisticsHandler.ListOrdersForDeal)
	dealRoutes.GET("/:id/documents", documentHandler.ListForDeal)

	// Pricing routes
	pricingRoutes := api.Group("/pricing")
	pricingRoutes.GET("/schedule", pricingHandler.GetSchedule)
	pricingRoutes.PUT("/schedule", middleware.RequireOwnerRole(), pricingHandler.ReplaceSchedule)
	pricingRoutes.POST("/quote", pricingHandler.Quote)

	// Payment routes
	paymentRoutes := api.Group("/payments")
	paymentRoutes.POST("/escrow", paymentHandler.InitiateEscrow)
	paymentRoutes.POST("/webhook", paymentHandler.Webhook)
	paymentRoutes.GET("", paymentHandler.List)
	paymentRoutes.GET("/:id", paymentHandler.Get)

	// Transport routes
	transportRoutes := api.Group("/transport")
	transportRoutes.POST("/partners", middleware.RequireOwnerRole(), logisticsHandler.CreatePartner)
	transportRoutes.GET("/partners", logisticsHandler.ListPartners)
	transportRoutes.GET("/partners/:id", logisticsHandler.GetPartner)
	transportRoutes.PUT("/partners/:id/rates", middleware.RequireOwnerRole(), logisticsHandler.UpdatePartnerRates)
	transportRoutes.PUT("/partners/:id/active", middleware.RequireOwnerRole(), logisticsHandler.SetPartnerActive)
	transportRoutes.POST("/quotes", logisticsHandler.QuoteRoutes)
	transportRoutes.POST("/orders", logisticsHandler.CreateOrder)
	transportRoutes.GET("/orders", logisticsHandler.ListOrders)
	transportRoutes.GET("/orders/:id", logisticsHandler.GetOrder)
	transportRoutes.POST("/orders/:id/book", logisticsHandler.BookOrder)
	transportRoutes.POST("/orders/:id/pickup", logisticsHandler.MarkPickedUp)
	transportRoutes.POST("/orders/:id/in-transit", logisticsHandler.MarkInTransit)
	transportRoutes.POST("/orders/:id/delivered", logisticsHandler.MarkDelivered)
	transportRoutes.POST("/orders/:id/cancel", logisticsHandler.CancelOrder)

	// Notification routes
	notificationRoutes := api.Group("/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
	notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)

	// Document routes
	documentRoutes := api.Group("/documents")
	documentRoutes.POST("/receipts", documentHandler.GenerateReceipt)
	documentRoutes.POST("/job-sheets", documentHandler.GenerateJobSheet)
	documentRoutes.GET("/:id", documentHandler.Get)
	documentRoutes.GET("/:id/download", documentHandler.Download)

	// Activity routes
	activityRoutes := api.Group("/activity")
	activityRoutes.GET("", activityHandler.List)
	activityRoutes.GET("/mine", activityHandler.ListMine)
	activityRoutes.GET("/:type/:id", activityHandler.ListForAggregate)

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
