package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	callbackUseCase "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/usecase/callback"
	paymentUseCase "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/usecase/payment"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/daraja"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/repository"
	timeProvider "github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)

	// Setup database configuration
	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            parsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
	}

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	conn, err := database.NewConnection(dbConfig)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	// Run migrations
	migrationMgr := migration.NewMigrationManager(conn.DB, appLogger)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepository(conn.DB, tp, appLogger)

	// Setup provider gateway
	gatewayConfig := &daraja.Config{
		BaseURL:        cfg.Mpesa.BaseURL,
		ConsumerKey:    cfg.Mpesa.ConsumerKey,
		ConsumerSecret: cfg.Mpesa.ConsumerSecret,
		Shortcode:      cfg.Mpesa.Shortcode,
		Passkey:        cfg.Mpesa.Passkey,
		CallbackURL:    cfg.Mpesa.CallbackURL,
		RequestTimeout: cfg.Mpesa.RequestTimeout,
		TokenSkew:      cfg.Mpesa.TokenSkew,
	}
	if err := gatewayConfig.Validate(); err != nil {
		appLogger.Error("Invalid gateway configuration", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.Mpesa.RequestTimeout}
	tokenCache := daraja.NewCredentialCache(gatewayConfig, httpClient, tp, appLogger)
	gatewayClient := daraja.NewClient(gatewayConfig, tokenCache, httpClient, tp, appLogger)

	// Initialize use cases
	reconciler := paymentUseCase.NewReconciler(transactionRepo, appLogger)
	paymentService := paymentUseCase.NewService(gatewayClient, transactionRepo, reconciler, tp, appLogger)

	// Assemble the callback security pipeline. Order matters: the rate
	// limiter fronts the allowlist so floods are counted before anything
	// else, and the signature check only runs on structurally valid bodies.
	allowlist, err := callbackUseCase.NewIPAllowlist(cfg.Callback.AllowedRanges, cfg.Callback.AllowDevelopment)
	if err != nil {
		appLogger.Error("Invalid callback allowlist configuration", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	validators := []callbackUseCase.Validator{
		callbackUseCase.NewRateLimiter(cfg.Callback.RateLimitWindow, cfg.Callback.RateLimitMax, tp),
		allowlist,
		callbackUseCase.NewStructureValidator(),
	}
	if cfg.Callback.SignatureSecret != "" {
		validators = append(validators, callbackUseCase.NewSignatureValidator(cfg.Callback.SignatureSecret))
	} else if cfg.Environment == config.Production {
		appLogger.Warn("Callback signature verification disabled, no secret configured", nil)
	}
	pipeline := callbackUseCase.NewPipeline(appLogger, validators...)

	// Initialize API handlers
	paymentHandler := handler.NewPaymentHandler(paymentService, appLogger)
	callbackHandler := handler.NewCallbackHandler(pipeline, reconciler, appLogger)

	// Initialize Gin router
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		appLogger.Error("Invalid trusted proxy configuration", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger)

	// Setup routes
	routes.SetupRoutes(router, paymentHandler, callbackHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// parsePort converts a port string to an int, falling back to the postgres default
func parsePort(port string) int {
	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 {
		return 5432
	}
	return p
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or MPESA_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or MPESA_DB_USERNAME environment variable)")
	}
	if cfg.Database.Password == "" {
		missingConfigs = append(missingConfigs, "database.password (or MPESA_DB_PASSWORD environment variable)")
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or MPESA_DB_NAME environment variable)")
	}

	if cfg.Mpesa.ConsumerKey == "" {
		missingConfigs = append(missingConfigs, "MPESA_DARAJA_CONSUMER_KEY environment variable")
	}
	if cfg.Mpesa.ConsumerSecret == "" {
		missingConfigs = append(missingConfigs, "MPESA_DARAJA_CONSUMER_SECRET environment variable")
	}
	if cfg.Mpesa.Shortcode == "" {
		missingConfigs = append(missingConfigs, "mpesa.shortcode (or MPESA_DARAJA_SHORTCODE environment variable)")
	}
	if cfg.Mpesa.Passkey == "" {
		missingConfigs = append(missingConfigs, "MPESA_DARAJA_PASSKEY environment variable")
	}
	if cfg.Mpesa.CallbackURL == "" {
		missingConfigs = append(missingConfigs, "mpesa.callbackUrl (or MPESA_DARAJA_CALLBACK_URL environment variable)")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Environment == config.Production && cfg.Callback.AllowDevelopment {
		return fmt.Errorf("callback.allowDevelopment must not be enabled in production")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// Production keeps signature verification on unless explicitly opted out;
	// the pipeline itself warns when the secret is absent.
	if cfg.Environment == config.Production && cfg.Mpesa.RequestTimeout < 5*time.Second {
		log.Printf("Warning: mpesa.requestTimeout is very low for production")
	}

	return nil
}
