package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	donationUseCase "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/usecase/donation"

	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/api/handler"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/api/routes"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/database"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/logger"
	gatewayAdapter "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/payment"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/repository"
	timeProvider "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/time"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	appLogger.SetLevel(logger.ParseLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
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
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	conn, err := database.NewConnection(dbConfig, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Migrate(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	donationRepo := repository.NewDonationRepository(conn.DB(), appLogger)

	gateway := gatewayAdapter.NewStripeClient(gatewayAdapter.Config{
		APIKey:  cfg.Payment.APIKey,
		BaseURL: cfg.Payment.BaseURL,
		Timeout: cfg.Payment.Timeout,
	}, appLogger)

	donationService := donationUseCase.NewService(donationRepo, gateway, tp, appLogger, donationUseCase.Config{
		PublicBaseURL:  cfg.Payment.PublicBaseURL,
		GatewayTimeout: cfg.Payment.Timeout,
	})

	donationHandler := handler.NewDonationHandler(donationService, appLogger)
	reconciliationHandler := handler.NewReconciliationHandler(donationService, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, donationHandler, reconciliationHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

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

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or REACH_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or REACH_DB_USERNAME environment variable)")
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or REACH_DB_NAME environment variable)")
	}
	if cfg.Payment.APIKey == "" {
		missingConfigs = append(missingConfigs, "payment.apiKey (or REACH_PAYMENT_API_KEY environment variable)")
	}

	if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	return nil
}
