// Package main provides the main entry point for the Pulse CRM campaign service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pulsecrm/pulse/app/dispatch"
	"github.com/pulsecrm/pulse/app/handlers"
	"github.com/pulsecrm/pulse/app/middleware"
	"github.com/pulsecrm/pulse/app/router"
	"github.com/pulsecrm/pulse/app/services"
	businessflow "github.com/pulsecrm/pulse/business_flow"
	"github.com/pulsecrm/pulse/config"
	"github.com/pulsecrm/pulse/repository"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Pulse CRM application...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	// Let in-flight dispatches and vendor callbacks finish after the
	// listener stops accepting new work.
	for _, fn := range app.stopFuncs {
		fn()
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
	}

	// Repositories
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	logRepo := repository.NewCommunicationLogRepository(db)

	// Services
	tokenService, err := services.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.TokenTTL, cfg.JWT.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	vendorClient := services.NewHTTPVendorClient(cfg.Vendor)
	simulatedVendor := services.NewSimulatedVendor(cfg.Vendor, log.Default())
	stopFuncs = append(stopFuncs, simulatedVendor.Drain)

	textGen := services.NewOpenAITextGen(cfg.TextGen)

	pool := dispatch.NewPool(cfg.Dispatch.PoolSize, log.Default())
	stopFuncs = append(stopFuncs, pool.Wait)

	// Flows
	campaignFlow := businessflow.NewCampaignFlow(campaignRepo, customerRepo, logRepo, vendorClient, pool, log.Default())
	receiptFlow := businessflow.NewReceiptFlow(logRepo, log.Default())
	statsFlow := businessflow.NewStatsFlow(campaignRepo, customerRepo, orderRepo, logRepo)
	customerFlow := businessflow.NewCustomerFlow(customerRepo, log.Default())
	orderFlow := businessflow.NewOrderFlow(orderRepo, customerRepo, db)
	aiFlow := businessflow.NewAIFlow(textGen, rc, &cfg.Cache, log.Default())

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Handlers
	appRouter := router.NewFiberRouter(router.Handlers{
		Campaign: handlers.NewCampaignHandler(campaignFlow, statsFlow),
		Customer: handlers.NewCustomerHandler(customerFlow),
		Order:    handlers.NewOrderHandler(orderFlow),
		Vendor:   handlers.NewVendorHandler(simulatedVendor, receiptFlow),
		Stats:    handlers.NewStatsHandler(statsFlow),
		AI:       handlers.NewAIHandler(aiFlow),
		Auth:     handlers.NewAuthHandler(tokenService),
	}, authMiddleware, cfg)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
