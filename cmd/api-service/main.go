package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/minhngo-dev/movie-catalog-be/internal/api/handler"
	"github.com/minhngo-dev/movie-catalog-be/internal/api/router"
	"github.com/minhngo-dev/movie-catalog-be/internal/catalog"
	"github.com/minhngo-dev/movie-catalog-be/internal/config"
	"github.com/minhngo-dev/movie-catalog-be/internal/events"
	"github.com/minhngo-dev/movie-catalog-be/internal/jobs"
	"github.com/minhngo-dev/movie-catalog-be/internal/tasks"
	"github.com/minhngo-dev/movie-catalog-be/internal/validation"
	"github.com/minhngo-dev/movie-catalog-be/shared/logger"
	"github.com/minhngo-dev/movie-catalog-be/shared/postgresql"
	"github.com/minhngo-dev/movie-catalog-be/shared/rabbitmq"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger := initLogger(&cfg.Logging)

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// Initialize PostgreSQL client
	dbClient, err := initPostgreSQL(&cfg.Database, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()

	appLogger.Info("Database connection established")

	// Job lifecycle events go to RabbitMQ when the broker is configured,
	// otherwise jobs run with a no-op notifier.
	var notifier jobs.Notifier = jobs.NopNotifier{}
	var rabbitClient *rabbitmq.Client
	if cfg.RabbitMQ.Enabled {
		rabbitClient, err = initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		defer rabbitClient.Close()

		notifier = events.NewPublisher(rabbitClient, appLogger.Logger)
		appLogger.Info("RabbitMQ connection established")
	}

	// Job manager with retention sweeper
	jobManager := jobs.NewManager(&jobs.Config{
		Logger:          appLogger.Logger,
		Notifier:        notifier,
		RetentionWindow: cfg.Jobs.RetentionWindow,
		SweepInterval:   cfg.Jobs.SweepInterval,
	})
	jobManager.StartSweeper()
	defer jobManager.Stop()

	// Poster validation pipeline
	store := catalog.NewStorage(dbClient, appLogger.Logger)

	validator := validation.NewValidator(&validation.ValidatorConfig{
		Timeout:           cfg.Validation.ProbeTimeout,
		ContentTypePrefix: cfg.Validation.ContentTypePrefix,
		MaxFileSizeBytes:  cfg.Validation.MaxFileSizeBytes,
		UserAgent:         cfg.Validation.UserAgent,
	}, appLogger.Logger)

	orchestrator := validation.NewOrchestrator(&validation.OrchestratorConfig{
		Cursor:             store,
		Sink:               store,
		Prober:             validator,
		Jobs:               jobManager,
		Logger:             appLogger.Logger,
		DefaultBatchSize:   cfg.Validation.DefaultBatchSize,
		DefaultConcurrency: cfg.Validation.DefaultConcurrency,
		InterBatchDelay:    cfg.Validation.InterBatchDelay,
	})

	// Supervisor owns every background validation run
	supervisor := tasks.NewSupervisor(context.Background(), appLogger.Logger)

	r := initRouter(cfg, appLogger.Logger, store, jobManager, orchestrator, supervisor, dbClient)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("API service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	// In-flight validation runs get the same grace period as the server
	if err := supervisor.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
		appLogger.Warn("Background tasks did not stop in time",
			slog.Any("error", err),
		)
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) *logger.Logger {
	return logger.New(&logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableCaller: cfg.EnableCaller,
	})
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}

// initRabbitMQ initializes the RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	rabbitConfig := &rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
	}

	return rabbitmq.NewClient(rabbitConfig, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(
	cfg *config.Config,
	logger *slog.Logger,
	store *catalog.Storage,
	jobManager *jobs.Manager,
	orchestrator *validation.Orchestrator,
	supervisor *tasks.Supervisor,
	dbClient *postgresql.Client,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	return router.SetupRouter(&handler.Dependencies{
		Logger:       logger,
		Catalog:      store,
		Comments:     store,
		Jobs:         jobManager,
		Orchestrator: orchestrator,
		Supervisor:   supervisor,
		Validation:   cfg.Validation,
		Health:       dbClient,
	})
}
