package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pontocerto/timeclock/internal"
	"github.com/pontocerto/timeclock/internal/accountant"
	accountantPostgres "github.com/pontocerto/timeclock/internal/accountant/postgres"
	"github.com/pontocerto/timeclock/internal/client"
	clientPostgres "github.com/pontocerto/timeclock/internal/client/postgres"
	"github.com/pontocerto/timeclock/internal/dashboard"
	"github.com/pontocerto/timeclock/internal/employee"
	employeePostgres "github.com/pontocerto/timeclock/internal/employee/postgres"
	"github.com/pontocerto/timeclock/internal/realtime"
	"github.com/pontocerto/timeclock/internal/timerecord"
	timerecordPostgres "github.com/pontocerto/timeclock/internal/timerecord/postgres"
	"github.com/pontocerto/timeclock/internal/transport/rest"
	"github.com/pontocerto/timeclock/jobs"
	"github.com/pontocerto/timeclock/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests and live streams`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *chi.Mux
	Relay  *realtime.Relay
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	go func() {
		if err := deps.Relay.Run(relayCtx); err != nil && err != context.Canceled {
			deps.Logger.Error("change relay stopped unexpectedly", "error", err)
		}
	}()

	addr := deps.Config.Server.Addr()
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		// WriteTimeout stays unset; SSE streams outlive any fixed deadline.
		IdleTimeout: deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		stopRelay()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if sqlDB, err := deps.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				deps.Logger.Error("Database close error", "error", err)
			}
		}
		if err := deps.Redis.Close(); err != nil {
			deps.Logger.Error("Redis close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	notifier := jobs.NewEnqueuer(asynqClient, log)

	publisher := realtime.NewPublisher(rdb, log)
	hub := realtime.NewHub(log)
	relay := realtime.NewRelay(rdb, hub, log)

	accountantRepo := accountantPostgres.NewRepository(db)
	clientRepo := clientPostgres.NewRepository(db)
	employeeRepo := employeePostgres.NewRepository(db)
	clientDirectory := employeePostgres.NewDirectory(db)
	timeRecordRepo := timerecordPostgres.NewRepository(db)

	accountantService := accountant.NewService(accountantRepo, notifier, publisher, log)
	clientService := client.NewService(clientRepo, notifier, publisher, log)
	employeeService := employee.NewService(employeeRepo, clientDirectory, notifier, publisher, log)
	timeRecordService := timerecord.NewService(timeRecordRepo, publisher, log)
	dashboardService := dashboard.NewService(accountantRepo, clientRepo, employeeRepo, timeRecordRepo, log)

	streamHandler := realtime.NewStreamHandler(hub)
	streamHandler.Register(accountant.Collection, realtime.AccountantSnapshot(accountantRepo))
	streamHandler.Register(client.Collection, realtime.ClientSnapshot(clientRepo))
	streamHandler.Register(employee.Collection, realtime.EmployeeSnapshot(employeeRepo))
	streamHandler.Register(timerecord.Collection, realtime.TimeRecordSnapshot(timeRecordRepo))

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db, rdb, rest.Handlers{
		Accountant: accountant.NewHandler(accountantService),
		Client:     client.NewHandler(clientService),
		Employee:   employee.NewHandler(employeeService),
		TimeRecord: timerecord.NewHandler(timeRecordService),
		Dashboard:  dashboard.NewHandler(dashboardService),
		Stream:     streamHandler,
	}, []byte(config.Security.SessionSecret), config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config: config,
		DB:     db,
		Redis:  rdb,
		Router: router,
		Relay:  relay,
		Logger: log,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access db pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
