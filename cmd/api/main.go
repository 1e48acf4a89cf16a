package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/jobops-service/internal/api/http"
	"github.com/spec-kit/jobops-service/internal/api/http/handlers"
	"github.com/spec-kit/jobops-service/internal/auth"
	"github.com/spec-kit/jobops-service/internal/config"
	"github.com/spec-kit/jobops-service/internal/events"
	"github.com/spec-kit/jobops-service/internal/observability"
	"github.com/spec-kit/jobops-service/internal/persistence"
	"github.com/spec-kit/jobops-service/internal/repository"
	"github.com/spec-kit/jobops-service/internal/service"
	"github.com/spec-kit/jobops-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	taskRepo := repository.NewJobTaskRepository(pool)
	equipmentRepo := repository.NewEquipmentRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, dispatcher, cfg.Auth.BcryptCost)
	jobService := service.NewJobService(service.JobDependencies{
		JobRepo:    jobRepo,
		TaskRepo:   taskRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:      taskRepo,
		JobRepo:       jobRepo,
		EquipmentRepo: equipmentRepo,
		Dispatcher:    dispatcher,
	})
	equipmentService := service.NewEquipmentService(equipmentRepo, dispatcher)
	dashboardService := service.NewDashboardService(jobRepo, taskRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo, redis.Client, cfg.Analytics.CacheTTL(), logger)
	auditService := service.NewAuditService(auditRepo, dispatcher, logger)
	maintenanceService := service.NewMaintenanceService(jobRepo, cfg.Maintenance, logger)

	jobService.RegisterEventHandlers()
	auditService.RegisterHandlers()

	maintenanceWorker := worker.NewMaintenanceWorker(maintenanceService, cfg.Maintenance, logger)
	maintenanceWorker.Start(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Jobs:           handlers.NewJobsHandler(jobService),
		Tasks:          handlers.NewTasksHandler(taskService, jobService),
		Equipment:      handlers.NewEquipmentHandler(equipmentService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
