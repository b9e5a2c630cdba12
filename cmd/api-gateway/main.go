package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusops/faculty-loading-api/api/swagger"
	"github.com/campusops/faculty-loading-api/internal/handler"
	"github.com/campusops/faculty-loading-api/internal/middleware"
	"github.com/campusops/faculty-loading-api/internal/repository"
	"github.com/campusops/faculty-loading-api/internal/service"
	"github.com/campusops/faculty-loading-api/pkg/cache"
	"github.com/campusops/faculty-loading-api/pkg/config"
	"github.com/campusops/faculty-loading-api/pkg/database"
	"github.com/campusops/faculty-loading-api/pkg/jobs"
	"github.com/campusops/faculty-loading-api/pkg/logger"
	corsmiddleware "github.com/campusops/faculty-loading-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusops/faculty-loading-api/pkg/middleware/requestid"
)

// @title Faculty Loading API
// @version 1.0.0
// @description Schedule conflict detection and faculty recommendation service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	scheduleRepo := repository.NewScheduleRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	indexProvider := service.NewIndexProvider(scheduleRepo)
	conflictSvc := service.NewConflictService(scheduleRepo, indexProvider, cacheRepo, metricsSvc, cfg.Conflicts.CacheTTL, logr)

	warmQueue := jobs.NewQueue("conflict-warm", func(ctx context.Context, job jobs.Job) error {
		return conflictSvc.WarmCache(ctx)
	}, jobs.QueueConfig{
		Workers:    cfg.Conflicts.WarmWorkers,
		MaxRetries: cfg.Conflicts.WarmRetries,
		RetryDelay: cfg.Conflicts.WarmRetryDelay,
		Logger:     logr,
	})

	scheduleSvc := service.NewScheduleService(scheduleRepo, cacheRepo, indexProvider, metricsSvc, warmQueue, cfg.Conflicts.WarmOnMutation, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, cacheRepo, validate, logr)
	recommendSvc := service.NewRecommendationService(scheduleRepo, indexProvider, facultyRepo, cacheRepo, metricsSvc,
		cfg.Recommender.CacheTTL, cfg.Recommender.DefaultTop, cfg.Recommender.MaxTop, logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	conflictHandler := handler.NewConflictHandler(conflictSvc)
	recommendHandler := handler.NewRecommendationHandler(recommendSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/schedules", scheduleHandler.List)
		api.POST("/schedules", scheduleHandler.Create)
		api.POST("/schedules/bulk", scheduleHandler.BulkCreate)
		api.GET("/schedules/:id", scheduleHandler.Get)
		api.PUT("/schedules/:id", scheduleHandler.Update)
		api.DELETE("/schedules/:id", scheduleHandler.Delete)
		api.GET("/schedules/:id/conflicts", conflictHandler.Check)
		api.POST("/schedules/:id/recommendations", recommendHandler.Recommend)
		api.GET("/schedules/:id/eligibility/:facultyId", recommendHandler.Eligibility)

		api.GET("/faculty", facultyHandler.List)
		api.POST("/faculty", facultyHandler.Create)
		api.GET("/faculty/:id", facultyHandler.Get)
		api.PUT("/faculty/:id", facultyHandler.Update)
		api.DELETE("/faculty/:id", facultyHandler.Delete)

		api.GET("/conflicts", conflictHandler.Report)
		api.GET("/metrics/snapshot", metricsHandler.Snapshot)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	warmQueue.Start(ctx)
	defer warmQueue.Stop()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("cache close failed", "error", err)
	}
}
