package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/dept-routine-api/api/swagger"
	"github.com/noah-isme/dept-routine-api/internal/handler"
	internalmiddleware "github.com/noah-isme/dept-routine-api/internal/middleware"
	"github.com/noah-isme/dept-routine-api/internal/models"
	"github.com/noah-isme/dept-routine-api/internal/repository"
	"github.com/noah-isme/dept-routine-api/internal/service"
	"github.com/noah-isme/dept-routine-api/pkg/cache"
	"github.com/noah-isme/dept-routine-api/pkg/config"
	"github.com/noah-isme/dept-routine-api/pkg/database"
	"github.com/noah-isme/dept-routine-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/dept-routine-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/dept-routine-api/pkg/middleware/requestid"
)

// @title Department Routine API
// @version 1.0.0
// @description Generates, adjusts and stores weekly class routines for university departments.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Redis.CacheTTL, logr, cacheRepo.Enabled())

	var previewStore service.RoutinePreviewStore
	if cacheRepo.Enabled() {
		previewStore = service.NewRedisPreviewStore(cacheRepo, cfg.Routine.PreviewTTL)
	} else {
		previewStore = service.NewMemoryPreviewStore(cfg.Routine.PreviewTTL)
	}

	calendar := service.RoutineCalendarFromConfig(cfg.Routine)
	validate := validator.New()

	departmentRepo := repository.NewDepartmentRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	routineRepo := repository.NewRoutineRepository(db)

	authSvc := service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	routineSvc := service.NewRoutineService(departmentRepo, semesterRepo, courseRepo, roomRepo, routineRepo, db,
		previewStore, cacheSvc, metricsSvc, validate, logr,
		service.RoutineServiceConfig{Calendar: calendar, PreviewTTL: cfg.Routine.PreviewTTL})
	scheduleSvc := service.NewScheduleService(routineRepo, courseRepo, departmentRepo, cacheSvc, logr,
		service.ScheduleServiceConfig{CacheTTL: cfg.Redis.CacheTTL})
	exportSvc := service.NewExportService(scheduleSvc, courseRepo, roomRepo, calendar, logr, nil, nil, nil)

	checks := map[string]handler.Pinger{"database": db}
	if cacheRepo.Enabled() {
		checks["redis"] = handler.PingFunc(cacheRepo.Ping)
	}

	routineHandler := handler.NewRoutineHandler(routineSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(authSvc), internalmiddleware.WithResponseMeta())

	admins := internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepartmentAdmin)
	routine := api.Group("/routine")
	routine.POST("/preview", admins, routineHandler.Preview)
	routine.GET("/preview/:id", admins, routineHandler.GetPreview)
	routine.POST("/preview/:id/move", admins, routineHandler.Move)
	routine.POST("/preview/:id/check", admins, routineHandler.CheckMove)
	routine.DELETE("/preview/:id", admins, routineHandler.DiscardPreview)
	routine.POST("/generate", admins, routineHandler.Save)
	routine.GET("/final", scheduleHandler.Final)
	routine.GET("/export", exportHandler.Routine)

	weekly := api.Group("/weekly-schedule")
	weekly.GET("/room/:id", scheduleHandler.ByRoom)
	weekly.GET("/semester/:id", scheduleHandler.BySemester)
	weekly.GET("/teacher/:id", scheduleHandler.ByTeacher)
	weekly.GET("/course/:id", scheduleHandler.ByCourse)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "redis", cacheRepo.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
