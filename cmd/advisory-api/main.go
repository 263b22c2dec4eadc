package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ids-upch/advisory-api/internal/handler"
	"github.com/ids-upch/advisory-api/internal/middleware"
	"github.com/ids-upch/advisory-api/internal/models"
	"github.com/ids-upch/advisory-api/internal/repository"
	"github.com/ids-upch/advisory-api/internal/service"
	"github.com/ids-upch/advisory-api/pkg/cache"
	"github.com/ids-upch/advisory-api/pkg/config"
	"github.com/ids-upch/advisory-api/pkg/database"
	"github.com/ids-upch/advisory-api/pkg/logger"
	corsmiddleware "github.com/ids-upch/advisory-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ids-upch/advisory-api/pkg/middleware/requestid"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	var mirrorStore service.MirrorStore
	if cfg.Mirror.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, mirror disabled", "error", err)
		} else {
			mirrorRepo := repository.NewMirrorRepository(redisClient, logr)
			mirrorStore = mirrorRepo
			defer mirrorRepo.Close()
		}
	}
	mirror := service.NewMirrorService(mirrorStore, metrics, cfg.Mirror.TTL, logr, cfg.Mirror.Enabled && mirrorStore != nil)

	advisoryRepo := repository.NewAdvisoryRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)
	directoryRepo := repository.NewDirectoryRepository(cfg.Directory)

	directory := service.NewDirectoryService(directoryRepo, mirror, logr)
	availability := service.NewAvailabilityService(scheduleRepo, advisoryRepo, metrics, logr)
	advisories := service.NewAdvisoryService(advisoryRepo, studentRepo, directory, mirror, validate, logr)
	schedules := service.NewScheduleService(scheduleRepo, mirror, validate, logr)
	auth := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	exports := service.NewExportService(advisories, cfg.Exports.Enabled, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	directory.WarmStart(ctx)
	if err := directory.Refresh(ctx); err != nil {
		logr.Sugar().Warnw("initial directory refresh failed, continuing with mirror data", "error", err)
	}
	go directory.Run(ctx, cfg.Directory.RefreshInterval)

	authHandler := handler.NewAuthHandler(auth)
	advisoryHandler := handler.NewAdvisoryHandler(advisories)
	scheduleHandler := handler.NewScheduleHandler(schedules, availability)
	exportHandler := handler.NewExportHandler(exports)
	directoryHandler := handler.NewDirectoryHandler(directory)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/exchange", authHandler.Exchange)
	authGroup.GET("/me", middleware.JWT(auth), authHandler.Me)

	advisoriesGroup := api.Group("/advisories", middleware.JWT(auth))
	advisoriesGroup.GET("/student/:id", middleware.RBAC("SELF", string(models.RoleDirector)), advisoryHandler.ListByStudent)
	advisoriesGroup.GET("/professor/:id", middleware.RBAC("SELF", string(models.RoleDirector)), advisoryHandler.ListByProfessor)
	advisoriesGroup.GET("/history/director", middleware.RequireRoles(models.RoleDirector), advisoryHandler.History)
	advisoriesGroup.GET("/history/export", middleware.RequireRoles(models.RoleDirector), exportHandler.History)
	advisoriesGroup.POST("", middleware.RequireRoles(models.RoleStudent), advisoryHandler.Create)
	advisoriesGroup.POST("/manual", middleware.RequireRoles(models.RoleProfessor), advisoryHandler.RegisterCompleted)
	advisoriesGroup.PUT("/:id/status", middleware.RequireRoles(models.RoleStudent, models.RoleProfessor), advisoryHandler.UpdateStatus)

	schedulesGroup := api.Group("/schedules", middleware.JWT(auth))
	schedulesGroup.GET("/my-schedules", middleware.RequireRoles(models.RoleProfessor, models.RoleDirector), scheduleHandler.ListMine)
	schedulesGroup.POST("", middleware.RequireRoles(models.RoleProfessor), scheduleHandler.Create)
	schedulesGroup.PUT("/:id/availability", middleware.RequireRoles(models.RoleProfessor), scheduleHandler.SetAvailability)
	schedulesGroup.DELETE("/:id", middleware.RequireRoles(models.RoleProfessor), scheduleHandler.Delete)
	schedulesGroup.GET("/available/:professorId/:date", scheduleHandler.Available)

	api.GET("/professors", middleware.JWT(auth), directoryHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
