package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edulink-mx/classroom-api/api/swagger"
	"github.com/edulink-mx/classroom-api/internal/handler"
	"github.com/edulink-mx/classroom-api/internal/middleware"
	"github.com/edulink-mx/classroom-api/internal/repository"
	"github.com/edulink-mx/classroom-api/internal/service"
	"github.com/edulink-mx/classroom-api/pkg/cache"
	"github.com/edulink-mx/classroom-api/pkg/config"
	"github.com/edulink-mx/classroom-api/pkg/database"
	"github.com/edulink-mx/classroom-api/pkg/logger"
	corsmiddleware "github.com/edulink-mx/classroom-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edulink-mx/classroom-api/pkg/middleware/requestid"
	"github.com/edulink-mx/classroom-api/pkg/storage"
)

// @title Classroom API
// @version 1.0.0
// @description Submission, grading and attendance backend with QR identity resolution
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Uploads.QRCacheOn {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, qr cache disabled", "error", err)
			redisClient = nil
		}
	}

	blobs, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	submissionSvc := service.NewSubmissionService(submissionRepo, assignmentRepo, blobs, validate, logr)
	gradingSvc := service.NewGradingService(submissionRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, groupRepo, validate, logr)
	qrSvc := service.NewQRService(userRepo, groupRepo, submissionRepo, attendanceSvc, gradingSvc, redisClient, cfg.Uploads.QRCacheTTL, validate, logr)
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc)
	submissionHandler := handler.NewSubmissionHandler(submissionSvc, gradingSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	qrHandler := handler.NewQRHandler(qrSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	entregas := protected.Group("/entregas")
	entregas.POST("", submissionHandler.Create)
	entregas.GET("/mis-entregas", submissionHandler.MySubmissions)
	entregas.GET("/sin-calificar", submissionHandler.Ungraded)
	entregas.GET("/calificadas", submissionHandler.GradedByMe)
	entregas.GET("/tarea/:tareaId", submissionHandler.ListByAssignment)
	entregas.GET("/tarea/:tareaId/mi-entrega", submissionHandler.MySubmissionForAssignment)
	entregas.GET("/:id", submissionHandler.Get)
	entregas.GET("/:id/archivo", submissionHandler.Download)
	entregas.PUT("/:id/calificar", submissionHandler.Grade)
	entregas.DELETE("/:id", submissionHandler.Delete)

	asistencias := protected.Group("/asistencias")
	asistencias.POST("", attendanceHandler.Create)
	asistencias.GET("/grupo/:grupoId", attendanceHandler.ByGroup)
	asistencias.GET("/grupo/:grupoId/exportar", attendanceHandler.Export)
	asistencias.GET("/usuario/:usuarioId", attendanceHandler.ByStudent)
	asistencias.GET("/:id", attendanceHandler.Get)

	qr := protected.Group("/qr")
	qr.POST("/decodificar", qrHandler.Decode)
	qr.POST("/asistencia", qrHandler.Attendance)
	qr.POST("/calificar", qrHandler.Grade)
	qr.POST("/agregar-grupo", qrHandler.AddToGroup)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
