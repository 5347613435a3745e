package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campus-timetable-api/api/swagger"
	"github.com/noah-isme/campus-timetable-api/internal/engine"
	"github.com/noah-isme/campus-timetable-api/internal/handler"
	"github.com/noah-isme/campus-timetable-api/internal/middleware"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/internal/repository"
	"github.com/noah-isme/campus-timetable-api/internal/service"
	"github.com/noah-isme/campus-timetable-api/pkg/cache"
	"github.com/noah-isme/campus-timetable-api/pkg/config"
	"github.com/noah-isme/campus-timetable-api/pkg/database"
	"github.com/noah-isme/campus-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-timetable-api/pkg/middleware/requestid"
)

// @title Campus Timetable API
// @version 1.0.0
// @description Weekly timetable generation and roster management
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

	teacherRepo := repository.NewTeacherRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	electiveRepo := repository.NewElectiveRepository(db)
	dependencyRepo := repository.NewDependencyRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, logr.Named("auth"), service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "campus-timetable-api",
	})

	teacherSvc := service.NewTeacherService(teacherRepo, logr.Named("teachers"))
	classroomSvc := service.NewClassroomService(classroomRepo, logr.Named("classrooms"))

	timetableSvc := service.NewTimetableService(
		teacherRepo, classroomRepo, catalogRepo, electiveRepo, dependencyRepo, timetableRepo,
		redisClient, metricsSvc, logr.Named("timetables"),
		service.TimetableConfig{
			DefaultCourse:   cfg.Generator.DefaultCourse,
			DefaultSemester: cfg.Generator.DefaultSemester,
			CacheTTL:        cfg.Generator.CacheTTL,
			Engine: engine.Config{
				RestDay:              parseWeekday(cfg.Engine.RestDay),
				LabRetryBudget:       cfg.Engine.LabRetryBudget,
				WeeklyCap:            cfg.Engine.WeeklyCap,
				MorningDensityTarget: cfg.Engine.MorningDensityTarget,
				WeeklyFillCeiling:    cfg.Engine.WeeklyFillCeiling,
				RegularSections:      cfg.Engine.RegularSections,
				RegularSectionSize:   cfg.Engine.RegularSectionSize,
				SmallSectionSize:     cfg.Engine.SmallSectionSize,
			},
		},
	)

	reportSvc := service.NewReportService(timetableSvc, classroomRepo, logr.Named("reports"))
	exportSvc := service.NewExportService(timetableSvc, cfg.Exports.StorageDir, logr.Named("exports"))

	var regenSvc *service.RegenerationService
	if cfg.Generator.AutoRegenerate {
		notifySvc := service.NewNotifyService(redisClient)
		regenSvc = service.NewRegenerationService(timetableSvc, notifySvc, logr.Named("regeneration"), service.RegenerationConfig{
			Course:   cfg.Generator.DefaultCourse,
			Semester: cfg.Generator.DefaultSemester,
			At:       cfg.Generator.RegenerateAt,
		})
		regenSvc.Start(context.Background())
		defer regenSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	catalogHandler := handler.NewCatalogHandler(catalogRepo)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, exportSvc, regenSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(strings.TrimSuffix(cfg.APIPrefix, "/"))
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleScheduler)
	admin := middleware.RequireRoles(models.RoleAdmin)

	authed.POST("/users", admin, authHandler.CreateUser)

	teachers := authed.Group("/teachers")
	{
		teachers.GET("", teacherHandler.List)
		teachers.GET("/:id", teacherHandler.Get)
		teachers.POST("", admin, teacherHandler.Create)
		teachers.PUT("/:id/availability", staff, teacherHandler.SetAvailability)
		teachers.PUT("/:id/lecture-limit", staff, teacherHandler.SetLectureLimit)
		teachers.PUT("/:id/subject-sections", staff, teacherHandler.SetSubjectSections)
		teachers.PUT("/:id/preferences", staff, teacherHandler.SetPreferences)
	}

	classrooms := authed.Group("/classrooms")
	{
		classrooms.GET("", classroomHandler.List)
		classrooms.GET("/:id", classroomHandler.Get)
		classrooms.POST("", admin, classroomHandler.Create)
		classrooms.PUT("/:id", staff, classroomHandler.Update)
		classrooms.DELETE("/:id", admin, classroomHandler.Deactivate)
	}

	catalog := authed.Group("/catalog")
	{
		catalog.GET("/courses", catalogHandler.Courses)
		catalog.GET("/courses/:course/sections", catalogHandler.Sections)
		catalog.GET("/courses/:course/subjects", catalogHandler.Subjects)
	}

	timetables := authed.Group("/timetables")
	{
		timetables.GET("", timetableHandler.GetByDate)
		timetables.GET("/latest", timetableHandler.Latest)
		timetables.GET("/export", timetableHandler.Export)
		timetables.POST("/generate", staff, timetableHandler.Generate)
		timetables.POST("/regenerate", staff, timetableHandler.Regenerate)
	}

	reports := authed.Group("/reports")
	{
		reports.GET("/room-utilization", reportHandler.RoomUtilization)
		reports.GET("/room-conflicts", reportHandler.RoomConflicts)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func parseWeekday(raw string) time.Weekday {
	switch strings.ToLower(raw) {
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}
