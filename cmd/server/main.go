package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/jkruzel/trainings-api/internal/handler"
	"github.com/jkruzel/trainings-api/internal/middleware"
	"github.com/jkruzel/trainings-api/internal/repository"
	"github.com/jkruzel/trainings-api/internal/service"
	"github.com/jkruzel/trainings-api/pkg/config"
	"github.com/jkruzel/trainings-api/pkg/database"
	"github.com/jkruzel/trainings-api/pkg/export"
	"github.com/jkruzel/trainings-api/pkg/logger"
	corsmiddleware "github.com/jkruzel/trainings-api/pkg/middleware/cors"
	reqidmiddleware "github.com/jkruzel/trainings-api/pkg/middleware/requestid"
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	validate := service.NewValidator()

	employeeRepo := repository.NewEmployeeRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	userRepo := repository.NewUserRepository(db)

	pdfExporter := export.NewPDFExporter()
	chartRenderer := export.NewChartRenderer()

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	employeeService := service.NewEmployeeService(employeeRepo, courseRepo, validate, logr)
	courseService := service.NewCourseService(courseRepo, employeeRepo, validate, logr)
	participantService := service.NewParticipantService(participantRepo, courseRepo, validate, logr)
	presenceService := service.NewPresenceService(presenceRepo, courseRepo, participantRepo, validate, logr)
	metricsService := service.NewMetricsService()
	reportService := service.NewReportService(employeeRepo, courseRepo, participantRepo, presenceRepo, pdfExporter, chartRenderer, metricsService, logr)

	authHandler := handler.NewAuthHandler(authService)
	employeeHandler := handler.NewEmployeeHandler(employeeService, reportService)
	courseHandler := handler.NewCourseHandler(courseService, presenceService, reportService)
	participantHandler := handler.NewParticipantHandler(participantService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))
	{
		employees := protected.Group("/employees")
		{
			employees.GET("", employeeHandler.List)
			employees.POST("", employeeHandler.Create)
			employees.GET("/chart", employeeHandler.Chart)
			employees.GET("/:id", employeeHandler.Get)
			employees.PUT("/:id", employeeHandler.Update)
			employees.DELETE("/:id", employeeHandler.Delete)
			employees.GET("/:id/courses", employeeHandler.Courses)
			employees.GET("/:id/courses/pdf", employeeHandler.CoursesPDF)
		}

		courses := protected.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.POST("", courseHandler.Create)
			courses.GET("/today", courseHandler.Today)
			courses.GET("/past/pdf", courseHandler.PastPDF)
			courses.GET("/:id", courseHandler.Get)
			courses.PUT("/:id", courseHandler.Update)
			courses.GET("/:id/pdf", courseHandler.PDF)
			courses.GET("/:id/participants", courseHandler.Participants)
			courses.GET("/:id/presence", courseHandler.GetPresence)
			courses.PUT("/:id/presence", courseHandler.PutPresence)
		}

		participants := protected.Group("/participants")
		{
			participants.GET("", participantHandler.List)
			participants.POST("", participantHandler.Create)
		}

		protected.POST("/enrollments", participantHandler.Assign)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
