package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devking-app/devking-api/internal/config"
	"github.com/devking-app/devking-api/internal/database"
	"github.com/devking-app/devking-api/internal/handler"
	"github.com/devking-app/devking-api/internal/middleware"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
	"github.com/devking-app/devking-api/internal/router"
	"github.com/devking-app/devking-api/internal/service"
	cloud "github.com/devking-app/devking-api/pkg/cloudinary"
	"github.com/devking-app/devking-api/pkg/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Tutorial{},
		&models.Lesson{},
		&models.Resource{},
		&models.Faq{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.Score{},
		&models.Enrollment{},
		&models.SavedTutorial{},
		&models.Completion{},
		&models.Review{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	gateway, err := payment.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransProduction, logger)
	if err != nil {
		log.Fatalf("failed to create payment gateway: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	tutorialRepo := repository.NewTutorialRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	faqRepo := repository.NewFaqRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	savedRepo := repository.NewSavedTutorialRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	tokens := service.TokenOptions{
		AccessSecret:    cfg.JWTSecret,
		RefreshSecret:   cfg.JWTRefreshSecret,
		AccessLifetime:  cfg.AccessTokenLifetime,
		RefreshLifetime: cfg.RefreshTokenLifetime,
	}

	authService := service.NewAuthService(userRepo, adminRepo, tokens, validate, logger)
	courseService := service.NewCourseService(tutorialRepo, lessonRepo, faqRepo, quizRepo, enrollmentRepo, reviewRepo, validate, logger)
	studentService := service.NewStudentService(service.StudentServiceDeps{
		Tutorials:   tutorialRepo,
		Lessons:     lessonRepo,
		Resources:   resourceRepo,
		Enrollments: enrollmentRepo,
		Saved:       savedRepo,
		Completions: completionRepo,
		Reviews:     reviewRepo,
		Quizzes:     quizRepo,
		Scores:      scoreRepo,
		Users:       userRepo,
		Gateway:     gateway,
		FrontendURL: cfg.FrontendBaseURL,
	}, validate, logger)
	catalogService := service.NewCatalogService(tutorialRepo, userRepo, enrollmentRepo, reviewRepo, analyticsRepo, logger)
	adminService := service.NewAdminService(userRepo, adminRepo, tutorialRepo, lessonRepo, validate, logger)
	adminDashboardService := service.NewAdminDashboardService(analyticsRepo, tutorialRepo, redisClient, cfg.DashboardCacheTTL, logger)
	teacherDashboardService := service.NewTeacherDashboardService(analyticsRepo, tutorialRepo, lessonRepo, enrollmentRepo, reviewRepo, userRepo, logger)
	uploadService := service.NewUploadService(uploader, 25, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)
	adminHandler := handler.NewAdminHandler(adminService, courseService, logger)
	adminDashboardHandler := handler.NewAdminDashboardHandler(adminDashboardService, logger)
	teacherDashboardHandler := handler.NewTeacherDashboardHandler(teacherDashboardService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:             authHandler,
		CatalogHandler:          catalogHandler,
		StudentHandler:          studentHandler,
		CourseHandler:           courseHandler,
		AdminHandler:            adminHandler,
		AdminDashboardHandler:   adminDashboardHandler,
		TeacherDashboardHandler: teacherDashboardHandler,
		UploadHandler:           uploadHandler,
		JWTMiddleware:           middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
