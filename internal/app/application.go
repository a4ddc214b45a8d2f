package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/config"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/handlers"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/middleware"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/repository"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/service"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/cache"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/validator"
)

type Application struct {
	cfg *config.Config

	db    *gorm.DB
	cache *cache.Cache

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	User   repository.UserRepository
	Course repository.CourseRepository
	Quiz   repository.QuizRepository
}

type serviceContainer struct {
	Auth          *service.AuthService
	Course        *service.CourseService
	Quiz          *service.QuizService
	Transcription *service.TranscriptionService
	Profile       *service.ProfileService
	Upload        *service.UploadService
}

type handlerContainer struct {
	Auth          *handlers.AuthHandler
	Course        *handlers.CourseHandler
	Quiz          *handlers.QuizHandler
	Transcription *handlers.TranscriptionHandler
	Profile       *handlers.ProfileHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	validator.Init()

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	if err := app.createIndexes(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.initRepositories()

	if err := app.initServices(); err != nil {
		return nil, err
	}

	app.initHandlers()
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Section{},
		&models.Content{},
		&models.Quiz{},
		&models.Answer{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Creating database indexes", nil)

	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_courses_status ON courses(status) WHERE status = 'published'",
		"CREATE INDEX IF NOT EXISTS idx_courses_created_by ON courses(created_by_id)",
		"CREATE INDEX IF NOT EXISTS idx_sections_course_order ON sections(course_id, \"order\" ASC)",
		"CREATE INDEX IF NOT EXISTS idx_contents_section_order ON contents(section_id, \"order\" ASC)",
		"CREATE INDEX IF NOT EXISTS idx_quizzes_section_order ON quizzes(section_id, \"order\" ASC)",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() error {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache && a.cfg.EnableRedis)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	a.cache = c
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User:   repository.NewUserRepository(a.db),
		Course: repository.NewCourseRepository(a.db),
		Quiz:   repository.NewQuizRepository(a.db),
	}
}

func (a *Application) initServices() error {
	var provider service.TranscriptionProvider
	if a.cfg.EnableTranscription {
		whisper, err := service.NewWhisperProvider(a.cfg.OpenAIAPIKey, service.WhisperOptions{
			Model:    a.cfg.TranscriptionModel,
			Language: a.cfg.TranscriptionLang,
			Endpoint: a.cfg.TranscriptionBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize transcription provider: %w", err)
		}
		provider = whisper
	}

	upload := service.NewUploadService(a.cfg.UploadDir, a.cfg.MaxUploadSize)

	a.services = serviceContainer{
		Auth:          service.NewAuthService(a.repositories.User, a.cfg.JWTSecret),
		Course:        service.NewCourseService(a.repositories.Course, a.cache),
		Quiz:          service.NewQuizService(a.repositories.Quiz),
		Transcription: service.NewTranscriptionService(provider, a.cache),
		Profile:       service.NewProfileService(a.repositories.User, upload),
		Upload:        upload,
	}
	return nil
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:          handlers.NewAuthHandler(a.services.Auth),
		Course:        handlers.NewCourseHandler(a.services.Course),
		Quiz:          handlers.NewQuizHandler(a.services.Quiz),
		Transcription: handlers.NewTranscriptionHandler(a.services.Transcription),
		Profile:       handlers.NewProfileHandler(a.services.Profile),
	}
}

func (a *Application) initRouter() {
	if a.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CSRFMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.CSRFHeaderName},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.Static("/static", "./static")
	router.Static("/uploads", a.cfg.UploadDir)

	// The editor posts to these paths directly.
	courses := router.Group("/courses")
	courses.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
	{
		courses.POST("/submit-quiz-answer/", a.handlers.Quiz.SubmitAnswer)
		courses.POST("/transcribe-video/",
			middleware.ContentManagerMiddleware(),
			middleware.TranscribeRateLimitMiddleware(a.cfg),
			a.handlers.Transcription.TranscribeVideo)
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		{
			public.POST("/register", a.handlers.Auth.Register)
			public.POST("/login", a.handlers.Auth.Login)
			public.POST("/logout", a.handlers.Auth.Logout)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		{
			protected.GET("/me", a.handlers.Auth.Me)
			protected.PUT("/profile", a.handlers.Profile.UpdateProfile)
			protected.POST("/profile/picture", middleware.UploadRateLimitMiddleware(a.cfg), a.handlers.Profile.UploadProfilePicture)
			protected.GET("/profile/email-verified", a.handlers.Profile.EmailVerificationStatus)
		}

		authoring := v1.Group("/courses")
		authoring.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		authoring.Use(middleware.ContentManagerMiddleware())
		{
			authoring.POST("", a.handlers.Course.CreateCourse)
			authoring.POST("/:slug", a.handlers.Course.UpdateCourse)
			authoring.GET("/:slug/builder", a.handlers.Course.GetBuilderPayload)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"path":  c.Request.URL.Path,
		})
	})

	a.router = router
}
