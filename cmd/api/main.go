package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/epic-quiz/internal/config"
	"github.com/yourusername/epic-quiz/internal/handler"
	"github.com/yourusername/epic-quiz/internal/middleware"
	pgRepo "github.com/yourusername/epic-quiz/internal/repository/postgres"
	redisRepo "github.com/yourusername/epic-quiz/internal/repository/redis"
	"github.com/yourusername/epic-quiz/internal/service"
	"github.com/yourusername/epic-quiz/internal/service/quizcompose"
	"github.com/yourusername/epic-quiz/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	itemRepo := pgRepo.NewItemRepo(db)
	recordRepo := pgRepo.NewSessionRecordRepo(db)
	profileRepo := pgRepo.NewProfileRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Настройки составления сессий из конфигурации
	composeConfig := &quizcompose.Config{
		SessionSize:      cfg.Quiz.SessionSize,
		HistoryCap:       cfg.Quiz.HistoryCap,
		RecentQuizWindow: cfg.Quiz.RecentQuizWindow,
	}

	// Инициализируем сервисы
	quizService := service.NewQuizService(itemRepo, recordRepo, profileRepo, cacheRepo, composeConfig, nil)
	if err := quizService.ReloadPools(); err != nil {
		log.Printf("Failed to load item pools: %v", err)
		os.Exit(1)
	}
	profileService := service.NewProfileService(profileRepo, cacheRepo, quizService.Evaluator())

	// Инициализируем обработчики
	quizHandler := handler.NewQuizHandler(quizService, cfg.Quiz.DifficultyBonus)
	profileHandler := handler.NewProfileHandler(profileService)

	// Инициализируем rate limiter на основе Redis
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8000", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		api.GET("/categories", quizHandler.ListCategories)
		api.GET("/achievements", quizHandler.ListAchievements)
		api.GET("/activity", quizHandler.ListActivity)
		api.GET("/items/:id/reveal", quizHandler.RevealItem)
		api.GET("/leaderboard", rateLimiter.Limit(middleware.ExportRateLimitConfig()), profileHandler.GetLeaderboard)

		// Сессии
		sessions := api.Group("/sessions")
		sessions.Use(rateLimiter.Limit(middleware.DefaultSessionRateLimitConfig()))
		{
			sessions.POST("", quizHandler.ComposeSession)
			sessions.POST("/complete", quizHandler.CompleteSession)
		}

		// Профили
		profiles := api.Group("/profiles")
		{
			profileWithName := profiles.Group("/:username")
			profileWithName.Use(middleware.ExtractUsernameParam("username", "username"))
			{
				profileWithName.GET("", profileHandler.GetProfile)
			}
		}

		// Администрирование контента: перечитывание пулов после изменения вопросов
		api.POST("/admin/reload-pools", rateLimiter.LimitByIP(middleware.ExportRateLimitConfig()), quizHandler.ReloadPools)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
