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
	"github.com/joho/godotenv"

	"github.com/yourusername/challenge-api/internal/ai"
	"github.com/yourusername/challenge-api/internal/config"
	"github.com/yourusername/challenge-api/internal/handler"
	"github.com/yourusername/challenge-api/internal/middleware"
	pgRepo "github.com/yourusername/challenge-api/internal/repository/postgres"
	"github.com/yourusername/challenge-api/internal/service"
	"github.com/yourusername/challenge-api/pkg/auth"
	"github.com/yourusername/challenge-api/pkg/database"
)

func main() {
	// .env подхватывается для локальной разработки; в проде переменные
	// окружения приходят от оркестратора
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

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

	// Инициализируем подключение к Redis (rate limiting)
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Контекст жизненного цикла приложения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Клиент Gemini — процесс-глобальный, создается один раз
	geminiClient, err := ai.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Printf("Failed to initialize Gemini client: %v", err)
		os.Exit(1)
	}
	generator := ai.NewGenerator(geminiClient)

	// Инициализируем репозитории
	challengeRepo := pgRepo.NewChallengeRepo(db)
	quotaRepo := pgRepo.NewQuotaRepo(db)

	// Инициализируем сервисы
	challengeService := service.NewChallengeService(challengeRepo, quotaRepo, generator)

	// Верификатор токенов Clerk (networkless)
	verifier, err := auth.NewClerkVerifier(cfg.Clerk.JWTPublicKey, cfg.Clerk.AuthorizedParties)
	if err != nil {
		log.Printf("Failed to initialize Clerk verifier: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	challengeHandler := handler.NewChallengeHandler(challengeService)
	webhookHandler, err := handler.NewWebhookHandler(challengeService, cfg.Clerk.WebhookSecret)
	if err != nil {
		log.Printf("Failed to initialize webhook handler: %v", err)
		os.Exit(1)
	}

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(verifier)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// CORS: разрешаем те же origin-ы, что и для проверки azp
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Clerk.AuthorizedParties,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RequestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Настраиваем маршруты API
	api := router.Group("/api")
	api.Use(authMiddleware.RequireAuth())
	{
		api.POST("/generate-challenge",
			rateLimiter.Limit(middleware.GenerateRateLimitConfig()),
			challengeHandler.GenerateChallenge)
		api.GET("/my-history", challengeHandler.GetHistory)
		api.GET("/quota", challengeHandler.GetQuota)
	}

	// Вебхуки идут мимо аутентификации: подлинность дает подпись svix
	router.POST("/webhooks/clerk",
		rateLimiter.Limit(middleware.WebhookRateLimitConfig()),
		webhookHandler.HandleUserCreated)

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

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := geminiClient.Close(); err != nil {
		log.Printf("Error closing Gemini client: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited")
}
