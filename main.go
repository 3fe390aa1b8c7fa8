package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/cache"
	"github.com/hanifahuq/MelloBackend/chat"
	"github.com/hanifahuq/MelloBackend/db"
	"github.com/hanifahuq/MelloBackend/handlers"
	"github.com/hanifahuq/MelloBackend/llm"
	"github.com/hanifahuq/MelloBackend/middleware"
	"github.com/hanifahuq/MelloBackend/models"
	"github.com/hanifahuq/MelloBackend/routes"
	"github.com/hanifahuq/MelloBackend/utils"
)

func main() {
	// Инициализация логирования и метрик
	utils.InitLogger()
	defer utils.Logger.Sync()
	utils.InitMetrics()

	if err := godotenv.Load(); err != nil {
		utils.Logger.Info("no_dotenv_file")
	}

	utils.Logger.Info("starting_application")

	// Подключение к БД
	db.Connect()
	if err := db.DB.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.JournalEntry{},
		&models.Affirmation{},
	); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	seedAffirmations()

	// Redis не обязателен: без него кэши превращаются в промахи
	if err := cache.InitRedis(utils.Logger); err != nil {
		utils.Logger.Warn("redis_unavailable_running_without_cache", zap.Error(err))
	}
	cache.InitEventsCache(utils.Logger)

	// Mimi без ключа OpenAI не работает, остальное приложение - работает
	if err := llm.Init(utils.Logger); err != nil {
		utils.Logger.Warn("llm_not_configured", zap.Error(err))
	}

	// Сессии Mimi живут не дольше токена, который их открыл
	chat.Sessions.StartJanitor(time.Hour, utils.TokenTTL)

	// Настройка Gin
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Middleware в правильном порядке
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())

	if csrfKey := os.Getenv("CSRF_AUTH_KEY"); csrfKey != "" {
		r.Use(middleware.CSRFProtection([]byte(csrfKey)))
	}

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now(),
			"database":  "connected",
		})
	})

	// Публичные эндпоинты
	r.POST("/api/register", handlers.RegisterHandler)
	r.POST("/api/login", routes.Login)
	r.GET("/api/affirmation", middleware.CacheMiddleware(time.Hour), func(c *gin.Context) {
		var affirmation models.Affirmation
		if err := db.DB.Order("RANDOM()").First(&affirmation).Error; err != nil {
			utils.Logger.Error("get_affirmation_failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve the quote"})
			return
		}
		c.JSON(http.StatusOK, affirmation)
	})

	// Защищенные эндпоинты
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// Профиль
		api.GET("/profile", routes.Profile)
		api.PUT("/profile", routes.UpdateProfile)

		// Только для админов
		api.GET("/users", middleware.RoleMiddleware(models.RoleAdmin), routes.Users)

		// Привычки и календарь
		api.POST("/habits", handlers.CreateHabit)
		api.GET("/events", handlers.GetEvents)
		api.PUT("/events/:id/complete", handlers.CompleteEvent)

		// Дневник
		api.POST("/journal", handlers.CreateJournal)
		api.GET("/journal", middleware.CacheMiddleware(time.Minute), handlers.GetJournal)
		api.GET("/journal/streaks", handlers.GetStreaks)

		// Дашборд
		api.GET("/dashboard", handlers.GetDashboard)

		// Mimi
		api.GET("/mimi", handlers.GetMimi)
		api.POST("/mimi/ask", middleware.RateLimitMiddleware(20, time.Minute), handlers.AskMimi)
		api.POST("/mimi/schedule", handlers.ScheduleSuggestion)
	}

	// Метрики Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Запуск сервера
	startServer(r)
}

func seedAffirmations() {
	var count int64
	db.DB.Model(&models.Affirmation{}).Count(&count)
	if count == 0 {
		affirmations := []models.Affirmation{
			{Text: "I am in the process of positive change."},
			{Text: "It is safe for me to speak up for myself."},
			{Text: "I trust the process of life."},
			{Text: "Every thought we think is creating our future."},
			{Text: "I am willing to release the need to be unworthy. I am worthy of the very best in life."},
		}
		db.DB.Create(&affirmations)
		fmt.Println("✅ Seed affirmations created")
	}
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", port))

	fmt.Println("\n🐱 ================================")
	fmt.Println("   Mello Backend Started")
	fmt.Println("   ================================")
	fmt.Printf("   🌐 Server:  http://localhost:%s\n", port)
	fmt.Printf("   📊 Metrics: http://localhost:%s/metrics\n", port)
	fmt.Printf("   ❤️  Health: http://localhost:%s/health\n", port)
	fmt.Println("   ================================")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")
	fmt.Println("\n🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	if err := cache.Close(); err != nil {
		utils.Logger.Warn("redis_close_failed", zap.Error(err))
	}

	utils.Logger.Info("server_stopped")
	fmt.Println("✅ Server stopped gracefully")
}
