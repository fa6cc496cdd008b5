package main

import (
	"log"
	"time"

	"organizer-api/config"
	"organizer-api/handlers"
	"organizer-api/middleware"
	"organizer-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Start service")
	// Загружаем .env файл (игнорируем ошибку для продакшн)
	_ = godotenv.Load()

	cfg := config.Load()

	log.Println("init services")
	var store services.BlobStore
	if cfg.StoreBackend == "minio" {
		minioStore, err := services.NewMinIOStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO store: %v", err)
		}
		store = minioStore
	} else {
		store = services.NewMemoryStore()
	}

	organizerService := services.NewOrganizerService(cfg)
	cacheManager := services.NewCacheManager(store, organizerService, cfg.CacheTTL)
	aggregatorService := services.NewAggregatorService(services.NewColorPicker())

	log.Println("init handlers")
	dashboardHandler := handlers.NewDashboardHandler(cacheManager, organizerService, aggregatorService)
	calendarHandler := handlers.NewCalendarHandler(cacheManager, organizerService, aggregatorService)
	pendingHandler := handlers.NewPendingHandler(cacheManager, organizerService, aggregatorService)
	userHandler := handlers.NewUserHandler(cacheManager, aggregatorService)
	cacheHandler := handlers.NewCacheHandler(cacheManager)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Println("init router")
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gin.Recovery())

	// API routes
	api := router.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now(),
			})
		})

		// Dashboard
		api.GET("/dashboard", dashboardHandler.GetDashboard)

		// Calendar
		api.GET("/calendar", calendarHandler.GetMonth)
		api.GET("/calendar/gantt", calendarHandler.GetGantt)

		// Pending activities
		api.GET("/activities/pending", pendingHandler.GetPending)
		api.GET("/activities/pending/:activityId/hours", pendingHandler.GetDayHours)
		api.POST("/activities/confirm", pendingHandler.ConfirmActivity)

		// User profile
		api.GET("/user/profile", userHandler.GetProfile)

		// Cache management
		api.POST("/cache/invalidate", cacheHandler.InvalidateCache)
	}

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
