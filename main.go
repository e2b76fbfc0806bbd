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

	"github.com/LovationAdmin/wedding-api/config"
	"github.com/LovationAdmin/wedding-api/handlers"
	"github.com/LovationAdmin/wedding-api/middleware"
	"github.com/LovationAdmin/wedding-api/routes"
	"github.com/LovationAdmin/wedding-api/services"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	if err := utils.InitLogger(cfg.IsProduction(), cfg.LogLevel); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.SyncLogger()
	utils.SetProduction(cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		utils.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	utils.Log.Info("✅ Database connected successfully", zap.String("driver", string(cfg.DatabaseDriver)))

	if err := config.RunMigrations(db); err != nil {
		utils.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	store := services.NewWeddingStore(db, cfg.DatabaseDriver)

	// One clock drives every periodic job.
	clock := services.NewClock(time.Second)
	defer clock.Stop()

	gate := &handlers.Gate{Store: store, JWTSecret: cfg.JWTSecret}
	if cfg.JWTSecret == "" {
		utils.Log.Warn("⚠️ JWT_SECRET not set, password protected weddings can not be unlocked")
	}

	wsHandler := handlers.NewWSHandler(gate)
	countdownTicks, _ := clock.Subscribe(services.Coarse)
	go wsHandler.RunCountdowns(countdownTicks)

	chatSessions := services.NewChatSessions(services.ChatSessionConfig{
		Responder:    chatResponder(cfg, store),
		Timeout:      cfg.ChatTimeout,
		MapsEmbedURL: cfg.MapsEmbedURL,
		SiteURL:      cfg.FrontendURL,
	}, services.DefaultChatIdleTTL)
	sweepTicks, _ := clock.Subscribe(services.Coarse)
	go chatSessions.SweepOn(sweepTicks)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	cleanupTicks, _ := clock.Subscribe(services.Coarse)
	go limiter.CleanupOn(cleanupTicks)

	emailService := services.NewEmailService(cfg.ResendAPIKey, cfg.FromEmail, cfg.FrontendURL, store)
	if cfg.ResendAPIKey == "" {
		utils.Log.Warn("⚠️ RESEND_API_KEY not set, invitation mails are disabled")
	}

	router := gin.New()
	router.Use(middleware.Recovery())

	allowedOrigins := []string{cfg.FrontendURL}
	utils.Log.Info("🌍 CORS: Allowing origins", zap.Strings("origins", allowedOrigins))

	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.RequestLogger())
	router.Use(limiter.Middleware())

	routes.Setup(router, routes.Handlers{
		Wedding: handlers.NewWeddingHandler(gate, cfg.UnlockTokenTTL),
		Guest:   handlers.NewGuestHandler(gate, services.NewRSVPService(store), emailService, wsHandler),
		Chat:    handlers.NewChatHandler(gate, chatSessions),
		WS:      wsHandler,
	})

	router.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if err := db.PingContext(c.Request.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": version,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogStartup("wedding-api", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Log.Info("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := wsHandler.Close(); err != nil {
		utils.Log.Warn("⚠️ closing websockets", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		utils.Log.Error("❌ Forced shutdown", zap.Error(err))
	}
	utils.Log.Info("👋 Server stopped")
}

// chatResponder prefers the external chatbot API and falls back to calling
// Claude directly. Without either the widget only shows the apology.
func chatResponder(cfg *config.AppConfig, store services.IWeddingStore) services.Responder {
	switch {
	case cfg.ChatbotAPIURL != "":
		utils.Log.Info("💬 Chat via external endpoint", zap.String("url", cfg.ChatbotAPIURL))
		return services.NewEndpointResponder(cfg.ChatbotAPIURL, cfg.ChatTimeout)
	case cfg.AnthropicAPIKey != "":
		utils.Log.Info("💬 Chat via Claude")
		return services.NewClaudeResponder(cfg.AnthropicAPIKey, services.StoreBriefer{Store: store}, cfg.ChatTimeout)
	default:
		utils.Log.Warn("⚠️ No chat backend configured")
		return nil
	}
}
