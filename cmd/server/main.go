package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmer-chatbot/internal/auth"
	"farmer-chatbot/internal/config"
	"farmer-chatbot/internal/handler"
	"farmer-chatbot/internal/intent"
	"farmer-chatbot/internal/knowledge"
	"farmer-chatbot/internal/llm"
	"farmer-chatbot/internal/lookup"
	"farmer-chatbot/internal/repository"
	"farmer-chatbot/internal/service"
	"farmer-chatbot/internal/weather"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "configs/config.yml"
	}
	configPath := flag.String("config", defaultConfig, "path to the YAML config file")
	flag.Parse()

	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting Farmer Chatbot...")

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	kb := knowledge.Default()
	classifier := intent.NewClassifier(kb.CropNames())

	weatherClient := weather.NewClient(weather.Config{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		Timeout: cfg.Weather.Timeout,
	}, logger)

	// A broken provider config degrades to rule-based answers instead of failing startup
	generator, err := llm.New(cfg.LLM, service.SystemInstruction(kb), logger)
	if err != nil {
		logger.Warn("Failed to initialize generative provider, using rule-based responses", zap.Error(err))
		generator = llm.Unavailable{}
	}
	defer generator.Close()

	lookupClient := lookup.NewClient(lookup.Config{
		UserLookupURL:    cfg.Supabase.UserLookupURL,
		MarketingDataURL: cfg.Supabase.MarketingDataURL,
		AnonKey:          cfg.Supabase.AnonKey,
		Timeout:          cfg.Supabase.Timeout,
	}, logger)

	decoder := auth.NewDecoder(cfg.Supabase.JWTSecret)
	if !decoder.Configured() {
		logger.Warn("JWT secret not configured, bearer tokens ignored and conversation log not exposed")
	}

	// The conversation log is optional
	var store handler.ConversationStore
	repo, err := repository.NewConversationRepository(cfg.Database.Path, logger)
	if err != nil {
		logger.Warn("Conversation log disabled", zap.Error(err))
	} else {
		defer repo.Close()
		store = repo
	}

	assistant := service.NewAssistant(kb, classifier, weatherClient, generator, logger)

	// Initialize HTTP handler
	apiHandler := handler.NewHandler(assistant, kb, weatherClient, lookupClient, store, decoder, logger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register routes
	apiHandler.RegisterRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("Server starting", zap.String("address", serverAddr))

	// Graceful shutdown
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	modelInfo := assistant.ModelInfo()
	logger.Info("Farmer Chatbot is running",
		zap.String("port", cfg.Server.Port),
		zap.Any("provider", modelInfo["provider"]),
		zap.Any("model", modelInfo["model"]),
		zap.Bool("live_weather", weatherClient.Configured()))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
