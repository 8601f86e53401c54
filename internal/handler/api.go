package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"farmer-chatbot/internal/auth"
	"farmer-chatbot/internal/knowledge"
	"farmer-chatbot/internal/lookup"
	"farmer-chatbot/internal/models"
	"farmer-chatbot/internal/service"
	"farmer-chatbot/internal/weather"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const farmerNotFound = "Sorry, I couldn't find your farm information in the database."

// Responder composes answers to farmer messages
type Responder interface {
	Respond(ctx context.Context, text string, lang models.Language) service.Reply
	RespondToFarmer(ctx context.Context, text string, lang models.Language, profile models.FarmerProfile) service.Reply
	ModelInfo() map[string]interface{}
}

// FarmerLookup resolves farmer records from the data service
type FarmerLookup interface {
	FindFarmer(ctx context.Context, email, phone string) (*models.FarmerProfile, error)
	FarmSummary(ctx context.Context, email string) (*models.FarmSummary, error)
}

// ConversationStore is the conversation log
type ConversationStore interface {
	SaveConversation(conv *models.Conversation) error
	RecentConversations(userID string, limit int) ([]*models.Conversation, error)
	GetStats() (map[string]interface{}, error)
}

// Handler handles HTTP requests
type Handler struct {
	assistant Responder
	kb        *knowledge.Base
	weather   service.WeatherFetcher
	lookup    FarmerLookup
	store     ConversationStore // nil disables the conversation log
	decoder   *auth.Decoder
	logger    *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	assistant Responder,
	kb *knowledge.Base,
	weatherFetcher service.WeatherFetcher,
	farmerLookup FarmerLookup,
	store ConversationStore,
	decoder *auth.Decoder,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		assistant: assistant,
		kb:        kb,
		weather:   weatherFetcher,
		lookup:    farmerLookup,
		store:     store,
		decoder:   decoder,
		logger:    logger,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	api.Use(auth.OptionalUser(h.decoder, h.logger))
	{
		// Conversation
		api.POST("/chat", h.Chat)
		api.POST("/ask", h.Ask)

		// Reference data
		api.GET("/weather/:location", h.Weather)
		api.GET("/market-prices", h.MarketPrices)
		api.GET("/crop-info/:crop", h.CropInfo)
		api.GET("/pest-disease/:query", h.PestDisease)
		api.GET("/languages", h.Languages)

		// Farmer data
		api.POST("/farm-summary", h.FarmSummary)
	}

	// The log holds farmer messages, so it is only readable with a verified token
	if h.store == nil || h.decoder == nil || !h.decoder.Configured() {
		return
	}

	logs := r.Group("/api/conversations")
	logs.Use(auth.RequireUser(h.decoder, h.logger))
	{
		logs.GET("", h.Conversations)
		logs.GET("/stats", h.ConversationStats)
	}
}

// Root is the plain-text liveness check
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Zambian Farmer Chatbot API is running.")
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"service":            "farmer-chatbot",
		"version":            "1.0.0",
		"model":              h.assistant.ModelInfo(),
		"conversation_log":   h.store != nil,
		"auth_token_decoder": h.decoder != nil && h.decoder.Configured(),
	})
}

// Chat answers a message without farmer context
func (h *Handler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	lang := models.ParseLanguage(req.Language)
	reply := h.assistant.Respond(c.Request.Context(), req.Message, lang)
	h.record(c, "chat", req.Message, lang, reply)

	c.JSON(http.StatusOK, models.ChatResponse{
		Response: reply.Text,
		Language: lang,
	})
}

// Ask answers a message grounded in the caller's farm records
func (h *Handler) Ask(c *gin.Context) {
	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	profile, err := h.lookup.FindFarmer(c.Request.Context(), req.Email, req.Phone)
	if err != nil {
		if !errors.Is(err, lookup.ErrNotFound) {
			h.logger.Error("Farmer lookup failed", zap.Error(err))
		}
		c.JSON(http.StatusOK, models.AskResponse{Response: farmerNotFound})
		return
	}

	lang := models.ParseLanguage(req.Language)
	reply := h.assistant.RespondToFarmer(c.Request.Context(), req.Message, lang, *profile)
	h.record(c, "ask", req.Message, lang, reply)

	c.JSON(http.StatusOK, models.AskResponse{Response: reply.Text})
}

// Weather returns live weather, or {error} with the farmer-facing message
func (h *Handler) Weather(c *gin.Context) {
	snapshot, err := h.weather.Fetch(c.Request.Context(), c.Param("location"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": weather.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// MarketPrices returns the demo price table
func (h *Handler) MarketPrices(c *gin.Context) {
	c.JSON(http.StatusOK, h.kb.MarketPrices())
}

// CropInfo returns the knowledge entry for a crop, {} when unknown
func (h *Handler) CropInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.kb.CropInformation(c.Param("crop")))
}

// PestDisease returns the identification stub
func (h *Handler) PestDisease(c *gin.Context) {
	c.JSON(http.StatusOK, h.kb.IdentifyPestDisease(c.Param("query")))
}

// Languages returns the supported language catalogue
func (h *Handler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, h.kb.Languages())
}

// FarmSummary returns the flat marketing-data record for an email
func (h *Handler) FarmSummary(c *gin.Context) {
	var req models.FarmSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.lookup.FarmSummary(c.Request.Context(), req.Email)
	if errors.Is(err, lookup.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": farmerNotFound})
		return
	}
	if err != nil {
		h.logger.Error("Farm summary lookup failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "farm data service unavailable"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Conversations returns the newest logged exchanges
func (h *Handler) Conversations(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit (must be 1-500)"})
		return
	}

	userID := auth.UserIDFrom(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conversations, err := h.store.RecentConversations(userID, limit)
	if err != nil {
		h.logger.Error("Failed to get conversations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

// ConversationStats returns conversation log statistics
func (h *Handler) ConversationStats(c *gin.Context) {
	stats, err := h.store.GetStats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// record writes an exchange to the conversation log. Failures never reach the caller.
func (h *Handler) record(c *gin.Context, endpoint, message string, lang models.Language, reply service.Reply) {
	if h.store == nil {
		return
	}

	provider, _ := h.assistant.ModelInfo()["provider"].(string)
	conv := &models.Conversation{
		Endpoint: endpoint,
		UserID:   auth.UserIDFrom(c),
		Message:  message,
		Response: reply.Text,
		Language: lang,
		Intent:   reply.Intent,
		Path:     string(reply.Path),
		Provider: provider,
	}
	if err := h.store.SaveConversation(conv); err != nil {
		h.logger.Warn("Failed to log conversation", zap.Error(err))
	}
}
