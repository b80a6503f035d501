package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chatbridge/chatbridge/internal/application/usecase"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"github.com/chatbridge/chatbridge/internal/interfaces/http/handlers"
	"go.uber.org/zap"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// Config HTTP服务器配置
type Config struct {
	Host string
	Port int
	Mode string // debug, production
}

// NewServer 创建HTTP服务器 (仪表盘 CRUD API)
func NewServer(
	cfg Config,
	gateway handlers.GatewayController,
	settings *usecase.SettingsUseCase,
	usage *usecase.UsageUseCase,
	conversations repository.ConversationRepository,
	logger *zap.Logger,
) *Server {
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logger))

	gatewayHandler := handlers.NewGatewayHandler(gateway, logger)
	settingsHandler := handlers.NewSettingsHandler(settings, logger)
	usageHandler := handlers.NewUsageHandler(usage, logger)
	conversationHandler := handlers.NewConversationHandler(conversations, logger)

	setupRoutes(router, gatewayHandler, settingsHandler, usageHandler, conversationHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	return &Server{
		server: server,
		logger: logger,
	}
}

// Start 启动服务器
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop 停止服务器
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// setupRoutes 设置路由
func setupRoutes(
	router *gin.Engine,
	gateway *handlers.GatewayHandler,
	settings *handlers.SettingsHandler,
	usage *handlers.UsageHandler,
	conversations *handlers.ConversationHandler,
) {
	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// API版本1
	v1 := router.Group("/api/v1")
	{
		v1.POST("/gateway/start", gateway.Start)
		v1.POST("/gateway/stop", gateway.Stop)
		v1.GET("/gateway/status", gateway.Status)

		v1.GET("/usage", usage.Get)
		v1.PATCH("/usage", usage.Patch)

		v1.GET("/settings/:guildID", settings.Get)
		v1.PUT("/settings/:guildID", settings.Upsert)

		v1.GET("/conversations", conversations.List)
		v1.GET("/conversations/:id/messages", conversations.Messages)
	}
}

// ginLogger Gin日志中间件
func ginLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", statusCode),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
