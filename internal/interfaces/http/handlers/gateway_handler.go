package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GatewayController 网关连接的启停控制接口 (由 Discord 适配器实现)
type GatewayController interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Connected() bool
}

// GatewayHandler 网关连接控制
type GatewayHandler struct {
	gateway GatewayController
	logger  *zap.Logger
}

// NewGatewayHandler 创建网关控制处理器
func NewGatewayHandler(gateway GatewayController, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// Start 建立网关连接
func (h *GatewayHandler) Start(c *gin.Context) {
	if h.gateway.Connected() {
		c.JSON(http.StatusOK, gin.H{"status": "already_connected"})
		return
	}
	if err := h.gateway.Start(c.Request.Context()); err != nil {
		h.logger.Error("Failed to start gateway", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "connected"})
}

// Stop 断开网关连接
func (h *GatewayHandler) Stop(c *gin.Context) {
	if !h.gateway.Connected() {
		c.JSON(http.StatusOK, gin.H{"status": "already_disconnected"})
		return
	}
	if err := h.gateway.Stop(c.Request.Context()); err != nil {
		h.logger.Error("Failed to stop gateway", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
}

// Status 查询网关连接状态
func (h *GatewayHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connected": h.gateway.Connected()})
}
