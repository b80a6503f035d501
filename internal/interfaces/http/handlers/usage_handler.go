package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatbridge/chatbridge/internal/application/usecase"
	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"go.uber.org/zap"
)

// UsageHandler 使用计数查询与补丁
type UsageHandler struct {
	usage  *usecase.UsageUseCase
	logger *zap.Logger
}

// NewUsageHandler 创建使用计数处理器
func NewUsageHandler(usage *usecase.UsageUseCase, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{
		usage:  usage,
		logger: logger,
	}
}

// UsageResponse 计数器的 API 表示
type UsageResponse struct {
	ServerCount         int64  `json:"server_count"`
	MessageCount        int64  `json:"message_count"`
	ActiveConversations int64  `json:"active_conversations"`
	APICallCount        int64  `json:"api_call_count"`
	UptimeSeconds       int64  `json:"uptime_seconds"`
	UpdatedAt           string `json:"updated_at"`
}

// PatchUsageRequest 增量补丁请求
type PatchUsageRequest struct {
	Messages            int64  `json:"messages"`
	APICalls            int64  `json:"api_calls"`
	ActiveConversations int64  `json:"active_conversations"`
	ServerCount         *int64 `json:"server_count"`
	UptimeSeconds       *int64 `json:"uptime_seconds"`
}

// Get 返回最新计数快照
func (h *UsageHandler) Get(c *gin.Context) {
	counters, err := h.usage.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load usage counters", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toUsageResponse(counters))
}

// Patch 应用外部提交的增量
func (h *UsageHandler) Patch(c *gin.Context) {
	var req PatchUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	counters, err := h.usage.Patch(c.Request.Context(), entity.UsageDelta{
		Messages:            req.Messages,
		APICalls:            req.APICalls,
		ActiveConversations: req.ActiveConversations,
		ServerCount:         req.ServerCount,
		UptimeSeconds:       req.UptimeSeconds,
	})
	if err != nil {
		h.logger.Error("Failed to patch usage counters", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toUsageResponse(counters))
}

func toUsageResponse(u *entity.UsageCounters) UsageResponse {
	return UsageResponse{
		ServerCount:         u.ServerCount,
		MessageCount:        u.MessageCount,
		ActiveConversations: u.ActiveConversations,
		APICallCount:        u.APICallCount,
		UptimeSeconds:       u.UptimeSeconds,
		UpdatedAt:           formatTime(u.UpdatedAt),
	}
}
