package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"go.uber.org/zap"
)

const defaultConversationLimit = 50

// ConversationHandler 会话只读查询 (仪表盘)
type ConversationHandler struct {
	conversations repository.ConversationRepository
	logger        *zap.Logger
}

// NewConversationHandler 创建会话处理器
func NewConversationHandler(conversations repository.ConversationRepository, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		logger:        logger,
	}
}

// ConversationResponse 会话的 API 表示, 附带全部消息
type ConversationResponse struct {
	ID        string            `json:"id"`
	ChannelID string            `json:"channel_id"`
	UserID    string            `json:"user_id"`
	GuildID   string            `json:"guild_id"`
	CreatedAt string            `json:"created_at"`
	Messages  []MessageResponse `json:"messages"`
}

// MessageResponse 消息的 API 表示
type MessageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}

// List 返回最近会话, 按创建时间降序
func (h *ConversationHandler) List(c *gin.Context) {
	limit := defaultConversationLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	conversations, err := h.conversations.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list conversations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		messages, err := h.conversations.ListMessages(c.Request.Context(), conv.ID)
		if err != nil {
			h.logger.Error("Failed to load conversation messages",
				zap.String("conversation_id", conv.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp = append(resp, ConversationResponse{
			ID:        conv.ID,
			ChannelID: conv.ChannelID,
			UserID:    conv.UserID,
			GuildID:   conv.GuildID,
			CreatedAt: formatTime(conv.CreatedAt),
			Messages:  toMessageResponses(messages),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"conversations": resp,
		"count":         len(resp),
	})
}

// Messages 返回会话的全部消息, 按创建时间升序
func (h *ConversationHandler) Messages(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrInvalidConversationID.Error()})
		return
	}

	messages, err := h.conversations.ListMessages(c.Request.Context(), conversationID)
	if err != nil {
		h.logger.Error("Failed to list messages",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := toMessageResponses(messages)
	c.JSON(http.StatusOK, gin.H{
		"messages": resp,
		"count":    len(resp),
	})
}

func toMessageResponses(messages []*entity.ConversationMessage) []MessageResponse {
	resp := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, MessageResponse{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			Role:           string(msg.Role),
			Content:        msg.Content,
			CreatedAt:      formatTime(msg.CreatedAt),
		})
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
