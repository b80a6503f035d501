package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatbridge/chatbridge/internal/application/usecase"
	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"go.uber.org/zap"
)

// SettingsHandler 设置读写
type SettingsHandler struct {
	settings *usecase.SettingsUseCase
	logger   *zap.Logger
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(settings *usecase.SettingsUseCase, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		logger:   logger,
	}
}

// SettingsResponse 设置的 API 表示
type SettingsResponse struct {
	GuildID           string   `json:"guild_id"`
	Prefix            string   `json:"prefix"`
	ResponseLength    string   `json:"response_length"`
	Personality       string   `json:"personality"`
	CodeFormatting    bool     `json:"code_formatting"`
	ChannelMode       string   `json:"channel_mode"`
	AllowedChannels   []string `json:"allowed_channels"`
	SlashMode         string   `json:"slash_mode"`
	ActivatedChannels []string `json:"activated_channels"`
}

// UpsertSettingsRequest 设置更新请求
type UpsertSettingsRequest struct {
	Prefix            string   `json:"prefix"`
	ResponseLength    string   `json:"response_length" binding:"required"`
	Personality       string   `json:"personality" binding:"required"`
	CodeFormatting    *bool    `json:"code_formatting" binding:"required"`
	ChannelMode       string   `json:"channel_mode" binding:"required"`
	AllowedChannels   []string `json:"allowed_channels"`
	SlashMode         string   `json:"slash_mode" binding:"required"`
	ActivatedChannels []string `json:"activated_channels"`
}

// Get 返回 guild 的设置, 不存在时创建默认值
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context(), c.Param("guildID"))
	if err != nil {
		h.logger.Error("Failed to load settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// Upsert 按 guildID 创建或更新设置
func (h *SettingsHandler) Upsert(c *gin.Context) {
	var req UpsertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := entity.ParseSlashMode(req.SlashMode); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := &entity.GuildSettings{
		GuildID:           c.Param("guildID"),
		Prefix:            req.Prefix,
		ResponseLength:    entity.ResponseLength(req.ResponseLength),
		Personality:       entity.Personality(req.Personality),
		CodeFormatting:    *req.CodeFormatting,
		ChannelMode:       entity.ChannelMode(req.ChannelMode),
		AllowedChannels:   req.AllowedChannels,
		SlashMode:         entity.SlashMode(req.SlashMode),
		ActivatedChannels: req.ActivatedChannels,
	}

	if err := h.settings.Update(c.Request.Context(), settings); err != nil {
		h.logger.Error("Failed to update settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func toSettingsResponse(s *entity.GuildSettings) SettingsResponse {
	return SettingsResponse{
		GuildID:           s.GuildID,
		Prefix:            s.Prefix,
		ResponseLength:    string(s.ResponseLength),
		Personality:       string(s.Personality),
		CodeFormatting:    s.CodeFormatting,
		ChannelMode:       string(s.ChannelMode),
		AllowedChannels:   s.AllowedChannels,
		SlashMode:         string(s.SlashMode),
		ActivatedChannels: s.ActivatedChannels,
	}
}
