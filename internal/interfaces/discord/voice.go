package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
	domainErrors "github.com/chatbridge/chatbridge/pkg/errors"
	"go.uber.org/zap"
)

// VoiceRegistry 每个 guild 一个语音连接的注册表
// 检查与插入在同一把锁内完成, 两个几乎同时的 join 不会产生两条连接
type VoiceRegistry struct {
	mu     sync.Mutex
	conns  map[string]*discordgo.VoiceConnection
	logger *zap.Logger
}

// NewVoiceRegistry 创建语音连接注册表
func NewVoiceRegistry(logger *zap.Logger) *VoiceRegistry {
	return &VoiceRegistry{
		conns:  make(map[string]*discordgo.VoiceConnection),
		logger: logger,
	}
}

// JoinFunc 建立底层语音连接 (生产环境为 session.ChannelVoiceJoin)
type JoinFunc func(guildID, channelID string) (*discordgo.VoiceConnection, error)

// Join 为 guild 建立语音连接; 已有连接时拒绝
// 拨号发生在锁内, join 期间同 guild 的第二次 Join 会等待并被拒绝
func (r *VoiceRegistry) Join(dial JoinFunc, guildID, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[guildID]; ok {
		return domainErrors.NewInvalidInputError("already connected to a voice channel in this server")
	}

	conn, err := dial(guildID, channelID)
	if err != nil {
		return domainErrors.NewTransportError("failed to join voice channel", err)
	}

	r.conns[guildID] = conn
	r.logger.Info("Voice channel joined",
		zap.String("guild_id", guildID),
		zap.String("channel_id", channelID),
	)
	return nil
}

// Leave 断开 guild 的语音连接并从注册表移除; 无连接时返回 NotFound
func (r *VoiceRegistry) Leave(guildID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[guildID]
	if !ok {
		return domainErrors.NewNotFoundError("not connected to a voice channel in this server")
	}

	delete(r.conns, guildID)
	if err := conn.Disconnect(); err != nil {
		return domainErrors.NewTransportError("failed to disconnect voice channel", err)
	}

	r.logger.Info("Voice channel left", zap.String("guild_id", guildID))
	return nil
}

// Drop 外部掉线时的自愈移除, 不再调用 Disconnect
func (r *VoiceRegistry) Drop(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[guildID]; ok {
		delete(r.conns, guildID)
		r.logger.Info("Voice connection dropped externally", zap.String("guild_id", guildID))
	}
}

// Connected 判断 guild 是否有活跃语音连接
func (r *VoiceRegistry) Connected(guildID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.conns[guildID]
	return ok
}

// ReleaseAll 断开全部连接 (关停时调用)
func (r *VoiceRegistry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for guildID, conn := range r.conns {
		if err := conn.Disconnect(); err != nil {
			r.logger.Warn("Failed to disconnect voice channel",
				zap.String("guild_id", guildID),
				zap.Error(err),
			)
		}
		delete(r.conns, guildID)
	}
}
