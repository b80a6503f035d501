package persistence

import (
	"context"
	"sync"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"github.com/chatbridge/chatbridge/pkg/errors"
)

// MemorySettingsRepository 内存实现的设置仓储（用于开发/测试）
type MemorySettingsRepository struct {
	mu       sync.RWMutex
	settings map[string]*entity.GuildSettings
}

// NewMemorySettingsRepository 创建内存设置仓储
func NewMemorySettingsRepository() repository.SettingsRepository {
	return &MemorySettingsRepository{
		settings: make(map[string]*entity.GuildSettings),
	}
}

// Ensure 获取或默认创建设置
func (r *MemorySettingsRepository) Ensure(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	if guildID == "" {
		guildID = entity.DMGuildID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.settings[guildID]; ok {
		return cloneSettings(s), nil
	}
	s := entity.DefaultGuildSettings(guildID)
	r.settings[guildID] = s
	return cloneSettings(s), nil
}

// Find 按 guildID 查找设置
func (r *MemorySettingsRepository) Find(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[guildID]
	if !ok {
		return nil, errors.NewNotFoundError("settings not found")
	}
	return cloneSettings(s), nil
}

// Upsert 保存设置
func (r *MemorySettingsRepository) Upsert(ctx context.Context, settings *entity.GuildSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[settings.GuildID] = cloneSettings(settings)
	return nil
}

func cloneSettings(s *entity.GuildSettings) *entity.GuildSettings {
	clone := *s
	clone.AllowedChannels = append([]string(nil), s.AllowedChannels...)
	clone.ActivatedChannels = append([]string(nil), s.ActivatedChannels...)
	return &clone
}
