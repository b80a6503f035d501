package repository

import (
	"context"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
)

// SettingsRepository 设置仓储接口
type SettingsRepository interface {
	// Ensure 按 guildID 获取设置, 不存在时用默认值原子创建 (存储层 upsert)
	Ensure(ctx context.Context, guildID string) (*entity.GuildSettings, error)

	// Find 按 guildID 查找设置, 不存在返回 NotFound
	Find(ctx context.Context, guildID string) (*entity.GuildSettings, error)

	// Upsert 保存设置 (按 guildID 创建或更新)
	Upsert(ctx context.Context, settings *entity.GuildSettings) error
}
