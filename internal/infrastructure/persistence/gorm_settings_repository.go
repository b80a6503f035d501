package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"github.com/chatbridge/chatbridge/internal/infrastructure/persistence/models"
	domainErrors "github.com/chatbridge/chatbridge/pkg/errors"
	"gorm.io/gorm"
)

// GormSettingsRepository GORM 实现的设置仓储
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository 创建 GORM 设置仓储
func NewGormSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &GormSettingsRepository{
		db: db,
	}
}

// Ensure 按 guildID 获取设置, 不存在时以默认值创建
// FirstOrCreate 把读-写收敛到存储层, 并发首条消息不会各写一行
func (r *GormSettingsRepository) Ensure(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	if guildID == "" {
		guildID = entity.DMGuildID
	}

	defaults, err := r.toModel(entity.DefaultGuildSettings(guildID))
	if err != nil {
		return nil, err
	}

	var model models.GuildSettingsModel
	err = r.db.WithContext(ctx).
		Where(&models.GuildSettingsModel{GuildID: guildID}).
		Attrs(defaults).
		FirstOrCreate(&model).Error
	if err != nil {
		return nil, domainErrors.NewInternalError("failed to ensure settings: " + err.Error())
	}

	return r.toEntity(&model)
}

// Find 按 guildID 查找设置
func (r *GormSettingsRepository) Find(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	var model models.GuildSettingsModel
	if err := r.db.WithContext(ctx).First(&model, "guild_id = ?", guildID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewNotFoundError("settings not found")
		}
		return nil, domainErrors.NewInternalError("failed to find settings: " + err.Error())
	}
	return r.toEntity(&model)
}

// Upsert 保存设置
func (r *GormSettingsRepository) Upsert(ctx context.Context, settings *entity.GuildSettings) error {
	model, err := r.toModel(settings)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return domainErrors.NewInternalError("failed to save settings: " + err.Error())
	}
	return nil
}

// 转换方法

func (r *GormSettingsRepository) toModel(settings *entity.GuildSettings) (*models.GuildSettingsModel, error) {
	allowed, err := json.Marshal(settings.AllowedChannels)
	if err != nil {
		return nil, domainErrors.NewInternalError("failed to marshal allowed channels: " + err.Error())
	}
	activated, err := json.Marshal(settings.ActivatedChannels)
	if err != nil {
		return nil, domainErrors.NewInternalError("failed to marshal activated channels: " + err.Error())
	}

	return &models.GuildSettingsModel{
		GuildID:           settings.GuildID,
		Prefix:            settings.Prefix,
		ResponseLength:    string(settings.ResponseLength),
		Personality:       string(settings.Personality),
		CodeFormatting:    settings.CodeFormatting,
		ChannelMode:       string(settings.ChannelMode),
		AllowedChannels:   string(allowed),
		SlashMode:         string(settings.SlashMode),
		ActivatedChannels: string(activated),
	}, nil
}

func (r *GormSettingsRepository) toEntity(model *models.GuildSettingsModel) (*entity.GuildSettings, error) {
	settings := &entity.GuildSettings{
		GuildID:        model.GuildID,
		Prefix:         model.Prefix,
		ResponseLength: entity.ResponseLength(model.ResponseLength),
		Personality:    entity.Personality(model.Personality),
		CodeFormatting: model.CodeFormatting,
		ChannelMode:    entity.ChannelMode(model.ChannelMode),
		SlashMode:      entity.SlashMode(model.SlashMode),
	}
	if model.AllowedChannels != "" {
		if err := json.Unmarshal([]byte(model.AllowedChannels), &settings.AllowedChannels); err != nil {
			return nil, domainErrors.NewInternalError("failed to unmarshal allowed channels: " + err.Error())
		}
	}
	if model.ActivatedChannels != "" {
		if err := json.Unmarshal([]byte(model.ActivatedChannels), &settings.ActivatedChannels); err != nil {
			return nil, domainErrors.NewInternalError("failed to unmarshal activated channels: " + err.Error())
		}
	}
	return settings, nil
}
