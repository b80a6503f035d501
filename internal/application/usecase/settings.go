package usecase

import (
	"context"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"go.uber.org/zap"
)

// SettingsUseCase exposes the guild-settings operations behind the
// configuration commands and the dashboard API.
type SettingsUseCase struct {
	settings repository.SettingsRepository
	logger   *zap.Logger
}

// NewSettingsUseCase creates the settings use-case.
func NewSettingsUseCase(settings repository.SettingsRepository, logger *zap.Logger) *SettingsUseCase {
	return &SettingsUseCase{
		settings: settings,
		logger:   logger,
	}
}

// Get returns the settings for a guild, creating defaults if absent.
func (uc *SettingsUseCase) Get(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	return uc.settings.Ensure(ctx, guildID)
}

// Update persists a full settings record (dashboard upsert).
func (uc *SettingsUseCase) Update(ctx context.Context, settings *entity.GuildSettings) error {
	if settings.GuildID == "" {
		return entity.ErrInvalidGuildID
	}
	return uc.settings.Upsert(ctx, settings)
}

// SetMode persists the slash-command mode (idempotent upsert) and
// returns the human-readable description of the mode's effect.
func (uc *SettingsUseCase) SetMode(ctx context.Context, guildID, mode string) (string, error) {
	parsed, err := entity.ParseSlashMode(mode)
	if err != nil {
		return "", err
	}

	settings, err := uc.settings.Ensure(ctx, guildID)
	if err != nil {
		return "", err
	}

	settings.SlashMode = parsed
	if err := uc.settings.Upsert(ctx, settings); err != nil {
		return "", err
	}

	uc.logger.Info("Slash mode updated",
		zap.String("guild_id", settings.GuildID),
		zap.String("mode", string(parsed)),
	)
	return parsed.Description(), nil
}

// ActivateChannel idempotently adds the channel to the activated set.
// While the mode is still disabled, activating a channel also switches
// the guild to activated mode so the toggle has a visible effect.
func (uc *SettingsUseCase) ActivateChannel(ctx context.Context, guildID, channelID string) error {
	if channelID == "" {
		return entity.ErrInvalidChannelID
	}

	settings, err := uc.settings.Ensure(ctx, guildID)
	if err != nil {
		return err
	}

	changed := settings.ActivateChannel(channelID)
	if settings.SlashMode == entity.SlashModeDisabled {
		settings.SlashMode = entity.SlashModeActivated
		changed = true
	}
	if !changed {
		return nil
	}
	return uc.settings.Upsert(ctx, settings)
}

// DeactivateChannel idempotently removes the channel from the
// activated set. Removing an absent channel is a successful no-op.
func (uc *SettingsUseCase) DeactivateChannel(ctx context.Context, guildID, channelID string) error {
	if channelID == "" {
		return entity.ErrInvalidChannelID
	}

	settings, err := uc.settings.Ensure(ctx, guildID)
	if err != nil {
		return err
	}

	if !settings.DeactivateChannel(channelID) {
		return nil
	}
	return uc.settings.Upsert(ctx, settings)
}
