package usecase

import (
	"context"
	"time"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"go.uber.org/zap"
)

// UsageUseCase maintains the coarse usage counters. Writes are
// best-effort read-modify-write patches: a failed or lost update is
// logged and dropped, never surfaced to the reply pipeline.
type UsageUseCase struct {
	usage     repository.UsageRepository
	startTime time.Time
	logger    *zap.Logger
}

// NewUsageUseCase creates the usage recorder.
func NewUsageUseCase(usage repository.UsageRepository, logger *zap.Logger) *UsageUseCase {
	return &UsageUseCase{
		usage:     usage,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Increment bumps the message and/or API call counters.
func (uc *UsageUseCase) Increment(ctx context.Context, messages, apiCalls bool) {
	var delta entity.UsageDelta
	if messages {
		delta.Messages = 1
	}
	if apiCalls {
		delta.APICalls = 1
	}
	uptime := int64(time.Since(uc.startTime).Seconds())
	delta.UptimeSeconds = &uptime

	if _, err := uc.usage.Patch(ctx, delta); err != nil {
		uc.logger.Warn("Failed to patch usage counters", zap.Error(err))
	}
}

// SetServerCount records the current number of connected guilds.
func (uc *UsageUseCase) SetServerCount(ctx context.Context, n int64) {
	if _, err := uc.usage.Patch(ctx, entity.UsageDelta{ServerCount: &n}); err != nil {
		uc.logger.Warn("Failed to set server count", zap.Error(err))
	}
}

// SetActiveConversations records the current conversation total.
func (uc *UsageUseCase) SetActiveConversations(ctx context.Context, n int64) {
	current, err := uc.usage.Latest(ctx)
	if err != nil {
		uc.logger.Warn("Failed to read usage counters", zap.Error(err))
		return
	}
	delta := entity.UsageDelta{ActiveConversations: n - current.ActiveConversations}
	if _, err := uc.usage.Patch(ctx, delta); err != nil {
		uc.logger.Warn("Failed to patch conversation count", zap.Error(err))
	}
}

// Snapshot returns the latest counters with uptime refreshed.
func (uc *UsageUseCase) Snapshot(ctx context.Context) (*entity.UsageCounters, error) {
	counters, err := uc.usage.Latest(ctx)
	if err != nil {
		return nil, err
	}
	counters.UptimeSeconds = int64(time.Since(uc.startTime).Seconds())
	return counters, nil
}

// Patch applies an externally supplied delta (dashboard PATCH).
func (uc *UsageUseCase) Patch(ctx context.Context, delta entity.UsageDelta) (*entity.UsageCounters, error) {
	return uc.usage.Patch(ctx, delta)
}
