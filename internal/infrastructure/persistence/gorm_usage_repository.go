package persistence

import (
	"context"
	"errors"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"github.com/chatbridge/chatbridge/internal/infrastructure/persistence/models"
	domainErrors "github.com/chatbridge/chatbridge/pkg/errors"
	"gorm.io/gorm"
)

// GormUsageRepository GORM 实现的使用计数仓储
// 读-改-写无事务, 并发自增可能丢失更新; 这是近似遥测信号, 按源行为保留
type GormUsageRepository struct {
	db *gorm.DB
}

// NewGormUsageRepository 创建 GORM 使用计数仓储
func NewGormUsageRepository(db *gorm.DB) repository.UsageRepository {
	return &GormUsageRepository{
		db: db,
	}
}

// Latest 返回最近更新的计数器行
func (r *GormUsageRepository) Latest(ctx context.Context) (*entity.UsageCounters, error) {
	var model models.UsageCountersModel
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.UsageCounters{}, nil
		}
		return nil, domainErrors.NewInternalError("failed to read counters: " + err.Error())
	}
	return r.toEntity(&model), nil
}

// Patch 读最新行, 应用增量, 写回
func (r *GormUsageRepository) Patch(ctx context.Context, delta entity.UsageDelta) (*entity.UsageCounters, error) {
	var model models.UsageCountersModel
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		First(&model).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.NewInternalError("failed to read counters: " + err.Error())
	}

	counters := r.toEntity(&model)
	counters.Apply(delta)

	model.ServerCount = counters.ServerCount
	model.MessageCount = counters.MessageCount
	model.ActiveConversations = counters.ActiveConversations
	model.APICallCount = counters.APICallCount
	model.UptimeSeconds = counters.UptimeSeconds

	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return nil, domainErrors.NewInternalError("failed to save counters: " + err.Error())
	}

	counters.ID = model.ID
	counters.UpdatedAt = model.UpdatedAt
	return counters, nil
}

func (r *GormUsageRepository) toEntity(model *models.UsageCountersModel) *entity.UsageCounters {
	return &entity.UsageCounters{
		ID:                  model.ID,
		ServerCount:         model.ServerCount,
		MessageCount:        model.MessageCount,
		ActiveConversations: model.ActiveConversations,
		APICallCount:        model.APICallCount,
		UptimeSeconds:       model.UptimeSeconds,
		UpdatedAt:           model.UpdatedAt,
	}
}
