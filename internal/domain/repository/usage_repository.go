package repository

import (
	"context"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
)

// UsageRepository 使用计数仓储接口
// 读-改-写, 无事务; 并发自增可能丢失更新, 按源行为保留 (近似遥测)
type UsageRepository interface {
	// Latest 返回最近更新的计数器行, 不存在时返回零值行
	Latest(ctx context.Context) (*entity.UsageCounters, error)

	// Patch 读取最新行, 应用增量后带时间戳写回
	Patch(ctx context.Context, delta entity.UsageDelta) (*entity.UsageCounters, error)
}
