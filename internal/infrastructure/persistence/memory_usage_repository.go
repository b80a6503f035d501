package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
)

// MemoryUsageRepository 内存实现的使用计数仓储（用于开发/测试）
type MemoryUsageRepository struct {
	mu       sync.Mutex
	counters entity.UsageCounters
}

// NewMemoryUsageRepository 创建内存使用计数仓储
func NewMemoryUsageRepository() repository.UsageRepository {
	return &MemoryUsageRepository{}
}

// Latest 返回计数器
func (r *MemoryUsageRepository) Latest(ctx context.Context) (*entity.UsageCounters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.counters
	return &c, nil
}

// Patch 应用增量
func (r *MemoryUsageRepository) Patch(ctx context.Context, delta entity.UsageDelta) (*entity.UsageCounters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters.Apply(delta)
	r.counters.UpdatedAt = time.Now()
	c := r.counters
	return &c, nil
}
