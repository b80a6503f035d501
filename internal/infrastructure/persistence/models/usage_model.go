package models

import "time"

// UsageCountersModel 数据库使用计数模型
// 增量补丁写为新时间戳, 读取时取最近更新的一行
type UsageCountersModel struct {
	ID                  uint `gorm:"primaryKey;autoIncrement"`
	ServerCount         int64
	MessageCount        int64
	ActiveConversations int64
	APICallCount        int64
	UptimeSeconds       int64
	CreatedAt           time.Time
	UpdatedAt           time.Time `gorm:"index"`
}

// TableName 指定表名
func (UsageCountersModel) TableName() string {
	return "usage_counters"
}
