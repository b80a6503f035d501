package entity

import "time"

// UsageCounters 粗粒度使用计数
// 只有最近更新的一行是权威数据; 近似遥测信号, 不是计费账本
type UsageCounters struct {
	ID                  uint
	ServerCount         int64
	MessageCount        int64
	ActiveConversations int64
	APICallCount        int64
	UptimeSeconds       int64
	UpdatedAt           time.Time
}

// UsageDelta 计数器增量补丁
type UsageDelta struct {
	Messages            int64
	APICalls            int64
	ActiveConversations int64
	ServerCount         *int64 // nil = 不修改
	UptimeSeconds       *int64 // nil = 不修改
}

// Apply 将增量应用到计数器
func (c *UsageCounters) Apply(d UsageDelta) {
	c.MessageCount += d.Messages
	c.APICallCount += d.APICalls
	c.ActiveConversations += d.ActiveConversations
	if d.ServerCount != nil {
		c.ServerCount = *d.ServerCount
	}
	if d.UptimeSeconds != nil {
		c.UptimeSeconds = *d.UptimeSeconds
	}
}
