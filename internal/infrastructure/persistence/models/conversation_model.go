package models

import "time"

// ConversationModel 数据库会话模型
type ConversationModel struct {
	ID        string `gorm:"primaryKey;size:64"`
	ChannelID string `gorm:"index:idx_channel_user;size:64;not null"`
	UserID    string `gorm:"index:idx_channel_user;size:64;not null"`
	GuildID   string `gorm:"index;size:64"`
	CreatedAt time.Time
}

// TableName 指定表名
func (ConversationModel) TableName() string {
	return "conversations"
}

// ConversationMessageModel 数据库会话消息模型
type ConversationMessageModel struct {
	ID             string `gorm:"primaryKey;size:64"`
	ConversationID string `gorm:"index;size:64;not null"`
	Role           string `gorm:"size:16;not null"` // user, assistant
	Content        string `gorm:"type:text;not null"`
	CreatedAt      time.Time
}

// TableName 指定表名
func (ConversationMessageModel) TableName() string {
	return "conversation_messages"
}
