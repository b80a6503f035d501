package entity

import "time"

// Role 消息角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation 会话实体
// 标识 = (channelID, userID), 首条消息到达时懒创建, 从不显式关闭;
// 同一对出现多行时以创建时间最新的一行为当前会话
type Conversation struct {
	ID        string
	ChannelID string
	UserID    string
	GuildID   string
	CreatedAt time.Time
}

// ConversationMessage 会话内的一条消息, 按创建时间排序, 只追加不修改
type ConversationMessage struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	CreatedAt      time.Time
}

// NewConversationMessage 创建会话消息
func NewConversationMessage(id, conversationID string, role Role, content string) (*ConversationMessage, error) {
	if conversationID == "" {
		return nil, ErrInvalidConversationID
	}
	if role != RoleUser && role != RoleAssistant {
		return nil, ErrInvalidRole
	}
	return &ConversationMessage{
		ID:             id,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}, nil
}
