package repository

import (
	"context"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
)

// ConversationRepository 会话仓储接口
type ConversationRepository interface {
	// Ensure 按 (channelID, userID) 获取会话, 不存在时原子创建;
	// 历史上存在多行时返回创建时间最新的一行
	Ensure(ctx context.Context, channelID, userID, guildID string) (*entity.Conversation, error)

	// AppendMessage 向会话追加一条消息
	AppendMessage(ctx context.Context, message *entity.ConversationMessage) error

	// TrailingMessages 返回会话最近 n 条消息, 按创建时间升序
	TrailingMessages(ctx context.Context, conversationID string, n int) ([]*entity.ConversationMessage, error)

	// ListRecent 返回最近的会话列表 (仪表盘用), 按创建时间降序
	ListRecent(ctx context.Context, limit int) ([]*entity.Conversation, error)

	// ListMessages 返回会话的全部消息, 按创建时间升序
	ListMessages(ctx context.Context, conversationID string) ([]*entity.ConversationMessage, error)

	// CountActive 统计会话总数 (计数器用)
	CountActive(ctx context.Context) (int64, error)
}
