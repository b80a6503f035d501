package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"github.com/google/uuid"
)

// MemoryConversationRepository 内存实现的会话仓储（用于开发/测试）
type MemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations []*entity.Conversation
	messages      map[string][]*entity.ConversationMessage
}

// NewMemoryConversationRepository 创建内存会话仓储
func NewMemoryConversationRepository() repository.ConversationRepository {
	return &MemoryConversationRepository{
		messages: make(map[string][]*entity.ConversationMessage),
	}
}

// Ensure 获取或创建会话, 同一 (channel,user) 多行时最新创建的生效
func (r *MemoryConversationRepository) Ensure(ctx context.Context, channelID, userID, guildID string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *entity.Conversation
	for _, c := range r.conversations {
		if c.ChannelID == channelID && c.UserID == userID {
			if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
				latest = c
			}
		}
	}
	if latest != nil {
		return latest, nil
	}

	conv := &entity.Conversation{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		UserID:    userID,
		GuildID:   guildID,
		CreatedAt: time.Now(),
	}
	r.conversations = append(r.conversations, conv)
	return conv, nil
}

// AppendMessage 追加会话消息
func (r *MemoryConversationRepository) AppendMessage(ctx context.Context, message *entity.ConversationMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], message)
	return nil
}

// TrailingMessages 返回最近 n 条消息, 升序
func (r *MemoryConversationRepository) TrailingMessages(ctx context.Context, conversationID string, n int) ([]*entity.ConversationMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.messages[conversationID]
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return append([]*entity.ConversationMessage(nil), msgs...), nil
}

// ListRecent 返回最近会话, 降序
func (r *MemoryConversationRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recent := append([]*entity.Conversation(nil), r.conversations...)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

// ListMessages 返回会话全部消息, 升序
func (r *MemoryConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.ConversationMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*entity.ConversationMessage(nil), r.messages[conversationID]...), nil
}

// CountActive 统计会话总数
func (r *MemoryConversationRepository) CountActive(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.conversations)), nil
}
