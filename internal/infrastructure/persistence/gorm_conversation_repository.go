package persistence

import (
	"context"
	"errors"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"github.com/chatbridge/chatbridge/internal/infrastructure/persistence/models"
	domainErrors "github.com/chatbridge/chatbridge/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConversationRepository GORM 实现的会话仓储
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository 创建 GORM 会话仓储
func NewGormConversationRepository(db *gorm.DB) repository.ConversationRepository {
	return &GormConversationRepository{
		db: db,
	}
}

// Ensure 按 (channelID, userID) 获取会话, 不存在时原子创建
// 历史数据中同一对可能有多行, 读取时最新创建的一行生效
func (r *GormConversationRepository) Ensure(ctx context.Context, channelID, userID, guildID string) (*entity.Conversation, error) {
	var model models.ConversationModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Order("created_at DESC").
		First(&model).Error

	if err == nil {
		return r.toEntity(&model), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.NewInternalError("failed to find conversation: " + err.Error())
	}

	err = r.db.WithContext(ctx).
		Where(&models.ConversationModel{ChannelID: channelID, UserID: userID}).
		Attrs(&models.ConversationModel{ID: uuid.NewString(), GuildID: guildID}).
		FirstOrCreate(&model).Error
	if err != nil {
		return nil, domainErrors.NewInternalError("failed to create conversation: " + err.Error())
	}

	return r.toEntity(&model), nil
}

// AppendMessage 追加会话消息
func (r *GormConversationRepository) AppendMessage(ctx context.Context, message *entity.ConversationMessage) error {
	model := &models.ConversationMessageModel{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Role:           string(message.Role),
		Content:        message.Content,
		CreatedAt:      message.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return domainErrors.NewInternalError("failed to append message: " + err.Error())
	}
	return nil
}

// TrailingMessages 返回最近 n 条消息, 升序
func (r *GormConversationRepository) TrailingMessages(ctx context.Context, conversationID string, n int) ([]*entity.ConversationMessage, error) {
	var rows []models.ConversationMessageModel
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, domainErrors.NewInternalError("failed to load trailing messages: " + err.Error())
	}

	// 查询按时间倒序取了最后 n 条, 翻转回时间升序
	messages := make([]*entity.ConversationMessage, len(rows))
	for i, row := range rows {
		messages[len(rows)-1-i] = r.toMessageEntity(&row)
	}
	return messages, nil
}

// ListRecent 返回最近会话, 降序
func (r *GormConversationRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Conversation, error) {
	var rows []models.ConversationModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, domainErrors.NewInternalError("failed to list conversations: " + err.Error())
	}

	conversations := make([]*entity.Conversation, 0, len(rows))
	for i := range rows {
		conversations = append(conversations, r.toEntity(&rows[i]))
	}
	return conversations, nil
}

// ListMessages 返回会话全部消息, 升序
func (r *GormConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.ConversationMessage, error) {
	var rows []models.ConversationMessageModel
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, domainErrors.NewInternalError("failed to list messages: " + err.Error())
	}

	messages := make([]*entity.ConversationMessage, 0, len(rows))
	for i := range rows {
		messages = append(messages, r.toMessageEntity(&rows[i]))
	}
	return messages, nil
}

// CountActive 统计会话总数
func (r *GormConversationRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ConversationModel{}).
		Count(&count).Error
	if err != nil {
		return 0, domainErrors.NewInternalError("failed to count conversations: " + err.Error())
	}
	return count, nil
}

// 转换方法

func (r *GormConversationRepository) toEntity(model *models.ConversationModel) *entity.Conversation {
	return &entity.Conversation{
		ID:        model.ID,
		ChannelID: model.ChannelID,
		UserID:    model.UserID,
		GuildID:   model.GuildID,
		CreatedAt: model.CreatedAt,
	}
}

func (r *GormConversationRepository) toMessageEntity(model *models.ConversationMessageModel) *entity.ConversationMessage {
	return &entity.ConversationMessage{
		ID:             model.ID,
		ConversationID: model.ConversationID,
		Role:           entity.Role(model.Role),
		Content:        model.Content,
		CreatedAt:      model.CreatedAt,
	}
}
