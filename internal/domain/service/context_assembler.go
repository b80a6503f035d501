package service

import (
	"context"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	apperrors "github.com/chatbridge/chatbridge/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextWindow is the number of trailing messages kept as prompt history.
const ContextWindow = 10

// ContextAssembler resolves the conversation for a (channel, user) pair
// and produces the trailing message window used as prompt context.
type ContextAssembler struct {
	conversations repository.ConversationRepository
	logger        *zap.Logger
}

// NewContextAssembler creates the assembler.
func NewContextAssembler(conversations repository.ConversationRepository, logger *zap.Logger) *ContextAssembler {
	return &ContextAssembler{
		conversations: conversations,
		logger:        logger,
	}
}

// Assemble ensures the conversation exists, persists the incoming user
// message, then reloads and returns the trailing ContextWindow messages
// oldest-first (the just-stored message is the newest entry).
//
// Any storage failure surfaces as StorageUnavailable and the caller
// aborts before making a completion call, so no response is generated
// that could not be recorded.
func (a *ContextAssembler) Assemble(ctx context.Context, channelID, userID, guildID, text string) (*entity.Conversation, []*entity.ConversationMessage, error) {
	conv, err := a.conversations.Ensure(ctx, channelID, userID, guildID)
	if err != nil {
		return nil, nil, apperrors.NewStorageUnavailableError("failed to resolve conversation", err)
	}

	msg, err := entity.NewConversationMessage(uuid.NewString(), conv.ID, entity.RoleUser, text)
	if err != nil {
		return nil, nil, err
	}
	if err := a.conversations.AppendMessage(ctx, msg); err != nil {
		return nil, nil, apperrors.NewStorageUnavailableError("failed to store user message", err)
	}

	history, err := a.conversations.TrailingMessages(ctx, conv.ID, ContextWindow)
	if err != nil {
		return nil, nil, apperrors.NewStorageUnavailableError("failed to load conversation history", err)
	}

	a.logger.Debug("Context assembled",
		zap.String("conversation_id", conv.ID),
		zap.Int("history_len", len(history)),
	)

	return conv, history, nil
}

// RecordReply appends the assistant's reply to the conversation.
// A failure here is logged by the caller but does not undo the reply.
func (a *ContextAssembler) RecordReply(ctx context.Context, conversationID, text string) error {
	msg, err := entity.NewConversationMessage(uuid.NewString(), conversationID, entity.RoleAssistant, text)
	if err != nil {
		return err
	}
	if err := a.conversations.AppendMessage(ctx, msg); err != nil {
		return apperrors.NewStorageUnavailableError("failed to store assistant message", err)
	}
	return nil
}
