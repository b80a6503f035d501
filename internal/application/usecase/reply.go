package usecase

import (
	"context"
	"errors"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/repository"
	"github.com/chatbridge/chatbridge/internal/domain/service"
	apperrors "github.com/chatbridge/chatbridge/pkg/errors"
	"go.uber.org/zap"
)

// noResponseText is sent when the Completion Service returns no text.
const noResponseText = "I could not generate a response. Please try again."

// IncomingEvent is one plain-message or command invocation from the
// gateway, reduced to what the pipeline needs.
type IncomingEvent struct {
	ChannelID string
	UserID    string
	GuildID   string // empty for direct messages
	Text      string
	IsFromBot bool
}

// Reply is the pipeline's outcome. Nil means stay silent.
type Reply struct {
	Text string
}

// ReplyUseCase runs the full reply pipeline for one inbound event:
// policy → context assembly → completion → usage recording.
//
// It runs to completion or failure; there is no retry and no
// cancellation beyond the caller's context. A storage failure aborts
// before the completion call; a completion failure becomes a fixed
// apology, never a raw error.
type ReplyUseCase struct {
	settings  repository.SettingsRepository
	policy    *service.ResponsePolicy
	assembler *service.ContextAssembler
	builder   *service.PromptBuilder
	completer service.CompletionClient
	usage     *UsageUseCase
	logger    *zap.Logger
}

// NewReplyUseCase creates the reply pipeline.
func NewReplyUseCase(
	settings repository.SettingsRepository,
	policy *service.ResponsePolicy,
	assembler *service.ContextAssembler,
	builder *service.PromptBuilder,
	completer service.CompletionClient,
	usage *UsageUseCase,
	logger *zap.Logger,
) *ReplyUseCase {
	return &ReplyUseCase{
		settings:  settings,
		policy:    policy,
		assembler: assembler,
		builder:   builder,
		completer: completer,
		usage:     usage,
		logger:    logger,
	}
}

// HandlePlainMessage runs the pipeline for a plain channel message.
// The response-mode policy may decide to stay silent (nil, nil).
func (uc *ReplyUseCase) HandlePlainMessage(ctx context.Context, ev *IncomingEvent) (*Reply, error) {
	if ev.IsFromBot {
		return nil, nil
	}

	settings, err := uc.settings.Ensure(ctx, ev.GuildID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to load guild settings", err)
	}

	decision := uc.policy.Decide(settings, ev.ChannelID)
	if !decision.Admit {
		uc.logger.Debug("Message denied by policy",
			zap.String("guild_id", settings.GuildID),
			zap.String("channel_id", ev.ChannelID),
			zap.String("reason", decision.Reason),
		)
		return nil, nil
	}

	return uc.respond(ctx, ev, settings)
}

// HandleAsk runs the pipeline for an explicit /ask-ai invocation.
// The command path bypasses the policy: it is an intentional,
// user-initiated call, gated only by transport-level access.
func (uc *ReplyUseCase) HandleAsk(ctx context.Context, ev *IncomingEvent) (*Reply, error) {
	settings, err := uc.settings.Ensure(ctx, ev.GuildID)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to load guild settings", err)
	}
	return uc.respond(ctx, ev, settings)
}

func (uc *ReplyUseCase) respond(ctx context.Context, ev *IncomingEvent, settings *entity.GuildSettings) (*Reply, error) {
	conv, history, err := uc.assembler.Assemble(ctx, ev.ChannelID, ev.UserID, ev.GuildID, ev.Text)
	if err != nil {
		// StorageUnavailable: abort without a completion call so no
		// response is generated that could not be recorded
		return nil, err
	}

	req := uc.builder.Build(settings, history, ev.Text)
	text, err := uc.completer.Complete(ctx, req)

	uc.usage.Increment(ctx, true, true)

	if err != nil {
		var ce *service.CompletionError
		if errors.As(err, &ce) {
			return &Reply{Text: ce.Kind.Apology()}, nil
		}
		// CompletionClient contract violation; apologize anyway
		uc.logger.Error("Unclassified completion error", zap.Error(err))
		return &Reply{Text: service.ErrKindUnknown.Apology()}, nil
	}

	if text == "" {
		return &Reply{Text: noResponseText}, nil
	}

	if err := uc.assembler.RecordReply(ctx, conv.ID, text); err != nil {
		// reply is already generated; deliver it and log the gap
		uc.logger.Warn("Failed to record assistant reply", zap.Error(err))
	}

	return &Reply{Text: text}, nil
}
