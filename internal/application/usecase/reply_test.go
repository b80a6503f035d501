package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chatbridge/chatbridge/internal/application/usecase"
	"github.com/chatbridge/chatbridge/internal/domain/entity"
	"github.com/chatbridge/chatbridge/internal/domain/service"
	"github.com/chatbridge/chatbridge/internal/infrastructure/persistence"
	apperrors "github.com/chatbridge/chatbridge/pkg/errors"
	"go.uber.org/zap"
)

// fakeCompleter 模拟补全服务
type fakeCompleter struct {
	reply    string
	err      error
	requests []*service.CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req *service.CompletionRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// failingSettingsRepo 模拟持久层不可用
type failingSettingsRepo struct{}

func (failingSettingsRepo) Ensure(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	return nil, errors.New("connection refused")
}

func (failingSettingsRepo) Find(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	return nil, errors.New("connection refused")
}

func (failingSettingsRepo) Upsert(ctx context.Context, settings *entity.GuildSettings) error {
	return errors.New("connection refused")
}

type pipeline struct {
	reply     *usecase.ReplyUseCase
	settings  *usecase.SettingsUseCase
	completer *fakeCompleter
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	settingsRepo := persistence.NewMemorySettingsRepository()
	convRepo := persistence.NewMemoryConversationRepository()
	usageRepo := persistence.NewMemoryUsageRepository()

	completer := &fakeCompleter{reply: "Hello! How can I help?"}
	usage := usecase.NewUsageUseCase(usageRepo, logger)

	reply := usecase.NewReplyUseCase(
		settingsRepo,
		service.NewResponsePolicy(logger),
		service.NewContextAssembler(convRepo, logger),
		service.NewPromptBuilder(),
		completer,
		usage,
		logger,
	)

	return &pipeline{
		reply:     reply,
		settings:  usecase.NewSettingsUseCase(settingsRepo, logger),
		completer: completer,
	}
}

func TestHandlePlainMessage_FirstContact(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	// no settings row exists yet: defaults are created, message admitted
	reply, err := p.reply.HandlePlainMessage(ctx, &usecase.IncomingEvent{
		ChannelID: "general",
		UserID:    "U1",
		GuildID:   "G1",
		Text:      "what is Go?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply == nil || reply.Text != "Hello! How can I help?" {
		t.Fatalf("expected completion text, got %+v", reply)
	}

	if len(p.completer.requests) != 1 {
		t.Fatalf("expected exactly one completion call, got %d", len(p.completer.requests))
	}
	req := p.completer.requests[0]

	// [system, stored user message]; dedup suppressed the extra prompt
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 prompt entries, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "system" {
		t.Errorf("first entry should be system, got %s", req.Messages[0].Role)
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "what is Go?" {
		t.Errorf("trailing entry wrong: %+v", req.Messages[1])
	}

	// defaults: medium → 1000 tokens, helpful → 0.7
	if req.MaxTokens != 1000 || req.Temperature != 0.7 {
		t.Errorf("default parameters wrong: tokens=%d temp=%v", req.MaxTokens, req.Temperature)
	}
}

func TestHandlePlainMessage_IgnoresBots(t *testing.T) {
	p := newPipeline(t)

	reply, err := p.reply.HandlePlainMessage(context.Background(), &usecase.IncomingEvent{
		ChannelID: "general",
		UserID:    "B1",
		GuildID:   "G1",
		Text:      "beep",
		IsFromBot: true,
	})
	if err != nil || reply != nil {
		t.Errorf("bot message should be silently skipped, got %+v, %v", reply, err)
	}
	if len(p.completer.requests) != 0 {
		t.Error("no completion call expected for bot messages")
	}
}

func TestHandlePlainMessage_RequiredModeDenies(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	if _, err := p.settings.SetMode(ctx, "G1", "required"); err != nil {
		t.Fatal(err)
	}

	reply, err := p.reply.HandlePlainMessage(ctx, &usecase.IncomingEvent{
		ChannelID: "general",
		UserID:    "U1",
		GuildID:   "G1",
		Text:      "hello",
	})
	if err != nil || reply != nil {
		t.Errorf("required mode should deny plain messages, got %+v, %v", reply, err)
	}

	// the command path still admits
	reply, err = p.reply.HandleAsk(ctx, &usecase.IncomingEvent{
		ChannelID: "general",
		UserID:    "U1",
		GuildID:   "G1",
		Text:      "hello",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply == nil {
		t.Fatal("ask path should bypass the policy")
	}
}

func TestHandlePlainMessage_ApologyOnCompletionFailure(t *testing.T) {
	p := newPipeline(t)
	p.completer.err = &service.CompletionError{Kind: service.ErrKindRateLimited}

	reply, err := p.reply.HandlePlainMessage(context.Background(), &usecase.IncomingEvent{
		ChannelID: "general",
		UserID:    "U1",
		GuildID:   "G1",
		Text:      "hello",
	})
	if err != nil {
		t.Fatalf("completion failures must not propagate, got %v", err)
	}
	if reply == nil || reply.Text != service.ErrKindRateLimited.Apology() {
		t.Errorf("expected rate-limit apology, got %+v", reply)
	}
}

func TestHandlePlainMessage_EmptyCompletion(t *testing.T) {
	p := newPipeline(t)
	p.completer.reply = ""

	reply, err := p.reply.HandlePlainMessage(context.Background(), &usecase.IncomingEvent{
		ChannelID: "general",
		UserID:    "U1",
		GuildID:   "G1",
		Text:      "hello",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply == nil || !strings.Contains(reply.Text, "could not generate a response") {
		t.Errorf("expected the fixed no-response text, got %+v", reply)
	}
}

func TestHandlePlainMessage_StorageUnavailableAborts(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	convRepo := persistence.NewMemoryConversationRepository()
	completer := &fakeCompleter{}
	usage := usecase.NewUsageUseCase(persistence.NewMemoryUsageRepository(), logger)

	reply := usecase.NewReplyUseCase(
		failingSettingsRepo{},
		service.NewResponsePolicy(logger),
		service.NewContextAssembler(convRepo, logger),
		service.NewPromptBuilder(),
		completer,
		usage,
		logger,
	)

	r, err := reply.HandlePlainMessage(context.Background(), &usecase.IncomingEvent{
		ChannelID: "general",
		UserID:    "U1",
		GuildID:   "G1",
		Text:      "hello",
	})
	if r != nil {
		t.Error("no reply should be produced when storage is down")
	}
	if !apperrors.IsStorageUnavailable(err) {
		t.Errorf("expected StorageUnavailable, got %v", err)
	}
	if len(completer.requests) != 0 {
		t.Error("pipeline must abort before the completion call")
	}
}

func TestConversationContext_AccumulatesAcrossTurns(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	ev := &usecase.IncomingEvent{ChannelID: "general", UserID: "U1", GuildID: "G1"}
	for _, text := range []string{"first", "second"} {
		ev.Text = text
		if _, err := p.reply.HandlePlainMessage(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	last := p.completer.requests[len(p.completer.requests)-1]
	// system + user + assistant + user
	if len(last.Messages) != 4 {
		t.Fatalf("expected 4 prompt entries on turn 2, got %d", len(last.Messages))
	}
	if last.Messages[2].Role != "assistant" {
		t.Errorf("previous reply should appear as assistant context: %+v", last.Messages[2])
	}
}
