package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
	apperrors "github.com/chatbridge/chatbridge/pkg/errors"
)

// fakeConversationRepo 模拟会话仓储
type fakeConversationRepo struct {
	conv     *entity.Conversation
	messages []*entity.ConversationMessage
	failing  bool
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{}
}

func (r *fakeConversationRepo) Ensure(ctx context.Context, channelID, userID, guildID string) (*entity.Conversation, error) {
	if r.failing {
		return nil, errors.New("connection refused")
	}
	if r.conv == nil {
		r.conv = &entity.Conversation{
			ID:        "conv-1",
			ChannelID: channelID,
			UserID:    userID,
			GuildID:   guildID,
			CreatedAt: time.Now(),
		}
	}
	return r.conv, nil
}

func (r *fakeConversationRepo) AppendMessage(ctx context.Context, message *entity.ConversationMessage) error {
	if r.failing {
		return errors.New("connection refused")
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeConversationRepo) TrailingMessages(ctx context.Context, conversationID string, n int) ([]*entity.ConversationMessage, error) {
	if r.failing {
		return nil, errors.New("connection refused")
	}
	if len(r.messages) <= n {
		return r.messages, nil
	}
	return r.messages[len(r.messages)-n:], nil
}

func (r *fakeConversationRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Conversation, error) {
	return []*entity.Conversation{r.conv}, nil
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.ConversationMessage, error) {
	return r.messages, nil
}

func (r *fakeConversationRepo) CountActive(ctx context.Context) (int64, error) {
	return 1, nil
}

func TestAssemble_CreatesConversationAndStoresMessage(t *testing.T) {
	repo := newFakeConversationRepo()
	assembler := NewContextAssembler(repo, testLogger())

	conv, history, err := assembler.Assemble(context.Background(), "general", "U1", "G1", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.ChannelID != "general" || conv.UserID != "U1" {
		t.Errorf("conversation identity wrong: %+v", conv)
	}
	if len(history) != 1 {
		t.Fatalf("expected the stored message as the only history entry, got %d", len(history))
	}
	if history[0].Role != entity.RoleUser || history[0].Content != "hello" {
		t.Errorf("stored message wrong: %+v", history[0])
	}
}

func TestAssemble_TrailingWindow(t *testing.T) {
	repo := newFakeConversationRepo()
	assembler := NewContextAssembler(repo, testLogger())

	// 11 turns already stored; turn 12's window is the last 10
	var history []*entity.ConversationMessage
	var err error
	for i := 1; i <= 12; i++ {
		_, history, err = assembler.Assemble(context.Background(), "general", "U1", "G1", fmt.Sprintf("turn %d", i))
		if err != nil {
			t.Fatalf("turn %d failed: %v", i, err)
		}
	}

	if len(history) != ContextWindow {
		t.Fatalf("expected %d entries, got %d", ContextWindow, len(history))
	}
	if history[0].Content != "turn 3" {
		t.Errorf("oldest window entry should be turn 3, got %q", history[0].Content)
	}
	if history[len(history)-1].Content != "turn 12" {
		t.Errorf("newest window entry should be turn 12, got %q", history[len(history)-1].Content)
	}
}

func TestAssemble_StorageUnavailable(t *testing.T) {
	repo := newFakeConversationRepo()
	repo.failing = true
	assembler := NewContextAssembler(repo, testLogger())

	_, _, err := assembler.Assemble(context.Background(), "general", "U1", "G1", "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperrors.IsStorageUnavailable(err) {
		t.Errorf("expected StorageUnavailable, got %v", err)
	}
}

func TestRecordReply(t *testing.T) {
	repo := newFakeConversationRepo()
	assembler := NewContextAssembler(repo, testLogger())

	if _, _, err := assembler.Assemble(context.Background(), "general", "U1", "G1", "hello"); err != nil {
		t.Fatal(err)
	}
	if err := assembler.RecordReply(context.Background(), "conv-1", "hi there"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := repo.messages[len(repo.messages)-1]
	if last.Role != entity.RoleAssistant || last.Content != "hi there" {
		t.Errorf("assistant message wrong: %+v", last)
	}
}
