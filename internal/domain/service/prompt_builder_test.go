package service

import (
	"strings"
	"testing"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
)

func TestSystemPrompt_Clauses(t *testing.T) {
	b := NewPromptBuilder()

	tests := []struct {
		name        string
		personality entity.Personality
		length      entity.ResponseLength
		contains    []string
	}{
		{"helpful medium", entity.PersonalityHelpful, entity.LengthMedium,
			[]string{"helpful and informative", "reasonably brief"}},
		{"creative detailed", entity.PersonalityCreative, entity.LengthDetailed,
			[]string{"creative and imaginative", "thorough, detailed"}},
		{"technical concise", entity.PersonalityTechnical, entity.LengthConcise,
			[]string{"precise and technical", "short and to the point"}},
		{"unknown values fall back", entity.Personality("bogus"), entity.ResponseLength("bogus"),
			[]string{"helpful and informative", "reasonably brief"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := entity.DefaultGuildSettings("G1")
			settings.Personality = tt.personality
			settings.ResponseLength = tt.length

			prompt := b.SystemPrompt(settings)
			if !strings.HasPrefix(prompt, basePrompt) {
				t.Errorf("system prompt missing base clause: %q", prompt)
			}
			for _, want := range tt.contains {
				if !strings.Contains(prompt, want) {
					t.Errorf("system prompt missing %q: %q", want, prompt)
				}
			}
		})
	}
}

func TestSystemPrompt_CodeFormatting(t *testing.T) {
	b := NewPromptBuilder()
	settings := entity.DefaultGuildSettings("G1")

	if !strings.Contains(b.SystemPrompt(settings), codeFormatClause) {
		t.Error("code formatting on by default, clause should be present")
	}

	settings.CodeFormatting = false
	if strings.Contains(b.SystemPrompt(settings), codeFormatClause) {
		t.Error("clause should be absent when code formatting is off")
	}
}

func TestBuild_Parameters(t *testing.T) {
	b := NewPromptBuilder()

	tests := []struct {
		name        string
		personality entity.Personality
		length      entity.ResponseLength
		maxTokens   int
		temperature float32
	}{
		{"creative is warmer", entity.PersonalityCreative, entity.LengthMedium, 1000, 0.8},
		{"helpful default", entity.PersonalityHelpful, entity.LengthMedium, 1000, 0.7},
		{"friendly default temp", entity.PersonalityFriendly, entity.LengthMedium, 1000, 0.7},
		{"concise budget", entity.PersonalityHelpful, entity.LengthConcise, 500, 0.7},
		{"detailed budget", entity.PersonalityHelpful, entity.LengthDetailed, 1500, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := entity.DefaultGuildSettings("G1")
			settings.Personality = tt.personality
			settings.ResponseLength = tt.length

			req := b.Build(settings, nil, "hello")
			if req.MaxTokens != tt.maxTokens {
				t.Errorf("expected max tokens %d, got %d", tt.maxTokens, req.MaxTokens)
			}
			if req.Temperature != tt.temperature {
				t.Errorf("expected temperature %v, got %v", tt.temperature, req.Temperature)
			}
		})
	}
}

func TestBuild_Sequence(t *testing.T) {
	b := NewPromptBuilder()
	settings := entity.DefaultGuildSettings("G1")

	history := []*entity.ConversationMessage{
		{Role: entity.RoleUser, Content: "first"},
		{Role: entity.RoleAssistant, Content: "second"},
	}

	req := b.Build(settings, history, "third")
	if len(req.Messages) != 4 {
		t.Fatalf("expected [system, user, assistant, user], got %d messages", len(req.Messages))
	}
	if req.Messages[0].Role != "system" {
		t.Errorf("first message should be system, got %s", req.Messages[0].Role)
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "first" {
		t.Errorf("context order lost: %+v", req.Messages[1])
	}
	if req.Messages[2].Role != "assistant" {
		t.Errorf("stored role not preserved: %+v", req.Messages[2])
	}
	if req.Messages[3].Role != "user" || req.Messages[3].Content != "third" {
		t.Errorf("current prompt missing: %+v", req.Messages[3])
	}
}

func TestBuild_DedupTrailingPrompt(t *testing.T) {
	b := NewPromptBuilder()
	settings := entity.DefaultGuildSettings("G1")

	// the assembler stores the incoming message before the window is
	// read, so the prompt is usually already the trailing entry
	history := []*entity.ConversationMessage{
		{Role: entity.RoleAssistant, Content: "earlier reply"},
		{Role: entity.RoleUser, Content: "what is Go?"},
	}

	req := b.Build(settings, history, "what is Go?")
	if len(req.Messages) != 3 {
		t.Fatalf("prompt duplicated: got %d messages", len(req.Messages))
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Content != "what is Go?" || last.Role != "user" {
		t.Errorf("trailing entry wrong: %+v", last)
	}
}

func TestBuild_EmptyHistory(t *testing.T) {
	b := NewPromptBuilder()
	settings := entity.DefaultGuildSettings("G1")

	req := b.Build(settings, nil, "hello")
	if len(req.Messages) != 2 {
		t.Fatalf("expected [system, user], got %d messages", len(req.Messages))
	}
}
