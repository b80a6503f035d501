package service

import (
	"strings"

	"github.com/chatbridge/chatbridge/internal/domain/entity"
)

// Numeric completion parameters resolved from guild settings.
const (
	maxTokensConcise  = 500
	maxTokensMedium   = 1000
	maxTokensDetailed = 1500

	temperatureDefault  = 0.7
	temperatureCreative = 0.8
)

const basePrompt = "You are a helpful AI assistant in a chat server. Answer the user's questions directly and accurately."

var personalityClauses = map[entity.Personality]string{
	entity.PersonalityHelpful:   "Be helpful and informative in your responses.",
	entity.PersonalityFriendly:  "Be warm, friendly and conversational in your responses.",
	entity.PersonalityTechnical: "Be precise and technical; favor accuracy over simplification.",
	entity.PersonalityCreative:  "Be creative and imaginative in your responses.",
}

var lengthClauses = map[entity.ResponseLength]string{
	entity.LengthConcise:  "Keep your responses short and to the point.",
	entity.LengthMedium:   "Keep your responses reasonably brief but complete.",
	entity.LengthDetailed: "Give thorough, detailed responses.",
}

const codeFormatClause = "Wrap any code in your responses in markdown code blocks."

// PromptBuilder composes the system instruction and the ordered prompt
// sequence sent to the Completion Service.
type PromptBuilder struct{}

// NewPromptBuilder creates the builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// SystemPrompt concatenates the fixed base clause with exactly one
// personality clause and one length clause. Unrecognized settings fall
// back to helpful/medium.
func (b *PromptBuilder) SystemPrompt(settings *entity.GuildSettings) string {
	personality, ok := personalityClauses[settings.Personality]
	if !ok {
		personality = personalityClauses[entity.PersonalityHelpful]
	}
	length, ok := lengthClauses[settings.ResponseLength]
	if !ok {
		length = lengthClauses[entity.LengthMedium]
	}

	parts := []string{basePrompt, personality, length}
	if settings.CodeFormatting {
		parts = append(parts, codeFormatClause)
	}
	return strings.Join(parts, " ")
}

// Build assembles [system] ++ context (with stored roles) ++ prompt.
// If the last context entry is byte-identical to the prompt, the prompt
// is not appended a second time — it is already the trailing entry.
func (b *PromptBuilder) Build(settings *entity.GuildSettings, history []*entity.ConversationMessage, prompt string) *CompletionRequest {
	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{
		Role:    "system",
		Content: b.SystemPrompt(settings),
	})

	for _, msg := range history {
		messages = append(messages, ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	if len(history) == 0 || history[len(history)-1].Content != prompt {
		messages = append(messages, ChatMessage{
			Role:    "user",
			Content: prompt,
		})
	}

	return &CompletionRequest{
		Messages:    messages,
		MaxTokens:   b.maxTokens(settings.ResponseLength),
		Temperature: b.temperature(settings.Personality),
	}
}

func (b *PromptBuilder) maxTokens(length entity.ResponseLength) int {
	switch length {
	case entity.LengthConcise:
		return maxTokensConcise
	case entity.LengthDetailed:
		return maxTokensDetailed
	default:
		return maxTokensMedium
	}
}

func (b *PromptBuilder) temperature(personality entity.Personality) float32 {
	if personality == entity.PersonalityCreative {
		return temperatureCreative
	}
	return temperatureDefault
}
