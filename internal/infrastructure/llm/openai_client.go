package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/chatbridge/chatbridge/internal/domain/service"
	"github.com/chatbridge/chatbridge/internal/infrastructure/config"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient 补全服务适配器 (OpenAI 兼容 API)
// 错误一律分类为 *service.CompletionError 后返回, 不向上层泄露原始错误
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIClient 创建补全服务客户端
func NewOpenAIClient(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger,
	}
}

// Complete 发起一次补全调用, 每个用户回合只尝试一次, 失败不重试
func (c *OpenAIClient) Complete(ctx context.Context, req *service.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		ce := service.ClassifyCompletionError(err, statusCodeOf(err))
		c.logger.Warn("Completion call failed",
			zap.String("kind", ce.Kind.String()),
			zap.Int("status", ce.StatusCode),
			zap.Error(err),
		)
		return "", ce
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// statusCodeOf 从 go-openai 的错误类型提取 HTTP 状态码
func statusCodeOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
